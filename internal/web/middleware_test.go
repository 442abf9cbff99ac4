package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/authdash/internal/client/services"
	"github.com/dmitrijs2005/authdash/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthStateFrom_Empty(t *testing.T) {
	st := AuthStateFrom(context.Background())
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.User)
}

func TestRequireAuth(t *testing.T) {
	a := &App{}
	called := false
	h := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, called)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(withState(req.Context(), services.AuthState{Authenticated: true, User: &models.User{ID: "1"}}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.True(t, called)
}

func TestPages_UnknownPage(t *testing.T) {
	p, err := parsePages()
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	assert.Error(t, p.render(rec, http.StatusOK, "missing", nil))
}
