package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/config"
	"github.com/dmitrijs2005/authdash/internal/client/services"
	"github.com/dmitrijs2005/authdash/internal/client/storage"
	"github.com/dmitrijs2005/authdash/internal/logging"
	"github.com/dmitrijs2005/authdash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, fa *fakeAuth, args ...string) (*config.Config, string, error) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	var out bytes.Buffer
	cleaned := false
	root := NewRootCommand(cfg, func(c *config.Config) (*App, func(), error) {
		a := NewApp(fa, storage.NewMemoryStore(), strings.NewReader(""), &out, logging.Discard())
		return a, func() { cleaned = true }, nil
	})
	root.SetArgs(args)
	root.SetOut(&out)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		assert.True(t, cleaned, "cleanup not called")
	}
	return cfg, out.String(), err
}

func TestRoot_Subcommands(t *testing.T) {
	root := NewRootCommand(&config.Config{}, nil)
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"login", "logout", "register", "status"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestRoot_LoginWithFlags(t *testing.T) {
	stubPassword(t, "pw")
	fa := &fakeAuth{LoginRes: &services.LoginResult{User: &models.User{Email: "a@b.com"}}}

	cfg, out, err := runRoot(t, fa, "-u", "http://api:1", "-s", "-t", "3", "login", "--email", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", fa.LastCreds.Email)
	assert.Equal(t, "http://api:1", cfg.APIURL)
	assert.True(t, cfg.StaticFallback)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Contains(t, out, "Login successful")
}

func TestRoot_Status(t *testing.T) {
	_, out, err := runRoot(t, &fakeAuth{}, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")
}

func TestRoot_FactoryError(t *testing.T) {
	cfg := &config.Config{}
	boom := errors.New("open store")
	root := NewRootCommand(cfg, func(*config.Config) (*App, func(), error) { return nil, nil, boom })
	root.SetArgs([]string{"logout"})
	assert.ErrorIs(t, root.Execute(), boom)
}

func TestRoot_RejectsArgs(t *testing.T) {
	_, _, err := runRoot(t, &fakeAuth{}, "logout", "extra")
	assert.Error(t, err)
}
