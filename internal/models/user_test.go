package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ana", (&User{Name: "Ana", Email: "ana@example.com"}).DisplayName())
	assert.Equal(t, "ana", (&User{Email: "ana@example.com"}).DisplayName())
	assert.Equal(t, "nodomain", (&User{Email: "nodomain"}).DisplayName())
}

func TestEncodeDecodeUser(t *testing.T) {
	in := &User{ID: "42", Email: "a@b.c", Role: "admin"}

	s, err := EncodeUser(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"42","email":"a@b.c","role":"admin"}`, s)

	out, err := DecodeUser(s)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeUser_Rejects(t *testing.T) {
	_, err := DecodeUser(`not json`)
	require.Error(t, err)

	_, err = DecodeUser(`{}`)
	require.Error(t, err)

	_, err = DecodeUser(`{"name":"only a name"}`)
	require.Error(t, err)
}
