package utils

import (
	"context"
	"net/http/httptest"
	"testing"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSubject(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/sets", nil)
	_, ok := GetSubject(req)
	assert.False(t, ok)

	claims := &validator.ValidatedClaims{RegisteredClaims: validator.RegisteredClaims{Subject: "local"}}
	req = req.WithContext(context.WithValue(req.Context(), jwtmiddleware.ContextKey{}, claims))
	sub, ok := GetSubject(req)
	require.True(t, ok)
	assert.Equal(t, "local", sub)
}

func TestIDs(t *testing.T) {
	a, err := NewID()
	require.NoError(t, err)
	b, err := NewID()
	require.NoError(t, err)
	assert.Len(t, a, 21)
	assert.NotEqual(t, a, b)

	_, err = uuid.Parse(NewUUID())
	assert.NoError(t, err)
}
