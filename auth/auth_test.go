package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuer = Issuer{Secret: "test-secret", Issuer: "flashlearn", Audience: "flashlearn-api"}

func TestCreateAndVerify(t *testing.T) {
	token, err := issuer.CreateToken("learner-1", time.Hour)
	require.NoError(t, err)

	sub, err := issuer.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "learner-1", sub)
}

func TestVerifyRejects(t *testing.T) {
	good, err := issuer.CreateToken("learner-1", time.Hour)
	require.NoError(t, err)
	expired, err := issuer.CreateToken("learner-1", -time.Minute)
	require.NoError(t, err)

	wrongSecret := issuer
	wrongSecret.Secret = "other"
	wrongAudience := issuer
	wrongAudience.Audience = "someone-else"

	_, err = wrongSecret.VerifyToken(good)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	_, err = wrongAudience.VerifyToken(good)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
	_, err = issuer.VerifyToken(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	_, err = issuer.VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	_, err := Issuer{}.CreateToken("x", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = Issuer{}.VerifyToken("x")
	assert.ErrorIs(t, err, ErrNoSecret)
}
