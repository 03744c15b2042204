package utils

import (
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// GetSubject returns the token subject attached by the auth middleware.
func GetSubject(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok || claims == nil {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}

// NewID returns a short public id for sets and cards.
func NewID() (string, error) {
	return gonanoid.New()
}

// NewUUID returns an id for log-style records (sessions, queued actions).
func NewUUID() string {
	return uuid.NewString()
}
