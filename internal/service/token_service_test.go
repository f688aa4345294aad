package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/deputat-planner/internal/models"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "schulverwaltung"})

	token, err := svc.Issue("user-1", models.RolePlanner, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RolePlanner, claims.Role)
}

func TestTokenServiceRejectsForeignTokens(t *testing.T) {
	issuer := NewTokenService(TokenConfig{Secret: "other", Issuer: "schulverwaltung"})
	token, err := issuer.Issue("user-1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenService(TokenConfig{Secret: "secret", Issuer: "schulverwaltung"}).ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	wrongIssuer := NewTokenService(TokenConfig{Secret: "other", Issuer: "elsewhere"})
	_, err = wrongIssuer.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestTokenServiceRejectsExpiredAndUnknownRoles(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})
	expired, err := svc.Issue("user-1", models.RoleViewer, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	odd, err := svc.Issue("user-1", models.UserRole("STUDENT"), time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(odd)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
