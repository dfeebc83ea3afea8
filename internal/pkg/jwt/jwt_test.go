package jwt

import (
	"testing"
	"time"

	"servicehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	svc := New("secret", time.Hour)

	token, expires, err := svc.GenerateToken(12, domain.RoleHost)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.ActorContext{UserID: 12, Role: domain.RoleHost}, claims.Actor())
}

func TestService_Rejects(t *testing.T) {
	svc := New("secret", time.Hour)

	other, _, err := New("other-secret", time.Hour).GenerateToken(12, domain.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.ValidateToken(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := New("secret", -time.Minute).GenerateToken(12, domain.RoleCustomer)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unknownRole, _, err := svc.GenerateToken(12, "studio_owner")
	require.NoError(t, err)
	_, err = svc.ValidateToken(unknownRole)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
