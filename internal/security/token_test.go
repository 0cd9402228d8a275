package security

import (
	"testing"

	"carloc-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret-0123456789abcdef0123456789", 60, 60*24)

	token, err := tm.GenerateAccessToken("ext-1", "user@test.com", domain.UserRoleAgency)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ext-1", claims.ExternalID)
	assert.Equal(t, "user@test.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, domain.UserRoleAgency, claims.Role)
}

func TestTokenManager_RefreshCarriesNoRole(t *testing.T) {
	tm := NewTokenManager("test-secret-0123456789abcdef0123456789", 60, 60*24)

	token, err := tm.GenerateRefreshToken("ext-1", "user@test.com")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
	assert.Empty(t, claims.Role)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret-0123456789abcdef0123456789", 60, 60*24)
	other := NewTokenManager("other-secret-0123456789abcdef012345678", 60, 60*24)

	token, err := tm.GenerateAccessToken("ext-1", "user@test.com", domain.UserRoleRenter)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expiry(t *testing.T) {
	tm := NewTokenManager("test-secret-0123456789abcdef0123456789", -1, 60)

	token, err := tm.GenerateAccessToken("ext-1", "user@test.com", domain.UserRoleRenter)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
