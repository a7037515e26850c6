package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("Alice", user.RoleAdmin)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice", claims[user.ClaimSalesPersonName])
	assert.Equal(t, "admin", claims[user.ClaimRole])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestGenerateAccessToken_DefaultsRoleAndRequiresName(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, _, err := svc.GenerateAccessToken("", user.RoleUser)
	assert.ErrorIs(t, err, user.ErrIdentityMissing)

	token, _, err := svc.GenerateAccessToken("Bob", "")
	require.NoError(t, err)
	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	role, _ := decoded.Get(user.ClaimRole)
	assert.Equal(t, "user", role)
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	who := user.Identity{SalesPersonName: "Alice", Role: user.RoleUser}

	token, expiresIn, err := svc.GenerateSSEToken(who)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	got, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, who, got)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, _, err := svc.GenerateAccessToken("Alice", user.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateSSEToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour).(*JWTService)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateSSEToken(user.Identity{SalesPersonName: "Alice"})
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_WrongSecret(t *testing.T) {
	token, _, err := NewJWTService("one", time.Hour).GenerateSSEToken(user.Identity{SalesPersonName: "Alice"})
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour).ValidateSSEToken(token)
	assert.Error(t, err)
}
