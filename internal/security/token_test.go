package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_AccessToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	t.Run("Success", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(2, "rina@example.com")
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int32(2), claims.UserID)
		assert.Equal(t, TokenTypeAccess, claims.Type)
		assert.Equal(t, "rina@example.com", claims.Email)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokenManager("another-secret-another-secret-xx", time.Hour).GenerateAccessToken(2, "")
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := &tokenManager{
			secret:    []byte(testSecret),
			accessTTL: time.Minute,
			now:       func() time.Time { return time.Now().Add(-time.Hour) },
		}
		token, err := expired.GenerateAccessToken(2, "")
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("System id cannot be minted", func(t *testing.T) {
		_, err := tm.GenerateAccessToken(0, "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("System id is rejected on validation", func(t *testing.T) {
		claims := UserClaims{
			Type: TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    tokenIssuer,
				Audience:  jwt.ClaimStrings{accessAudience},
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
