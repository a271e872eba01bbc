package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autherror "github.com/driveshare/auth-service/internal/errors"
)

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name           string
		accessSecret   string
		refreshSecret  string
		accessMinutes  int
		refreshMinutes int
	}{
		{
			name:           "valid parameters",
			accessSecret:   "access-secret-key",
			refreshSecret:  "refresh-secret-key",
			accessMinutes:  10080,
			refreshMinutes: 43200,
		},
		{
			name:           "empty secrets",
			accessSecret:   "",
			refreshSecret:  "",
			accessMinutes:  30,
			refreshMinutes: 2880,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService(tt.accessSecret, tt.refreshSecret, tt.accessMinutes, tt.refreshMinutes)

			assert.NotNil(t, ts)
			assert.Equal(t, tt.accessSecret, ts.AccessTokenSecret)
			assert.Equal(t, tt.refreshSecret, ts.RefreshTokenSecret)
			assert.Equal(t, time.Duration(tt.accessMinutes)*time.Minute, ts.AccessTokenExpiry)
			assert.Equal(t, time.Duration(tt.refreshMinutes)*time.Minute, ts.RefreshTokenExpiry)
		})
	}
}

func TestTokenService_Generate(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
		sessionID string
		lineageID string
	}{
		{
			name:      "successful token generation",
			accountID: "account-123",
			sessionID: "session-456",
			lineageID: "lineage-789",
		},
		{
			name:      "empty ids still sign",
			accountID: "",
			sessionID: "",
			lineageID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 1440)

			access, refresh, refreshExp, err := ts.Generate(tt.accountID, tt.sessionID, tt.lineageID)
			require.NoError(t, err)
			assert.NotEmpty(t, access)
			assert.NotEmpty(t, refresh)
			assert.WithinDuration(t, time.Now().Add(ts.RefreshTokenExpiry), refreshExp, 5*time.Second)
		})
	}
}

func TestTokenService_VerifyAccessToken(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 1440)

	t.Run("valid token round-trips claims", func(t *testing.T) {
		access, _, _, err := ts.Generate("account-123", "session-456", "lineage-789")
		require.NoError(t, err)

		claims, err := ts.VerifyAccessToken(access)
		require.NoError(t, err)
		assert.Equal(t, "account-123", claims.AccountID)
		assert.Equal(t, "session-456", claims.SessionID)
		// Access tokens never carry a lineage id.
		assert.Empty(t, claims.LineageID)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		_, refresh, _, err := ts.Generate("account-123", "session-456", "lineage-789")
		require.NoError(t, err)

		_, err = ts.VerifyAccessToken(refresh)
		assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ts.VerifyAccessToken("not-a-token")
		assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
	})

	t.Run("wrong signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"account_id": "x"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ts.VerifyAccessToken(signed)
		assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenService("test-access-secret", "test-refresh-secret", -1, -1)
		access, _, _, err := expired.Generate("account-123", "session-456", "lineage-789")
		require.NoError(t, err)

		_, err = ts.VerifyAccessToken(access)
		assert.ErrorIs(t, err, autherror.ErrTokenExpired)
	})
}

func TestTokenService_VerifyRefreshToken(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 1440)

	t.Run("valid token carries lineage", func(t *testing.T) {
		_, refresh, _, err := ts.Generate("account-123", "session-456", "lineage-789")
		require.NoError(t, err)

		claims, err := ts.VerifyRefreshToken(refresh)
		require.NoError(t, err)
		assert.Equal(t, "account-123", claims.AccountID)
		assert.Equal(t, "session-456", claims.SessionID)
		assert.Equal(t, "lineage-789", claims.LineageID)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		access, _, _, err := ts.Generate("account-123", "session-456", "lineage-789")
		require.NoError(t, err)

		_, err = ts.VerifyRefreshToken(access)
		assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
	})
}

func TestTokenService_ExpiryGetters(t *testing.T) {
	ts := NewTokenService("a", "r", 15, 1440)
	assert.Equal(t, 15*time.Minute, ts.GetAccessTokenExpiry())
	assert.Equal(t, 1440*time.Minute, ts.GetRefreshTokenExpiry())
}
