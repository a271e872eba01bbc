package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveshare/auth-service/internal/auth/domain"
	"github.com/driveshare/auth-service/internal/auth/service"
	autherror "github.com/driveshare/auth-service/internal/errors"
)

// TestRegisterRoutes verifies that every endpoint is mounted.
func TestRegisterRoutes(t *testing.T) {
	f, ctrl := newHandlerFixture(t)
	defer ctrl.Finish()

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/auth/register"},
		{http.MethodPost, "/auth/login"},
		{http.MethodPost, "/auth/verify-otp"},
		{http.MethodPost, "/auth/resend-otp"},
		{http.MethodPost, "/auth/password-reset"},
		{http.MethodPost, "/auth/password-reset/confirm"},
		{http.MethodPost, "/auth/token/refresh"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/auth/profile"},
		{http.MethodPost, "/auth/change-password"},
		{http.MethodGet, "/auth/sessions"},
		{http.MethodPost, "/auth/sessions/session-1/terminate"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := f.app.Test(req, -1)
			require.NoError(t, err)

			// A 404 means the route is missing; anything else (400 for a
			// missing body, 401 for a missing token) proves it is mounted.
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	f, ctrl := newHandlerFixture(t)

	claims := &service.JWTCustomClaims{AccountID: "account-123", SessionID: "session-1"}
	account := &domain.Account{ID: "account-123", FullName: "Test Driver", Active: true}

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic abc123")
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		f.tokens.EXPECT().VerifyAccessToken("garbage").Return(nil, autherror.ErrTokenInvalid)

		req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("revoked session", func(t *testing.T) {
		f.tokens.EXPECT().VerifyAccessToken("access").Return(claims, nil)
		f.repo.EXPECT().GetSession(gomock.Any(), "session-1").
			Return(&domain.Session{ID: "session-1", AccountID: "account-123", Terminated: true}, nil)

		req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer access")
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		f.tokens.EXPECT().VerifyAccessToken("access").Return(claims, nil)
		f.repo.EXPECT().GetSession(gomock.Any(), "session-1").
			Return(&domain.Session{ID: "session-1", AccountID: "account-123"}, nil)
		f.repo.EXPECT().TouchSession(gomock.Any(), "session-1").Return(nil).AnyTimes()
		f.repo.EXPECT().GetAccountByID(gomock.Any(), "account-123").Return(account, nil)

		req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer access")
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	// Let the background last-seen update land before the controller is
	// torn down.
	time.Sleep(20 * time.Millisecond)
	ctrl.Finish()
}

func TestSessionEndpoints(t *testing.T) {
	f, ctrl := newHandlerFixture(t)

	claims := &service.JWTCustomClaims{AccountID: "account-123", SessionID: "session-1"}
	liveSession := &domain.Session{ID: "session-1", AccountID: "account-123"}

	authorize := func(token string) {
		f.tokens.EXPECT().VerifyAccessToken(token).Return(claims, nil)
		f.repo.EXPECT().GetSession(gomock.Any(), "session-1").Return(liveSession, nil)
	}
	f.repo.EXPECT().TouchSession(gomock.Any(), "session-1").Return(nil).AnyTimes()

	t.Run("list sessions", func(t *testing.T) {
		authorize("access")
		f.repo.EXPECT().ListSessions(gomock.Any(), "account-123").
			Return([]domain.Session{{ID: "session-1", AccountID: "account-123"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/auth/sessions", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer access")
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("terminate own session", func(t *testing.T) {
		authorize("access")
		f.repo.EXPECT().GetSession(gomock.Any(), "session-2").
			Return(&domain.Session{ID: "session-2", AccountID: "account-123"}, nil)
		f.repo.EXPECT().TerminateSession(gomock.Any(), "session-2").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/sessions/session-2/terminate", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer access")
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("terminate foreign session is forbidden", func(t *testing.T) {
		authorize("access")
		f.repo.EXPECT().GetSession(gomock.Any(), "session-9").
			Return(&domain.Session{ID: "session-9", AccountID: "other-account"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/sessions/session-9/terminate", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer access")
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("logout needs no body", func(t *testing.T) {
		authorize("access")
		f.repo.EXPECT().TerminateSession(gomock.Any(), "session-1").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer access")
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	time.Sleep(20 * time.Millisecond)
	ctrl.Finish()
}
