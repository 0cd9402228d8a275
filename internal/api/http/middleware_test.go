package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"carloc-backend/internal/domain"
	"carloc-backend/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, name, email, phone, password string, role domain.UserRole, agencyID *int32) (*domain.User, string, string, error) {
	args := m.Called(ctx, name, email, phone, password, role, agencyID)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) ResolveUser(ctx context.Context, externalID, name, email string, role domain.UserRole) (*domain.User, error) {
	args := m.Called(ctx, externalID, name, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestAuthMiddleware_Require(t *testing.T) {
	tm := security.NewTokenManager("test-secret-0123456789abcdef0123456789", 60, 60*24)

	next := func(captured **domain.User) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if u, ok := userFromContext(r.Context()); ok {
				*captured = u
			}
			w.WriteHeader(http.StatusOK)
		}
	}

	t.Run("ValidTokenResolvesUser", func(t *testing.T) {
		authSvc := new(MockAuthService)
		mw := NewAuthMiddleware(tm, authSvc)

		token, err := tm.GenerateAccessToken("ext-renter", "alice@test.com", domain.UserRoleRenter)
		require.NoError(t, err)
		authSvc.On("ResolveUser", mock.Anything, "ext-renter", "", "alice@test.com", domain.UserRoleRenter).
			Return(renterUser(), nil).Once()

		var seen *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.Require(next(&seen))(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, int32(7), seen.ID)
		authSvc.AssertExpectations(t)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		mw := NewAuthMiddleware(tm, new(MockAuthService))

		var seen *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		rec := httptest.NewRecorder()
		mw.Require(next(&seen))(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		mw := NewAuthMiddleware(tm, new(MockAuthService))

		var seen *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		mw.Require(next(&seen))(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("RefreshTokenRejectedOnAccessEndpoint", func(t *testing.T) {
		mw := NewAuthMiddleware(tm, new(MockAuthService))

		token, err := tm.GenerateRefreshToken("ext-renter", "alice@test.com")
		require.NoError(t, err)

		var seen *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.Require(next(&seen))(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})
}
