package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"carloc-backend/internal/domain"
	"carloc-backend/internal/logger"
	"carloc-backend/internal/security"
	"carloc-backend/internal/service"

	"github.com/google/uuid"
)

type contextKey string

const (
	contextKeyUser   contextKey = "user"
	contextKeyClaims contextKey = "claims"
)

// userFromContext returns the resolved internal user for an authenticated
// request.
func userFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(contextKeyUser).(*domain.User)
	return u, ok
}

// AuthMiddleware validates the bearer token and resolves the external
// subject to the internal user row, creating it on first sight.
type AuthMiddleware struct {
	tokenManager security.TokenManager
	authSvc      service.AuthService
}

func NewAuthMiddleware(tokenManager security.TokenManager, authSvc service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tokenManager, authSvc: authSvc}
}

func (m *AuthMiddleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respondError(w, security.ErrInvalidToken)
			return
		}

		claims, err := m.tokenManager.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, err)
			return
		}
		if claims.Type != security.TokenTypeAccess {
			respondError(w, security.ErrWrongTokenType)
			return
		}

		user, err := m.authSvc.ResolveUser(r.Context(), claims.ExternalID, "", claims.Email, claims.Role)
		if err != nil {
			respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyClaims, claims)
		ctx = context.WithValue(ctx, contextKeyUser, user)
		next(w, r.WithContext(ctx))
	}
}

// LoggingMiddleware logs each request with method, path, status and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		logger.Info("Request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RecoveryMiddleware turns handler panics into 500s instead of dropped
// connections.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Handler panicked", "path", r.URL.Path, "panic", rec)
				respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
