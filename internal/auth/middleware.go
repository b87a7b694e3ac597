package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ajibade-k/budgetwise/internal/common"
	"github.com/ajibade-k/budgetwise/internal/entity"
	"github.com/ajibade-k/budgetwise/internal/repository"
)

type contextKey string

const userContextKey contextKey = "budgetwise.user"

// UserFromContext returns the authenticated user placed by Middleware.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(userContextKey).(*entity.User)
	return u, ok
}

// Middleware resolves the bearer token to a user row and stores it on the
// request context. Requests without a valid token get a 401 JSON body.
func (s *Service) Middleware(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				common.WriteError(w, http.StatusUnauthorized, "Authentication token required")
				return
			}

			userID, err := s.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				common.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				common.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
