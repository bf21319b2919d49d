// Package middleware provides HTTP middlewares for bearer authentication and
// request logging.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/models"
	"github.com/atinyakov/museum/internal/server/respond"
	"github.com/atinyakov/museum/internal/validate"
	"go.uber.org/zap"
)

type ctxKey string

const managerKey ctxKey = "manager"

// TokenVerifier checks a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// PrincipalResolver loads the manager a token subject refers to.
type PrincipalResolver interface {
	FindByEmail(ctx context.Context, email string) (*models.Manager, error)
}

// BearerAuth admits requests that carry a valid token for an existing manager
// and stores that manager in the request context.
//
// A missing or non-bearer Authorization header is answered as Unauthenticated.
// A bad token, a subject that is not an email, or an unknown manager are
// answered as Unauthorized. A failing store is an internal error.
func BearerAuth(tokens TokenVerifier, managers PrincipalResolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				respond.Error(w, log, common.ErrUnauthenticated)
				return
			}

			subject, err := tokens.Verify(raw)
			if err != nil {
				respond.Error(w, log, fmt.Errorf("%w: %v", common.ErrUnauthorized, err))
				return
			}
			if !validate.Email(subject) {
				respond.Error(w, log, common.ErrUnauthorized)
				return
			}

			manager, err := managers.FindByEmail(r.Context(), subject)
			if errors.Is(err, common.ErrNotFound) {
				respond.Error(w, log, common.ErrUnauthorized)
				return
			}
			if err != nil {
				respond.Error(w, log, fmt.Errorf("resolve principal: %w", err))
				return
			}

			ctx := context.WithValue(r.Context(), managerKey, manager)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ManagerFromContext returns the manager admitted by BearerAuth, or nil.
func ManagerFromContext(ctx context.Context) *models.Manager {
	m, _ := ctx.Value(managerKey).(*models.Manager)
	return m
}
