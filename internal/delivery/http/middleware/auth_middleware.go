package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/usecase"
	"clinic-management/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	SessionKey contextKey = "session"
	ActorKey   contextKey = "actor"

	// BranchHeader selects the working branch for roles that may switch branches.
	BranchHeader = "X-Branch-ID"
)

type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
	log         *logrus.Logger
}

func NewAuthMiddleware(authUsecase usecase.AuthUsecase, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authUsecase: authUsecase,
		log:         log,
	}
}

// Authenticate verifies the bearer token and resolves the caller into an Actor
// for the branch named by X-Branch-ID, defaulting to the user's own branch.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		session, err := m.authUsecase.Authenticate(r.Context(), parts[1])
		if err != nil {
			response.FromError(w, err, "Failed to validate token")
			return
		}

		actor, err := m.authUsecase.ResolveActor(r.Context(), *session, r.Header.Get(BranchHeader))
		if err != nil {
			response.FromError(w, err, "Failed to resolve user")
			return
		}

		m.log.WithFields(logrus.Fields{
			"user_id": actor.UserID,
			"role":    actor.Role,
			"branch":  actor.BranchID,
		}).Debugf("%s %s", r.Method, r.URL.Path)

		ctx := context.WithValue(r.Context(), SessionKey, *session)
		ctx = context.WithValue(ctx, ActorKey, actor)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext extracts the verified token session from context
func GetSessionFromContext(ctx context.Context) (dto.Session, bool) {
	session, ok := ctx.Value(SessionKey).(dto.Session)
	return session, ok
}

// GetActorFromContext extracts the resolved actor from context
func GetActorFromContext(ctx context.Context) (entity.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(entity.Actor)
	return actor, ok
}
