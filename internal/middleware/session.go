package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/session"
)

// SessionProvider returns the ready store of a signed-in user. *session.Manager implements it.
type SessionProvider interface {
	Ensure(ctx context.Context, id session.Identity) (*session.Store, error)
}

// RequireSession attaches the caller's ready store to the context. It must
// run after VerifyToken.
func RequireSession(sessions SessionProvider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := session.Identity{UserID: c.GetString(ContextUserID), Email: c.GetString(ContextUserEmail)}
		store, err := sessions.Ensure(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(ContextSession, store)
			c.Next()
		case errors.Is(err, core.ErrSignInRequired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "sign_in_required"})
		default:
			logger.Error("Session unavailable", zap.String("user_id", id.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Session is still loading, please retry"})
		}
	}
}
