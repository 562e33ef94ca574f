package server

import (
	"auction-house/internal/biddingerrors"
	handler "auction-house/services/bidding/handler"
	"auction-house/services/bidding/helpers"
	"auction-house/utils"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if user, ok := helpers.CurrentUser(c); ok {
		fields["user"] = user.Email
	}
	utils.Info("HTTP Request", fields)
}

// SessionMiddleware attaches the persisted current user, if any, to the request.
// Requests without a session continue anonymously.
func SessionMiddleware(identity handler.IdentityServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok, err := identity.CurrentUser(c.Request.Context())
		if err != nil {
			utils.Error("SessionMiddleware: failed to read session", map[string]any{"error": err.Error()})
			utils.AbortJSONError(c, http.StatusInternalServerError, err, "internal server error")
			return
		}
		if ok {
			helpers.SetCurrentUser(c, user)
		}
		c.Next()
	}
}

// RequireSession rejects requests without a logged-in user
func RequireSession(c *gin.Context) {
	if _, ok := helpers.CurrentUser(c); !ok {
		err := fmt.Errorf("middleware: %w", biddingerrors.ErrNotAuthenticated)
		status, message := helpers.MapErrorToHTTP(err)
		utils.AbortJSONError(c, status, err, message)
		return
	}
	c.Next()
}

// RequireAdmin rejects requests whose user is not an administrator
func RequireAdmin(c *gin.Context) {
	user, ok := helpers.CurrentUser(c)
	if !ok {
		err := fmt.Errorf("middleware: %w", biddingerrors.ErrNotAuthenticated)
		status, message := helpers.MapErrorToHTTP(err)
		utils.AbortJSONError(c, status, err, message)
		return
	}
	if !user.Session().IsAdmin() {
		err := fmt.Errorf("middleware: %w", biddingerrors.ErrForbidden)
		status, message := helpers.MapErrorToHTTP(err)
		utils.AbortJSONError(c, status, err, message)
		utils.Warn("RequireAdmin: non-admin blocked", map[string]any{"email": user.Email, "path": c.Request.URL.Path})
		return
	}
	c.Next()
}
