package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// currentUserKey is the gin context key holding the acting user
const currentUserKey = "currentUser"

// ErrInvalidStatusFilter is returned for an unknown status query value
var ErrInvalidStatusFilter = errors.New("invalid status filter")

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, biddingerrors.ErrAuctionClosed):
		return http.StatusConflict, "auction has ended"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, biddingerrors.ErrDuplicateEmail):
		return http.StatusConflict, "email already exists"
	case errors.Is(err, biddingerrors.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid bid amount"
	case errors.Is(err, biddingerrors.ErrValidation):
		return http.StatusBadRequest, "invalid auction details"
	case errors.Is(err, biddingerrors.ErrInvalidEmail):
		return http.StatusBadRequest, "invalid email address"
	case errors.Is(err, biddingerrors.ErrWeakPassword):
		return http.StatusBadRequest, "password must be at least 6 characters"
	case errors.Is(err, ErrInvalidStatusFilter):
		return http.StatusBadRequest, "invalid status filter"
	case errors.Is(err, biddingerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, biddingerrors.ErrNotAuthenticated):
		return http.StatusUnauthorized, "login required"
	case errors.Is(err, biddingerrors.ErrForbidden):
		return http.StatusForbidden, "admin access required"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError maps err and writes the error envelope
func RespondError(c *gin.Context, err error) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
}

// ParseStatusFilter turns the status query value into an auction status.
// "closed" is accepted for ended auctions; empty and "all" match every status.
func ParseStatusFilter(raw string) (model.AuctionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return "", nil
	case string(model.AuctionStatusActive):
		return model.AuctionStatusActive, nil
	case string(model.AuctionStatusEnded), "closed":
		return model.AuctionStatusEnded, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatusFilter, raw)
	}
}

// SetCurrentUser stores the acting user on the request context
func SetCurrentUser(c *gin.Context, user model.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the acting user stored by the session middleware
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
