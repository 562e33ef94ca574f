package handler

import (
	"fmt"
	"net/http"

	"auction-house/internal/biddingerrors"
	"auction-house/services/bidding/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service IdentityServiceInterface
}

func NewAuthHandler(service IdentityServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterHandler handles POST /auth/register
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		helpers.RespondError(c, err)
		utils.Warn("RegisterHandler: registration rejected", map[string]any{"email": req.Email, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewUserResponse(user), "registration successful")
	helpers.LogSuccess("RegisterHandler", "registration successful", map[string]any{"user_id": user.ID})
}

// LoginHandler handles POST /auth/login
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		helpers.RespondError(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewUserResponse(user), "login successful")
	helpers.LogSuccess("LoginHandler", "login successful", map[string]any{"user_id": user.ID})
}

// LogoutHandler handles POST /auth/logout
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		helpers.RespondError(c, err)
		utils.Error("LogoutHandler: failed to clear session", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "logged out")
}

// MeHandler handles GET /auth/me
func (h *AuthHandler) MeHandler(c *gin.Context) {
	user, ok := helpers.CurrentUser(c)
	if !ok {
		helpers.RespondError(c, fmt.Errorf("handler: %w", biddingerrors.ErrNotAuthenticated))
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewUserResponse(user), "current user retrieved successfully")
}
