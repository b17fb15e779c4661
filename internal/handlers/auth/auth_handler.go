package auth

import (
	"net/http"

	"crm-service/internal/domain/user"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates an associate account and returns a token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "registered successfully", result)
}

// Login authenticates credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "login failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logged in", result)
}

// Me returns the current profile and capability flags.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	result, err := h.authService.Me(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, "failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", result)
}
