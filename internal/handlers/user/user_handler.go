package user

import (
	"net/http"

	"crm-service/internal/domain/user"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes the administrator-only account management routes.
type UserHandler struct {
	authService *service.AuthService
}

func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// ListUsers retrieves all accounts.
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	users, err := h.authService.ListUsers(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, "failed to list users", err)
		return
	}

	response.Success(c, http.StatusOK, "users retrieved", users)
}

// CreateUser provisions an account with an explicit role.
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	created, err := h.authService.CreateUser(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, "failed to create user", err)
		return
	}

	response.Success(c, http.StatusCreated, "user created", created)
}

// UpdateRole changes an account's role.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actor := middleware.MustGetActor(c)
	userID := c.Param("id")

	var req user.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authService.UpdateRole(c.Request.Context(), actor, userID, user.Role(req.Role)); err != nil {
		response.FromError(c, "failed to update role", err)
		return
	}

	response.Success(c, http.StatusOK, "role updated", nil)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive activates or deactivates an account.
func (h *UserHandler) SetActive(c *gin.Context) {
	actor := middleware.MustGetActor(c)
	userID := c.Param("id")

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authService.SetActive(c.Request.Context(), actor, userID, *req.Active); err != nil {
		response.FromError(c, "failed to update active flag", err)
		return
	}

	response.Success(c, http.StatusOK, "active flag updated", nil)
}
