package group

import (
	"net/http"

	"crm-service/internal/domain/group"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/group"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// CreateGroup creates a named tag.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req group.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.groupService.CreateGroup(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, "failed to create group", err)
		return
	}

	response.Success(c, http.StatusCreated, "group created", result)
}

// GetGroup retrieves a group by ID.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	result, err := h.groupService.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "group not found", err)
		return
	}

	response.Success(c, http.StatusOK, "group retrieved", result)
}

// ListGroups retrieves all groups ordered by name.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	result, err := h.groupService.ListGroups(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list groups", err)
		return
	}

	response.Success(c, http.StatusOK, "groups retrieved", result)
}

// UpdateGroup renames a group.
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req group.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.groupService.UpdateGroup(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update group", err)
		return
	}

	response.Success(c, http.StatusOK, "group updated", result)
}

// DeleteGroup removes a group.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	if err := h.groupService.DeleteGroup(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.FromError(c, "failed to delete group", err)
		return
	}

	response.Success(c, http.StatusOK, "group deleted", nil)
}
