package client

import (
	"net/http"

	"crm-service/internal/domain/client"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/client"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// CreateClient creates a new contact record.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req client.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.clientService.CreateClient(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, "failed to create client", err)
		return
	}

	response.Success(c, http.StatusCreated, "client created", result)
}

// GetClient retrieves a client by ID.
func (h *ClientHandler) GetClient(c *gin.Context) {
	result, err := h.clientService.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "client not found", err)
		return
	}

	response.Success(c, http.StatusOK, "client retrieved", result)
}

// ListClients retrieves all clients, newest first.
func (h *ClientHandler) ListClients(c *gin.Context) {
	result, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list clients", err)
		return
	}

	response.Success(c, http.StatusOK, "clients retrieved", result)
}

// UpdateClient applies a partial patch.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req client.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.clientService.UpdateClient(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update client", err)
		return
	}

	response.Success(c, http.StatusOK, "client updated", result)
}

// DeleteClient removes a client permanently.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	if err := h.clientService.DeleteClient(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.FromError(c, "failed to delete client", err)
		return
	}

	response.Success(c, http.StatusOK, "client deleted", nil)
}

// AssignGroup applies one group to a set of clients, reporting per-client
// outcomes; partial failure is possible and reported as such.
func (h *ClientHandler) AssignGroup(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req client.AssignGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	results, err := h.clientService.AssignGroup(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, "failed to assign group", err)
		return
	}

	response.Success(c, http.StatusOK, "group assignment applied", results)
}
