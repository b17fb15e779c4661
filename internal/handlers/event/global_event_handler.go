package event

import (
	"net/http"

	"crm-service/internal/domain/event"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/event"

	"github.com/gin-gonic/gin"
)

type GlobalEventHandler struct {
	eventService *service.GlobalEventService
}

func NewGlobalEventHandler(eventService *service.GlobalEventService) *GlobalEventHandler {
	return &GlobalEventHandler{
		eventService: eventService,
	}
}

// CreateGlobalEvent appends an entry to the organization-wide journal.
func (h *GlobalEventHandler) CreateGlobalEvent(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req event.CreateGlobalEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.eventService.CreateGlobalEvent(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, "failed to create event", err)
		return
	}

	response.Success(c, http.StatusCreated, "event created", result)
}

// ListGlobalEvents retrieves the journal, newest first.
func (h *GlobalEventHandler) ListGlobalEvents(c *gin.Context) {
	result, err := h.eventService.ListGlobalEvents(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list events", err)
		return
	}

	response.Success(c, http.StatusOK, "events retrieved", result)
}
