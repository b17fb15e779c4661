package calllog

import (
	"net/http"

	"crm-service/internal/domain/calllog"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/calllog"

	"github.com/gin-gonic/gin"
)

type CallLogHandler struct {
	callLogService *service.CallLogService
}

func NewCallLogHandler(callLogService *service.CallLogService) *CallLogHandler {
	return &CallLogHandler{
		callLogService: callLogService,
	}
}

// CreateCallLog records one completed call.
func (h *CallLogHandler) CreateCallLog(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req calllog.CreateCallLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.callLogService.CreateCallLog(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, "failed to create call log", err)
		return
	}

	response.Success(c, http.StatusCreated, "call log created", result)
}

// GetCallLog retrieves one call log, including its recording if present.
func (h *CallLogHandler) GetCallLog(c *gin.Context) {
	result, err := h.callLogService.GetCallLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "call log not found", err)
		return
	}

	response.Success(c, http.StatusOK, "call log retrieved", result)
}

// ListCallLogs retrieves all call logs, newest first.
func (h *CallLogHandler) ListCallLogs(c *gin.Context) {
	result, err := h.callLogService.ListCallLogs(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list call logs", err)
		return
	}

	response.Success(c, http.StatusOK, "call logs retrieved", result)
}

// DeleteCallLog removes a call log permanently.
func (h *CallLogHandler) DeleteCallLog(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	if err := h.callLogService.DeleteCallLog(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.FromError(c, "failed to delete call log", err)
		return
	}

	response.Success(c, http.StatusOK, "call log deleted", nil)
}
