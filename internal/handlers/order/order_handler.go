package order

import (
	"net/http"

	"crm-service/internal/domain/order"
	"crm-service/internal/middleware"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder creates a new active order.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, "failed to create order", err)
		return
	}

	response.Success(c, http.StatusCreated, "order created", result)
}

// GetOrder retrieves one order with its timeline.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	result, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "order not found", err)
		return
	}

	response.Success(c, http.StatusOK, "order retrieved", result)
}

// ListOrders retrieves orders filtered by ?scope=active|binned.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	scope := order.ListScope(c.Query("scope"))
	if scope != order.ScopeAll && scope != order.ScopeActive && scope != order.ScopeBinned {
		response.FromError(c, "invalid request", xerrors.Invalid("unknown list scope"))
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), scope)
	if err != nil {
		response.FromError(c, "failed to list orders", err)
		return
	}

	response.Success(c, http.StatusOK, "orders retrieved", result)
}

// UpdateOrder patches the title and/or status.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req order.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orderService.UpdateOrder(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update order", err)
		return
	}

	response.Success(c, http.StatusOK, "order updated", result)
}

// MoveToBin soft-deletes an active order.
func (h *OrderHandler) MoveToBin(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	if err := h.orderService.MoveToBin(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.FromError(c, "failed to move order to bin", err)
		return
	}

	response.Success(c, http.StatusOK, "order moved to bin", nil)
}

// Restore brings a binned order back to active.
func (h *OrderHandler) Restore(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	if err := h.orderService.Restore(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.FromError(c, "failed to restore order", err)
		return
	}

	response.Success(c, http.StatusOK, "order restored", nil)
}

// Purge permanently deletes a binned order and its timeline.
func (h *OrderHandler) Purge(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	if err := h.orderService.Purge(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.FromError(c, "failed to purge order", err)
		return
	}

	response.Success(c, http.StatusOK, "order purged", nil)
}

// AddEvent appends a timeline event to an active order.
func (h *OrderHandler) AddEvent(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req order.AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orderService.AddEvent(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to add order event", err)
		return
	}

	response.Success(c, http.StatusCreated, "order event added", result)
}

// DeleteEvent removes one timeline entry.
func (h *OrderHandler) DeleteEvent(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	if err := h.orderService.DeleteEvent(c.Request.Context(), actor, c.Param("event_id")); err != nil {
		response.FromError(c, "failed to delete order event", err)
		return
	}

	response.Success(c, http.StatusOK, "order event deleted", nil)
}

// LinkClient sets or clears the order's client reference.
func (h *OrderHandler) LinkClient(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req order.LinkClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.orderService.LinkClient(c.Request.Context(), actor, c.Param("id"), req.ClientID); err != nil {
		response.FromError(c, "failed to link client", err)
		return
	}

	response.Success(c, http.StatusOK, "client link updated", nil)
}
