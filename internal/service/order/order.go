package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"crm-service/internal/cache"
	"crm-service/internal/domain/order"
	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/ws"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// OrderRepository is the persistence surface the lifecycle manager needs.
type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id string) (*order.Order, error)
	List(ctx context.Context, scope order.ListScope) ([]order.Order, error)
	Update(ctx context.Context, id string, title string, status order.Status) error
	MoveToBin(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
	LinkClient(ctx context.Context, id string, clientID *string) error
	AddEvent(ctx context.Context, e *order.OrderEvent) error
	DeleteEvent(ctx context.Context, eventID string) error
	ListEvents(ctx context.Context, orderID string) ([]order.OrderEvent, error)
	ListEventsForOrders(ctx context.Context, orderIDs []string) ([]order.OrderEvent, error)
}

// OrderService owns the full order lifecycle: creation, the timeline, and
// the active/bin partition with its restore/purge transitions.
type OrderService struct {
	orderRepo OrderRepository
	cache     *cache.Store
	hub       *ws.Hub
	logger    *zap.Logger
}

func NewOrderService(orderRepo OrderRepository, cacheStore *cache.Store, hub *ws.Hub, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cache:     cacheStore,
		hub:       hub,
		logger:    logger,
	}
}

// CreateOrder creates a new active order with an empty timeline.
func (s *OrderService) CreateOrder(ctx context.Context, actor *user.Actor, req *order.CreateOrderRequest) (*order.Order, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, xerrors.Invalid("order title is required")
	}

	status := order.Status(req.Status)
	if status == "" {
		status = order.StatusPending
	}
	if !status.Valid() {
		return nil, xerrors.Invalid("unknown order status")
	}

	o := &order.Order{
		ID:        ulid.Make().String(),
		Title:     title,
		Status:    status,
		CreatedBy: sql.NullString{String: actor.ID, Valid: true},
		Events:    []order.OrderEvent{},
	}
	if req.ClientID != nil && *req.ClientID != "" {
		o.ClientID = sql.NullString{String: *req.ClientID, Valid: true}
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		s.logger.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CollectionOrders)
	s.hub.Publish(ws.Activity{
		Kind:      ws.KindOrderCreated,
		EntityID:  o.ID,
		Title:     o.Title,
		ActorName: actor.FullName,
	})

	s.logger.Info("order created", zap.String("order_id", o.ID), zap.String("created_by", actor.ID))
	return o, nil
}

// GetOrder retrieves one order with its timeline, newest event first.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	events, err := s.orderRepo.ListEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Events = events

	return o, nil
}

// ListOrders returns orders newest first, with their timelines attached.
// The full set is fetched (and cached) once; the scope filter is applied in
// memory over it.
func (s *OrderService) ListOrders(ctx context.Context, scope order.ListScope) ([]order.Order, error) {
	orders := []order.Order{}
	if !s.cache.GetList(ctx, cache.CollectionOrders, &orders) {
		var err error
		orders, err = s.orderRepo.List(ctx, order.ScopeAll)
		if err != nil {
			return nil, err
		}

		ids := make([]string, len(orders))
		for i := range orders {
			ids[i] = orders[i].ID
		}

		events, err := s.orderRepo.ListEventsForOrders(ctx, ids)
		if err != nil {
			return nil, err
		}

		byOrder := make(map[string][]order.OrderEvent, len(orders))
		for _, e := range events {
			byOrder[e.OrderID] = append(byOrder[e.OrderID], e)
		}
		for i := range orders {
			if evs, ok := byOrder[orders[i].ID]; ok {
				orders[i].Events = evs
			} else {
				orders[i].Events = []order.OrderEvent{}
			}
		}

		s.cache.SetList(ctx, cache.CollectionOrders, orders)
	}

	switch scope {
	case order.ScopeActive, order.ScopeBinned:
		filtered := []order.Order{}
		for _, o := range orders {
			if (scope == order.ScopeBinned) == o.Binned() {
				filtered = append(filtered, o)
			}
		}
		return filtered, nil
	default:
		return orders, nil
	}
}

// UpdateOrder patches title and/or status.
func (s *OrderService) UpdateOrder(ctx context.Context, actor *user.Actor, id string, req *order.UpdateOrderRequest) (*order.Order, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, xerrors.Invalid("order title is required")
		}
		o.Title = title
	}
	if req.Status != nil {
		status := order.Status(*req.Status)
		if !status.Valid() {
			return nil, xerrors.Invalid("unknown order status")
		}
		o.Status = status
	}

	if err := s.orderRepo.Update(ctx, id, o.Title, o.Status); err != nil {
		s.logger.Error("failed to update order", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CollectionOrders)
	return s.GetOrder(ctx, id)
}

// MoveToBin transitions an active order to the bin. Not restricted to
// admins: soft delete is reversible, anyone authenticated may do it.
func (s *OrderService) MoveToBin(ctx context.Context, actor *user.Actor, id string) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}

	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Binned() {
		return fmt.Errorf("order is already in the bin: %w", xerrors.ErrConflict)
	}

	if err := s.orderRepo.MoveToBin(ctx, id, time.Now()); err != nil {
		s.logger.Error("failed to move order to bin", zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx, cache.CollectionOrders)
	s.hub.Publish(ws.Activity{
		Kind:      ws.KindOrderBinned,
		EntityID:  id,
		Title:     o.Title,
		ActorName: actor.FullName,
	})

	s.logger.Info("order moved to bin", zap.String("order_id", id), zap.String("by", actor.ID))
	return nil
}

// Restore transitions a binned order back to active, clearing deleted_at.
func (s *OrderService) Restore(ctx context.Context, actor *user.Actor, id string) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}

	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !o.Binned() {
		return fmt.Errorf("order is not in the bin: %w", xerrors.ErrConflict)
	}

	if err := s.orderRepo.Restore(ctx, id); err != nil {
		s.logger.Error("failed to restore order", zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx, cache.CollectionOrders)
	s.hub.Publish(ws.Activity{
		Kind:      ws.KindOrderRestored,
		EntityID:  id,
		Title:     o.Title,
		ActorName: actor.FullName,
	})

	s.logger.Info("order restored", zap.String("order_id", id), zap.String("by", actor.ID))
	return nil
}

// Purge permanently deletes a binned order and its timeline. Requires the
// delete capability, and the order must already be in the bin.
func (s *OrderService) Purge(ctx context.Context, actor *user.Actor, id string) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}
	if !actor.CanDelete() {
		return fmt.Errorf("permanent deletion requires admin role: %w", xerrors.ErrForbidden)
	}

	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !o.Binned() {
		return fmt.Errorf("only binned orders can be purged: %w", xerrors.ErrConflict)
	}

	if err := s.orderRepo.Purge(ctx, id); err != nil {
		s.logger.Error("failed to purge order", zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx, cache.CollectionOrders)
	s.hub.Publish(ws.Activity{
		Kind:      ws.KindOrderPurged,
		EntityID:  id,
		Title:     o.Title,
		ActorName: actor.FullName,
	})

	s.logger.Info("order purged", zap.String("order_id", id), zap.String("by", actor.ID))
	return nil
}

// AddEvent appends a timeline event. Binned orders are frozen: their
// timeline rejects new events until the order is restored.
func (s *OrderService) AddEvent(ctx context.Context, actor *user.Actor, orderID string, req *order.AddEventRequest) (*order.OrderEvent, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, xerrors.Invalid("event title is required")
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Binned() {
		return nil, fmt.Errorf("order is in the bin: %w", xerrors.ErrConflict)
	}

	e := &order.OrderEvent{
		ID:        ulid.Make().String(),
		OrderID:   orderID,
		Title:     title,
		CreatedBy: sql.NullString{String: actor.ID, Valid: true},
	}
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		e.Note = sql.NullString{String: *req.Note, Valid: true}
	}
	if len(req.Attachments) > 0 {
		e.Attachments = pq.StringArray(req.Attachments)
	}

	if err := s.orderRepo.AddEvent(ctx, e); err != nil {
		s.logger.Error("failed to add order event", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CollectionOrders)
	s.hub.Publish(ws.Activity{
		Kind:      ws.KindOrderEvent,
		EntityID:  orderID,
		Title:     title,
		ActorName: actor.FullName,
	})

	s.logger.Info("order event added", zap.String("order_id", orderID), zap.String("event_id", e.ID))
	return e, nil
}

// DeleteEvent removes one timeline entry.
func (s *OrderService) DeleteEvent(ctx context.Context, actor *user.Actor, eventID string) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}

	if err := s.orderRepo.DeleteEvent(ctx, eventID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.CollectionOrders)
	return nil
}

// LinkClient sets or clears the order's client reference. The client id is
// assumed to come from a selection list; no existence check is made.
func (s *OrderService) LinkClient(ctx context.Context, actor *user.Actor, orderID string, clientID *string) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}

	if clientID != nil && *clientID == "" {
		clientID = nil
	}

	if err := s.orderRepo.LinkClient(ctx, orderID, clientID); err != nil {
		s.logger.Error("failed to link client", zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx, cache.CollectionOrders)
	return nil
}
