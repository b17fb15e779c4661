package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/domain/order"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db PgxPool
}

func NewOrderRepository(db PgxPool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order in the active state.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (id, title, status, client_id, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, o.ID, o.Title, o.Status, o.ClientID, o.CreatedBy).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByID retrieves a single order without its timeline.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	query := `
		SELECT id, title, status, client_id, created_by, created_at, deleted_at
		FROM orders
		WHERE id = $1
	`

	var o order.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Title, &o.Status, &o.ClientID, &o.CreatedBy, &o.CreatedAt, &o.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return &o, nil
}

// List retrieves orders newest first, optionally filtered to one side of the
// active/binned partition.
func (r *OrderRepository) List(ctx context.Context, scope order.ListScope) ([]order.Order, error) {
	query := `
		SELECT id, title, status, client_id, created_by, created_at, deleted_at
		FROM orders
	`
	switch scope {
	case order.ScopeActive:
		query += ` WHERE deleted_at IS NULL`
	case order.ScopeBinned:
		query += ` WHERE deleted_at IS NOT NULL`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(
			&o.ID, &o.Title, &o.Status, &o.ClientID, &o.CreatedBy, &o.CreatedAt, &o.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// Update patches title and status.
func (r *OrderRepository) Update(ctx context.Context, id string, title string, status order.Status) error {
	query := `UPDATE orders SET title = $1, status = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, title, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// MoveToBin marks an active order as binned.
func (r *OrderRepository) MoveToBin(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE orders SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to move order to bin: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Restore clears the bin marker on a binned order.
func (r *OrderRepository) Restore(ctx context.Context, id string) error {
	query := `UPDATE orders SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to restore order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Purge permanently removes an order row. Timeline events go with it via
// the order_events foreign key cascade.
func (r *OrderRepository) Purge(ctx context.Context, id string) error {
	query := `DELETE FROM orders WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to purge order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// LinkClient sets or clears the client reference.
func (r *OrderRepository) LinkClient(ctx context.Context, id string, clientID *string) error {
	query := `UPDATE orders SET client_id = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, clientID, id)
	if err != nil {
		return fmt.Errorf("failed to link client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// AddEvent appends a timeline event.
func (r *OrderRepository) AddEvent(ctx context.Context, e *order.OrderEvent) error {
	query := `
		INSERT INTO order_events (id, order_id, title, note, attachments, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		e.ID, e.OrderID, e.Title, e.Note, e.Attachments, e.CreatedBy,
	).Scan(&e.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to add order event: %w", err)
	}

	return nil
}

// DeleteEvent removes one timeline entry.
func (r *OrderRepository) DeleteEvent(ctx context.Context, eventID string) error {
	query := `DELETE FROM order_events WHERE id = $1`

	result, err := r.db.Exec(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete order event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// ListEvents retrieves one order's timeline, newest first.
func (r *OrderRepository) ListEvents(ctx context.Context, orderID string) ([]order.OrderEvent, error) {
	query := `
		SELECT id, order_id, title, note, attachments, created_by, created_at
		FROM order_events
		WHERE order_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListEventsForOrders retrieves the timelines of many orders in one query;
// the service groups them in memory.
func (r *OrderRepository) ListEventsForOrders(ctx context.Context, orderIDs []string) ([]order.OrderEvent, error) {
	if len(orderIDs) == 0 {
		return []order.OrderEvent{}, nil
	}

	query := `
		SELECT id, order_id, title, note, attachments, created_by, created_at
		FROM order_events
		WHERE order_id = ANY($1)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list order events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]order.OrderEvent, error) {
	events := []order.OrderEvent{}
	for rows.Next() {
		var e order.OrderEvent
		if err := rows.Scan(
			&e.ID, &e.OrderID, &e.Title, &e.Note, &e.Attachments, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
