package postgres

import (
	"context"
	"fmt"

	"crm-service/internal/domain/event"
)

type GlobalEventRepository struct {
	db PgxPool
}

func NewGlobalEventRepository(db PgxPool) *GlobalEventRepository {
	return &GlobalEventRepository{db: db}
}

// Create appends a journal entry. Entries are never updated or deleted.
func (r *GlobalEventRepository) Create(ctx context.Context, e *event.GlobalEvent) error {
	query := `
		INSERT INTO global_events (id, description, created_by, created_by_name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, e.ID, e.Description, e.CreatedBy, e.CreatedByName).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create global event: %w", err)
	}

	return nil
}

// List retrieves the journal, newest first.
func (r *GlobalEventRepository) List(ctx context.Context) ([]event.GlobalEvent, error) {
	query := `
		SELECT id, description, created_by, created_by_name, created_at
		FROM global_events
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list global events: %w", err)
	}
	defer rows.Close()

	events := []event.GlobalEvent{}
	for rows.Next() {
		var e event.GlobalEvent
		if err := rows.Scan(&e.ID, &e.Description, &e.CreatedBy, &e.CreatedByName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan global event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
