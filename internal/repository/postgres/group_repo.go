package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/domain/group"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type GroupRepository struct {
	db PgxPool
}

func NewGroupRepository(db PgxPool) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a new contact group.
func (r *GroupRepository) Create(ctx context.Context, g *group.ContactGroup) error {
	query := `
		INSERT INTO contact_groups (id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, g.ID, g.Name, g.CreatedBy).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact group: %w", err)
	}

	return nil
}

// FindByID retrieves a contact group by ID.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*group.ContactGroup, error) {
	query := `
		SELECT id, name, created_by, created_at, updated_at
		FROM contact_groups
		WHERE id = $1
	`

	var g group.ContactGroup
	err := r.db.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact group: %w", err)
	}

	return &g, nil
}

// List retrieves all contact groups ordered by name ascending.
func (r *GroupRepository) List(ctx context.Context) ([]group.ContactGroup, error) {
	query := `
		SELECT id, name, created_by, created_at, updated_at
		FROM contact_groups
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact groups: %w", err)
	}
	defer rows.Close()

	groups := []group.ContactGroup{}
	for rows.Next() {
		var g group.ContactGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact group: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// UpdateName renames a contact group.
func (r *GroupRepository) UpdateName(ctx context.Context, id, name string) error {
	query := `UPDATE contact_groups SET name = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, name, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update contact group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a contact group. Client references are left dangling by
// design; they degrade to "Unknown Group" on display.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM contact_groups WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
