package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/domain/client"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type ClientRepository struct {
	db PgxPool
}

func NewClientRepository(db PgxPool) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `
	id, full_name, first_name, middle_name, last_name, age, phones,
	address, city, village, block, profession, qualifications, email,
	company, profile_photo, group_id, created_by, created_at`

func scanClient(row pgx.Row, c *client.Client) error {
	return row.Scan(
		&c.ID, &c.FullName, &c.FirstName, &c.MiddleName, &c.LastName, &c.Age, &c.Phones,
		&c.Address, &c.City, &c.Village, &c.Block, &c.Profession, &c.Qualifications, &c.Email,
		&c.Company, &c.ProfilePhoto, &c.GroupID, &c.CreatedBy, &c.CreatedAt,
	)
}

// Create inserts a new client record.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (
			id, full_name, first_name, middle_name, last_name, age, phones,
			address, city, village, block, profession, qualifications, email,
			company, profile_photo, group_id, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.ID, c.FullName, c.FirstName, c.MiddleName, c.LastName, c.Age, c.Phones,
		c.Address, c.City, c.Village, c.Block, c.Profession, c.Qualifications, c.Email,
		c.Company, c.ProfilePhoto, c.GroupID, c.CreatedBy,
	).Scan(&c.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// FindByID retrieves a client by ID.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	var c client.Client
	err := scanClient(r.db.QueryRow(ctx, query, id), &c)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}

	return &c, nil
}

// List retrieves all clients, newest first.
func (r *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []client.Client{}
	for rows.Next() {
		var c client.Client
		if err := scanClient(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	return clients, rows.Err()
}

// Update writes the full client row. Partial patching is resolved by the
// service via read-modify-write.
func (r *ClientRepository) Update(ctx context.Context, id string, c *client.Client) error {
	query := `
		UPDATE clients
		SET full_name = $1, first_name = $2, middle_name = $3, last_name = $4,
		    age = $5, phones = $6, address = $7, city = $8, village = $9,
		    block = $10, profession = $11, qualifications = $12, email = $13,
		    company = $14, profile_photo = $15, group_id = $16
		WHERE id = $17
	`

	result, err := r.db.Exec(
		ctx, query,
		c.FullName, c.FirstName, c.MiddleName, c.LastName,
		c.Age, c.Phones, c.Address, c.City, c.Village,
		c.Block, c.Profession, c.Qualifications, c.Email,
		c.Company, c.ProfilePhoto, c.GroupID, id,
	)

	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateGroup sets or clears the group reference for one client.
func (r *ClientRepository) UpdateGroup(ctx context.Context, id string, groupID *string) error {
	query := `UPDATE clients SET group_id = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, groupID, id)
	if err != nil {
		return fmt.Errorf("failed to update client group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a client row permanently.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM clients WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
