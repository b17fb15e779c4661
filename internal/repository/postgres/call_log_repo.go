package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/domain/calllog"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type CallLogRepository struct {
	db PgxPool
}

func NewCallLogRepository(db PgxPool) *CallLogRepository {
	return &CallLogRepository{db: db}
}

// Create inserts a completed call record.
func (r *CallLogRepository) Create(ctx context.Context, l *calllog.CallLog) error {
	query := `
		INSERT INTO call_logs (
			id, client_id, client_name, phone, started_at, ended_at,
			duration_sec, notes, recording_mime, recording_data, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		l.ID, l.ClientID, l.ClientName, l.Phone, l.StartedAt, l.EndedAt,
		l.DurationSec, l.Notes, l.RecordingMime, l.RecordingData, l.CreatedBy,
	).Scan(&l.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create call log: %w", err)
	}

	return nil
}

// FindByID retrieves a call log by ID.
func (r *CallLogRepository) FindByID(ctx context.Context, id string) (*calllog.CallLog, error) {
	query := `
		SELECT id, client_id, client_name, phone, started_at, ended_at,
		       duration_sec, notes, recording_mime, recording_data, created_by, created_at
		FROM call_logs
		WHERE id = $1
	`

	var l calllog.CallLog
	err := r.db.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.ClientID, &l.ClientName, &l.Phone, &l.StartedAt, &l.EndedAt,
		&l.DurationSec, &l.Notes, &l.RecordingMime, &l.RecordingData, &l.CreatedBy, &l.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find call log: %w", err)
	}

	return &l, nil
}

// List retrieves all call logs, newest first.
func (r *CallLogRepository) List(ctx context.Context) ([]calllog.CallLog, error) {
	query := `
		SELECT id, client_id, client_name, phone, started_at, ended_at,
		       duration_sec, notes, recording_mime, recording_data, created_by, created_at
		FROM call_logs
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}
	defer rows.Close()

	logs := []calllog.CallLog{}
	for rows.Next() {
		var l calllog.CallLog
		if err := rows.Scan(
			&l.ID, &l.ClientID, &l.ClientName, &l.Phone, &l.StartedAt, &l.EndedAt,
			&l.DurationSec, &l.Notes, &l.RecordingMime, &l.RecordingData, &l.CreatedBy, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan call log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// Delete removes a call log permanently.
func (r *CallLogRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM call_logs WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete call log: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SyncClientName re-syncs the denormalized client name on all of a client's
// call logs after a rename. Zero rows is fine: the client may have no calls.
func (r *CallLogRepository) SyncClientName(ctx context.Context, clientID, clientName string) error {
	query := `UPDATE call_logs SET client_name = $1 WHERE client_id = $2`

	if _, err := r.db.Exec(ctx, query, clientName, clientID); err != nil {
		return fmt.Errorf("failed to sync client name: %w", err)
	}

	return nil
}
