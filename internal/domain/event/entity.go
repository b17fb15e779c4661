package event

import (
	"database/sql"
	"time"
)

// GlobalEvent is an organization-wide journal entry, unscoped to any
// client or order. Append-only.
type GlobalEvent struct {
	ID            string         `json:"id" db:"id"`
	Description   string         `json:"description" db:"description"`
	CreatedBy     sql.NullString `json:"created_by,omitempty" db:"created_by"`
	CreatedByName string         `json:"created_by_name" db:"created_by_name"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}
