package order

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Order is the central work-tracking entity. An order with a non-null
// DeletedAt is in the bin: excluded from the active list and frozen until
// restored or purged.
type Order struct {
	ID        string         `json:"id" db:"id"`
	Title     string         `json:"title" db:"title"`
	Status    Status         `json:"status" db:"status"`
	ClientID  sql.NullString `json:"client_id,omitempty" db:"client_id"`
	CreatedBy sql.NullString `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	DeletedAt sql.NullTime   `json:"deleted_at,omitempty" db:"deleted_at"`

	// Timeline, newest first. Populated on single-order reads.
	Events []OrderEvent `json:"events"`
}

// Binned reports whether the order is in the bin.
func (o *Order) Binned() bool {
	return o.DeletedAt.Valid
}

// OrderEvent is one append-only timeline entry attached to an order.
type OrderEvent struct {
	ID          string         `json:"id" db:"id"`
	OrderID     string         `json:"order_id" db:"order_id"`
	Title       string         `json:"title" db:"title"`
	Note        sql.NullString `json:"note,omitempty" db:"note"`
	Attachments pq.StringArray `json:"attachments,omitempty" db:"attachments"`
	CreatedBy   sql.NullString `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
