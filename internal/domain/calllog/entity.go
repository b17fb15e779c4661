package calllog

import (
	"database/sql"
	"time"
)

// CallLog is one completed phone-call record. It never transitions state
// once written; the only update path is re-syncing the denormalized
// client name.
type CallLog struct {
	ID         string `json:"id" db:"id"`
	ClientID   string `json:"client_id" db:"client_id"`
	ClientName string `json:"client_name" db:"client_name"`
	Phone      string `json:"phone" db:"phone"`

	StartedAt   time.Time     `json:"started_at" db:"started_at"`
	EndedAt     sql.NullTime  `json:"ended_at,omitempty" db:"ended_at"`
	DurationSec sql.NullInt32 `json:"duration_sec,omitempty" db:"duration_sec"`

	Notes sql.NullString `json:"notes,omitempty" db:"notes"`

	// Optional captured audio: MIME type plus base64 payload.
	RecordingMime sql.NullString `json:"recording_mime,omitempty" db:"recording_mime"`
	RecordingData sql.NullString `json:"recording_data,omitempty" db:"recording_data"`

	CreatedBy sql.NullString `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
