package group

import (
	"database/sql"
	"time"
)

// ContactGroup is a named tag used to classify clients. Names are not
// unique; deleting a group leaves client references dangling.
type ContactGroup struct {
	ID        string         `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	CreatedBy sql.NullString `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}
