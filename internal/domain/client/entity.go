package client

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
)

type Client struct {
	ID       string `json:"id" db:"id"`
	FullName string `json:"full_name" db:"full_name"`

	// Optional name decomposition; when any part is set, FullName is
	// their space-joined concatenation.
	FirstName  sql.NullString `json:"first_name,omitempty" db:"first_name"`
	MiddleName sql.NullString `json:"middle_name,omitempty" db:"middle_name"`
	LastName   sql.NullString `json:"last_name,omitempty" db:"last_name"`

	Age    sql.NullInt32  `json:"age,omitempty" db:"age"`
	Phones pq.StringArray `json:"phones" db:"phones"`

	// Address fields
	Address sql.NullString `json:"address,omitempty" db:"address"`
	City    sql.NullString `json:"city,omitempty" db:"city"`
	Village sql.NullString `json:"village,omitempty" db:"village"`
	Block   sql.NullString `json:"block,omitempty" db:"block"`

	// Professional fields
	Profession     sql.NullString `json:"profession,omitempty" db:"profession"`
	Qualifications sql.NullString `json:"qualifications,omitempty" db:"qualifications"`
	Email          sql.NullString `json:"email,omitempty" db:"email"`
	Company        sql.NullString `json:"company,omitempty" db:"company"`

	ProfilePhoto sql.NullString `json:"profile_photo,omitempty" db:"profile_photo"`
	GroupID      sql.NullString `json:"group_id,omitempty" db:"group_id"`

	CreatedBy sql.NullString `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// ComposedName returns the space-joined concatenation of the name parts,
// or "" when no part is set.
func (c *Client) ComposedName() string {
	parts := make([]string, 0, 3)
	for _, p := range []sql.NullString{c.FirstName, c.MiddleName, c.LastName} {
		if p.Valid && strings.TrimSpace(p.String) != "" {
			parts = append(parts, strings.TrimSpace(p.String))
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeName enforces the display-name invariant: the composed name wins
// whenever any name part is present.
func (c *Client) NormalizeName() {
	if composed := c.ComposedName(); composed != "" {
		c.FullName = composed
	}
}
