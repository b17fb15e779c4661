package calllog

import "time"

type Recording struct {
	Mime       string `json:"mime" binding:"required"`
	DataBase64 string `json:"data_base64" binding:"required"`
}

type CreateCallLogRequest struct {
	ClientID   string `json:"client_id" binding:"required"`
	ClientName string `json:"client_name" binding:"required,max=255"`
	Phone      string `json:"phone" binding:"required,max=20"`

	StartedAt   time.Time  `json:"started_at" binding:"required"`
	EndedAt     *time.Time `json:"ended_at"`
	DurationSec *int       `json:"duration_sec" binding:"omitempty,min=0"`

	Notes     *string    `json:"notes"`
	Recording *Recording `json:"recording"`
}
