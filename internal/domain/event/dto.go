package event

type CreateGlobalEventRequest struct {
	Description string `json:"description" binding:"required"`
}
