package order

// ListScope selects which partition of the bin to list.
type ListScope string

const (
	ScopeAll    ListScope = ""
	ScopeActive ListScope = "active"
	ScopeBinned ListScope = "binned"
)

type CreateOrderRequest struct {
	Title    string  `json:"title" binding:"required,max=255"`
	Status   string  `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	ClientID *string `json:"client_id"`
}

// UpdateOrderRequest is a partial patch over title and status.
type UpdateOrderRequest struct {
	Title  *string `json:"title" binding:"omitempty,max=255"`
	Status *string `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
}

type AddEventRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Note        *string  `json:"note"`
	Attachments []string `json:"attachments"`
}

// LinkClientRequest sets or clears the order's client reference.
type LinkClientRequest struct {
	ClientID *string `json:"client_id"`
}
