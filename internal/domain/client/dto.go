package client

type CreateClientRequest struct {
	FullName   string `json:"full_name" binding:"max=255"`
	FirstName  string `json:"first_name" binding:"max=100"`
	MiddleName string `json:"middle_name" binding:"max=100"`
	LastName   string `json:"last_name" binding:"max=100"`

	Age    *int     `json:"age" binding:"omitempty,min=0,max=150"`
	Phones []string `json:"phones"`

	Address string `json:"address"`
	City    string `json:"city"`
	Village string `json:"village"`
	Block   string `json:"block"`

	Profession     string `json:"profession"`
	Qualifications string `json:"qualifications"`
	Email          string `json:"email" binding:"omitempty,email,max=255"`
	Company        string `json:"company"`

	ProfilePhoto string  `json:"profile_photo"`
	GroupID      *string `json:"group_id"`
}

// UpdateClientRequest is a partial patch; only non-nil fields are applied.
type UpdateClientRequest struct {
	FullName   *string `json:"full_name" binding:"omitempty,max=255"`
	FirstName  *string `json:"first_name" binding:"omitempty,max=100"`
	MiddleName *string `json:"middle_name" binding:"omitempty,max=100"`
	LastName   *string `json:"last_name" binding:"omitempty,max=100"`

	Age    *int     `json:"age" binding:"omitempty,min=0,max=150"`
	Phones []string `json:"phones"`

	Address *string `json:"address"`
	City    *string `json:"city"`
	Village *string `json:"village"`
	Block   *string `json:"block"`

	Profession     *string `json:"profession"`
	Qualifications *string `json:"qualifications"`
	Email          *string `json:"email" binding:"omitempty,email,max=255"`
	Company        *string `json:"company"`

	ProfilePhoto *string `json:"profile_photo"`
	GroupID      *string `json:"group_id"`
}

// AssignGroupRequest applies one group to a set of clients. A nil GroupID
// clears the assignment.
type AssignGroupRequest struct {
	ClientIDs []string `json:"client_ids" binding:"required,min=1"`
	GroupID   *string  `json:"group_id"`
}

// AssignGroupResult reports the per-client outcome of a bulk assignment.
// The operation is not atomic: some clients may be updated while others fail.
type AssignGroupResult struct {
	ClientID string `json:"client_id"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}
