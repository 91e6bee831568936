package dto

// CreateResourceRequest adds a catalog entry
type CreateResourceRequest struct {
	Category    string         `json:"category" binding:"required,oneof=complaint_types complaint_severity complaint_priority complaint_status user_roles evidence_types resolution_outcomes timeline_actions"`
	Key         string         `json:"key" binding:"required,min=1,max=50,catalogkey"`
	Label       string         `json:"label" binding:"required,min=1,max=100"`
	Description string         `json:"description" binding:"omitempty,max=500"`
	SortOrder   int            `json:"sort_order" binding:"omitempty,min=0"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateResourceRequest edits a catalog entry; nil fields are left unchanged
type UpdateResourceRequest struct {
	Label       *string        `json:"label" binding:"omitempty,min=1,max=100"`
	Description *string        `json:"description" binding:"omitempty,max=500"`
	SortOrder   *int           `json:"sort_order" binding:"omitempty,min=0"`
	Metadata    map[string]any `json:"metadata"`
	IsActive    *bool          `json:"is_active"`
}

// ValidateKeyResponse answers a key existence check
type ValidateKeyResponse struct {
	Valid bool `json:"valid"`
}
