package model

import "time"

// AdminAction is an append-only audit record of an approve/reject decision.
// Rows are never updated or deleted by application logic.
type AdminAction struct {
	ID         int64     `json:"id"`
	ActionType string    `json:"action_type"`
	Remarks    string    `json:"remarks,omitempty"`
	AdminID    int64     `json:"admin_id"`
	ClaimID    int64     `json:"claim_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields (not always populated).
	AdminName    string `json:"admin_name,omitempty"`
	ItemTitle    string `json:"item_title,omitempty"`
	ClaimStatus  string `json:"claim_status,omitempty"`
	ClaimantName string `json:"claimant_name,omitempty"`
}

// Admin action types.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ValidActionType reports whether t is a recognized admin action type.
func ValidActionType(t string) bool {
	switch t {
	case ActionApprove, ActionReject:
		return true
	}
	return false
}
