package model

import "time"

// ClaimRequest is a user's assertion of ownership over a reported item.
// Pickup-code and handover fields are only ever set on approved claims, and
// collection can only follow handover to the admin.
type ClaimRequest struct {
	ID                     int64      `json:"id"`
	Status                 string     `json:"status"`
	Proof                  string     `json:"proof"`
	PickupCode             string     `json:"pickup_code,omitempty"`
	ItemHandedToAdmin      bool       `json:"item_handed_to_admin"`
	HandedToAdminAt        *time.Time `json:"handed_to_admin_at,omitempty"`
	ItemCollectedByClaimer bool       `json:"item_collected_by_claimer"`
	CollectedAt            *time.Time `json:"collected_at,omitempty"`
	UserID                 int64      `json:"user_id"`
	ItemID                 int64      `json:"item_id"`
	CreatedAt              time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	ItemTitle     string `json:"item_title,omitempty"`
	ItemCategory  string `json:"item_category,omitempty"`
	ItemLocation  string `json:"item_location,omitempty"`
	ClaimantName  string `json:"claimant_name,omitempty"`
	ClaimantEmail string `json:"claimant_email,omitempty"`
}

// Claim statuses.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

// ValidClaimStatus reports whether status is a recognized claim status.
func ValidClaimStatus(status string) bool {
	switch status {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}
