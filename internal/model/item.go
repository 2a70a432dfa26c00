package model

import "time"

// Item is a physical object under dispute. It is created together with the
// report that introduces it and becomes resolved once a claim on it is
// approved; it never reverts to active.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	PhotoName   string    `json:"photo_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ReportType   string `json:"report_type,omitempty"`
	ReporterName string `json:"reporter_name,omitempty"`
}

// Item statuses.
const (
	ItemStatusActive   = "active"
	ItemStatusResolved = "resolved"
	ItemStatusArchived = "archived"
)

// ValidItemStatus reports whether status is a recognized item status.
func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusActive, ItemStatusResolved, ItemStatusArchived:
		return true
	}
	return false
}
