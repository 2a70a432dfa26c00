package model

import "time"

// Report links the user who filed it to the item it introduces. An item may
// carry several reports, but resolution assumes a single canonical 'found'
// report whose author is the finder.
type Report struct {
	ID         int64     `json:"id"`
	ReportType string    `json:"report_type"`
	Remarks    string    `json:"remarks,omitempty"`
	UserID     int64     `json:"user_id"`
	ItemID     int64     `json:"item_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemTitle    string `json:"item_title,omitempty"`
	ItemCategory string `json:"item_category,omitempty"`
	ItemStatus   string `json:"item_status,omitempty"`
	ReporterName string `json:"reporter_name,omitempty"`
}

// Report types.
const (
	ReportTypeLost  = "lost"
	ReportTypeFound = "found"
)

// ValidReportType reports whether t is a recognized report type.
func ValidReportType(t string) bool {
	switch t {
	case ReportTypeLost, ReportTypeFound:
		return true
	}
	return false
}
