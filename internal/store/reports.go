package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sahanac12/lost-found/internal/model"
)

// NewReport carries everything a report submission creates: the item, the
// report itself, and the reporter's security question.
type NewReport struct {
	ReportType   string
	Remarks      string
	Title        string
	Description  string
	Category     string
	Location     string
	Date         string
	PhotoName    string
	QuestionText string
	Answer       string
}

// CreateReport creates the item, the report, and the reporter's security
// question in a single transaction. The question row is stored with a NULL
// claim_id to mark it as the reporter's.
func CreateReport(ctx context.Context, db *sql.DB, userID int64, nr NewReport) (*model.Report, error) {
	if !model.ValidReportType(nr.ReportType) {
		return nil, fmt.Errorf("invalid report type %q", nr.ReportType)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var photoName any
	if nr.PhotoName != "" {
		photoName = nr.PhotoName
	}

	itemResult, err := tx.ExecContext(ctx,
		`INSERT INTO items (title, description, category, location, date, photo_name)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nr.Title, nr.Description, nr.Category, nr.Location, nr.Date, photoName,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	itemID, err := itemResult.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	reportResult, err := tx.ExecContext(ctx,
		`INSERT INTO reports (report_type, remarks, user_id, item_id) VALUES (?, ?, ?, ?)`,
		nr.ReportType, nr.Remarks, userID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO security_questions (question_text, answer, claim_id, item_id)
		 VALUES (?, ?, NULL, ?)`,
		nr.QuestionText, nr.Answer, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating security question: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing report: %w", err)
	}

	reportID, _ := reportResult.LastInsertId()
	return GetReport(ctx, db, reportID)
}

// GetReport returns a report by ID.
func GetReport(ctx context.Context, db *sql.DB, id int64) (*model.Report, error) {
	r := &model.Report{}
	var remarks sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, report_type, remarks, user_id, item_id, created_at
		 FROM reports WHERE id = ?`, id,
	).Scan(&r.ID, &r.ReportType, &remarks, &r.UserID, &r.ItemID, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}
	r.Remarks = remarks.String
	return r, nil
}

// ListReportsByUser returns a user's reports with item details joined.
func ListReportsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.Report, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.report_type, r.remarks, r.user_id, r.item_id, r.created_at,
		        i.title, i.category, i.status
		 FROM reports r
		 JOIN items i ON i.id = r.item_id
		 WHERE r.user_id = ?
		 ORDER BY r.created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reports by user: %w", err)
	}
	defer rows.Close()

	return scanReports(rows, false)
}

// ListReports returns all reports with item and reporter details joined.
func ListReports(ctx context.Context, db *sql.DB) ([]model.Report, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.report_type, r.remarks, r.user_id, r.item_id, r.created_at,
		        i.title, i.category, i.status, u.name AS reporter_name
		 FROM reports r
		 JOIN items i ON i.id = r.item_id
		 JOIN users u ON u.id = r.user_id
		 ORDER BY r.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	return scanReports(rows, true)
}

// GetFinder returns the user who authored the 'found' report on an item,
// or nil if the item has no found report.
func GetFinder(ctx context.Context, db *sql.DB, itemID int64) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at
		 FROM reports r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.item_id = ? AND r.report_type = 'found'
		 ORDER BY r.created_at
		 LIMIT 1`, itemID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting finder: %w", err)
	}
	return u, nil
}

// CountReports returns the total number of reports.
func CountReports(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting reports: %w", err)
	}
	return n, nil
}

func scanReports(rows *sql.Rows, withReporter bool) ([]model.Report, error) {
	var reports []model.Report
	for rows.Next() {
		var r model.Report
		var remarks sql.NullString
		var err error
		if withReporter {
			err = rows.Scan(&r.ID, &r.ReportType, &remarks, &r.UserID, &r.ItemID, &r.CreatedAt,
				&r.ItemTitle, &r.ItemCategory, &r.ItemStatus, &r.ReporterName)
		} else {
			err = rows.Scan(&r.ID, &r.ReportType, &remarks, &r.UserID, &r.ItemID, &r.CreatedAt,
				&r.ItemTitle, &r.ItemCategory, &r.ItemStatus)
		}
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		r.Remarks = remarks.String
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
