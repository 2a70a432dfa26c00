package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sahanac12/lost-found/internal/model"
)

// ErrDuplicateClaim is returned when a user already has a pending claim on
// the same item.
var ErrDuplicateClaim = errors.New("a pending claim for this item already exists")

const claimColumns = `c.id, c.status, c.proof, c.pickup_code,
	c.item_handed_to_admin, c.handed_to_admin_at,
	c.item_collected_by_claimer, c.collected_at,
	c.user_id, c.item_id, c.created_at`

// CreateClaim creates a claim request and the claimant's security answer in
// a single transaction. The answer row copies the reporter's question text
// so the admin sees both side by side.
func CreateClaim(ctx context.Context, db *sql.DB, userID, itemID int64, proof, answer string) (*model.ClaimRequest, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM claim_requests WHERE user_id = ? AND item_id = ? AND status = 'pending'`,
		userID, itemID,
	).Scan(&existing)
	if err == nil {
		return nil, ErrDuplicateClaim
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking existing claim: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO claim_requests (proof, user_id, item_id) VALUES (?, ?, ?)`,
		proof, userID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}
	claimID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	// Reporter's question for this item; fall back to a generic label if the
	// item predates the question requirement.
	questionText := "Security verification"
	err = tx.QueryRowContext(ctx,
		`SELECT question_text FROM security_questions
		 WHERE item_id = ? AND claim_id IS NULL LIMIT 1`, itemID,
	).Scan(&questionText)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("getting reporter question: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO security_questions (question_text, answer, claim_id, item_id)
		 VALUES (?, ?, ?, ?)`,
		questionText, answer, claimID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claimant answer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	return GetClaim(ctx, db, claimID)
}

// GetClaim returns a claim by ID with item and claimant details joined.
func GetClaim(ctx context.Context, db *sql.DB, id int64) (*model.ClaimRequest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+claimColumns+`,
		        i.title, i.category, i.location, u.name, u.email
		 FROM claim_requests c
		 JOIN items i ON i.id = c.item_id
		 JOIN users u ON u.id = c.user_id
		 WHERE c.id = ?`, id,
	)
	return scanClaimRow(row)
}

// GetClaimByCode returns the approved claim holding the given pickup code.
func GetClaimByCode(ctx context.Context, db *sql.DB, code string) (*model.ClaimRequest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+claimColumns+`,
		        i.title, i.category, i.location, u.name, u.email
		 FROM claim_requests c
		 JOIN items i ON i.id = c.item_id
		 JOIN users u ON u.id = c.user_id
		 WHERE c.pickup_code = ? AND c.status = 'approved'`, code,
	)
	return scanClaimRow(row)
}

// ListClaimsByUser returns a user's claims with item details joined.
func ListClaimsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.ClaimRequest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+claimColumns+`,
		        i.title, i.category, i.location, u.name, u.email
		 FROM claim_requests c
		 JOIN items i ON i.id = c.item_id
		 JOIN users u ON u.id = c.user_id
		 WHERE c.user_id = ?
		 ORDER BY c.created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims by user: %w", err)
	}
	defer rows.Close()

	return scanClaims(rows)
}

// ListClaims returns all claims, pending first, newest within each group.
func ListClaims(ctx context.Context, db *sql.DB) ([]model.ClaimRequest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+claimColumns+`,
		        i.title, i.category, i.location, u.name, u.email
		 FROM claim_requests c
		 JOIN items i ON i.id = c.item_id
		 JOIN users u ON u.id = c.user_id
		 ORDER BY
		     CASE c.status
		         WHEN 'pending' THEN 1
		         WHEN 'approved' THEN 2
		         WHEN 'rejected' THEN 3
		     END,
		     c.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	return scanClaims(rows)
}

// ListRecentClaims returns the most recent claims up to limit.
func ListRecentClaims(ctx context.Context, db *sql.DB, limit int) ([]model.ClaimRequest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+claimColumns+`,
		        i.title, i.category, i.location, u.name, u.email
		 FROM claim_requests c
		 JOIN items i ON i.id = c.item_id
		 JOIN users u ON u.id = c.user_id
		 ORDER BY c.created_at DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent claims: %w", err)
	}
	defer rows.Close()

	return scanClaims(rows)
}

// CountPendingClaims returns the number of claims awaiting a decision.
func CountPendingClaims(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claim_requests WHERE status = 'pending'`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting pending claims: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(s rowScanner, c *model.ClaimRequest) error {
	var pickupCode sql.NullString
	if err := s.Scan(&c.ID, &c.Status, &c.Proof, &pickupCode,
		&c.ItemHandedToAdmin, &c.HandedToAdminAt,
		&c.ItemCollectedByClaimer, &c.CollectedAt,
		&c.UserID, &c.ItemID, &c.CreatedAt,
		&c.ItemTitle, &c.ItemCategory, &c.ItemLocation,
		&c.ClaimantName, &c.ClaimantEmail); err != nil {
		return err
	}
	c.PickupCode = pickupCode.String
	return nil
}

func scanClaimRow(row *sql.Row) (*model.ClaimRequest, error) {
	c := &model.ClaimRequest{}
	err := scanClaim(row, c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return c, nil
}

func scanClaims(rows *sql.Rows) ([]model.ClaimRequest, error) {
	var claims []model.ClaimRequest
	for rows.Next() {
		var c model.ClaimRequest
		if err := scanClaim(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
