package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sahanac12/lost-found/internal/model"
)

// ListAdminActions returns the full audit log, newest first, with admin,
// item, and claimant details joined. Rows in this table are append-only.
func ListAdminActions(ctx context.Context, db *sql.DB) ([]model.AdminAction, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT a.id, a.action_type, a.remarks, a.admin_id, a.claim_id, a.created_at,
		        u.name AS admin_name, i.title AS item_title,
		        c.status AS claim_status, claimant.name AS claimant_name
		 FROM admin_actions a
		 JOIN users u ON u.id = a.admin_id
		 JOIN claim_requests c ON c.id = a.claim_id
		 JOIN items i ON i.id = c.item_id
		 JOIN users claimant ON claimant.id = c.user_id
		 ORDER BY a.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing admin actions: %w", err)
	}
	defer rows.Close()

	var actions []model.AdminAction
	for rows.Next() {
		var a model.AdminAction
		var remarks sql.NullString
		if err := rows.Scan(&a.ID, &a.ActionType, &remarks, &a.AdminID, &a.ClaimID, &a.CreatedAt,
			&a.AdminName, &a.ItemTitle, &a.ClaimStatus, &a.ClaimantName); err != nil {
			return nil, fmt.Errorf("scanning admin action: %w", err)
		}
		a.Remarks = remarks.String
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// ListActionsByClaim returns the audit records for one claim, oldest first.
func ListActionsByClaim(ctx context.Context, db *sql.DB, claimID int64) ([]model.AdminAction, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, action_type, remarks, admin_id, claim_id, created_at
		 FROM admin_actions
		 WHERE claim_id = ?
		 ORDER BY created_at`, claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing actions by claim: %w", err)
	}
	defer rows.Close()

	var actions []model.AdminAction
	for rows.Next() {
		var a model.AdminAction
		var remarks sql.NullString
		if err := rows.Scan(&a.ID, &a.ActionType, &remarks, &a.AdminID, &a.ClaimID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning admin action: %w", err)
		}
		a.Remarks = remarks.String
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
