// Package claims implements the claim lifecycle: an admin decision on a
// pending claim, followed by the two-step physical handover verified by
// pickup code (finder to admin, then admin to claimant).
package claims

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahanac12/lost-found/internal/model"
	"github.com/sahanac12/lost-found/internal/notify"
	"github.com/sahanac12/lost-found/internal/store"
)

// Engine drives claim state transitions. All multi-statement sequences run
// inside one transaction; notifications go out only after the transaction
// has committed, so a failed send can never undo a decision.
type Engine struct {
	DB       *sql.DB
	Notifier notify.Sender

	// FinderLeadTime pauses between the finder and claimant notifications so
	// the finder gets a head start on bringing the item in. Advisory only.
	FinderLeadTime time.Duration

	// newCode overrides pickup-code generation in tests.
	newCode func() (string, error)
}

// NewEngine creates an engine over the given database and mail sender.
func NewEngine(db *sql.DB, sender notify.Sender) *Engine {
	return &Engine{DB: db, Notifier: sender, newCode: GenerateCode}
}

// DecideResult reports the outcome of a claim decision. Warnings carry
// notification failures, which accompany a successful decision rather than
// fail it.
type DecideResult struct {
	Claim      *model.ClaimRequest `json:"claim"`
	PickupCode string              `json:"pickup_code,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
}

// Decide applies an admin's approve/reject decision to a pending claim.
//
// Rejection records the audit row and stops. Approval additionally mints a
// unique pickup code, marks the item resolved, and after commit notifies
// the finder first and the claimant second. The pending check and the code
// uniqueness check share one transaction, so concurrent decisions on the
// same claim resolve to exactly one winner; the loser gets
// ErrAlreadyDecided.
func (e *Engine) Decide(ctx context.Context, adminID, claimID int64, actionType, remarks string) (*DecideResult, error) {
	if !model.ValidActionType(actionType) {
		return nil, fmt.Errorf("invalid action type %q", actionType)
	}

	newStatus := model.ClaimStatusRejected
	if actionType == model.ActionApprove {
		newStatus = model.ClaimStatusApproved
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Conditional update guarantees at most one decision per claim.
	result, err := tx.ExecContext(ctx,
		`UPDATE claim_requests SET status = ? WHERE id = ? AND status = 'pending'`,
		newStatus, claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating claim status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM claim_requests WHERE id = ?`, claimID,
		).Scan(&status)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("checking claim: %w", err)
		}
		return nil, ErrAlreadyDecided
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO admin_actions (action_type, remarks, admin_id, claim_id) VALUES (?, ?, ?, ?)`,
		actionType, remarks, adminID, claimID,
	); err != nil {
		return nil, fmt.Errorf("recording admin action: %w", err)
	}

	if actionType == model.ActionReject {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing rejection: %w", err)
		}
		claim, err := store.GetClaim(ctx, e.DB, claimID)
		if err != nil {
			return nil, err
		}
		slog.Info("claim rejected", "claim", claimID, "admin", adminID)
		return &DecideResult{Claim: claim}, nil
	}

	// Approval path: mint the code under the same transaction that flipped
	// the status, so the uniqueness check holds at commit time.
	code, err := e.mintCode(ctx, tx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE claim_requests SET pickup_code = ? WHERE id = ?`,
		code, claimID,
	); err != nil {
		return nil, fmt.Errorf("storing pickup code: %w", err)
	}

	var itemID int64
	var itemTitle, claimantName, claimantEmail string
	err = tx.QueryRowContext(ctx,
		`SELECT c.item_id, i.title, u.name, u.email
		 FROM claim_requests c
		 JOIN items i ON i.id = c.item_id
		 JOIN users u ON u.id = c.user_id
		 WHERE c.id = ?`, claimID,
	).Scan(&itemID, &itemTitle, &claimantName, &claimantEmail)
	if err != nil {
		return nil, fmt.Errorf("loading claim details: %w", err)
	}

	var finderName, finderEmail string
	hasFinder := true
	err = tx.QueryRowContext(ctx,
		`SELECT u.name, u.email
		 FROM reports r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.item_id = ? AND r.report_type = 'found'
		 ORDER BY r.created_at
		 LIMIT 1`, itemID,
	).Scan(&finderName, &finderEmail)
	if err == sql.ErrNoRows {
		hasFinder = false
	} else if err != nil {
		return nil, fmt.Errorf("loading finder: %w", err)
	}

	// The item leaves the active listing at approval time. Collection
	// re-asserts this terminal state; nothing ever reverts it.
	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET status = 'resolved' WHERE id = ?`, itemID,
	); err != nil {
		return nil, fmt.Errorf("resolving item: %w", err)
	}

	// Commit before notifying: a failed send must not roll back the approval.
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing approval: %w", err)
	}

	res := &DecideResult{PickupCode: code}

	// Finder first, then claimant, so the item is on its way to the office
	// before the claimant is told to come collect it.
	if hasFinder {
		subject, body := notify.FinderMessage(finderName, itemTitle, code)
		if err := e.Notifier.Send(finderEmail, subject, body); err != nil {
			slog.Warn("finder notification failed", "claim", claimID, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not notify finder: %v", err))
		}
	} else {
		slog.Warn("item has no found report, finder not notified", "claim", claimID, "item", itemID)
		res.Warnings = append(res.Warnings, "item has no found report; finder not notified")
	}

	if e.FinderLeadTime > 0 {
		time.Sleep(e.FinderLeadTime)
	}

	subject, body := notify.ClaimerMessage(claimantName, itemTitle, code)
	if err := e.Notifier.Send(claimantEmail, subject, body); err != nil {
		slog.Warn("claimant notification failed", "claim", claimID, "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not notify claimant: %v", err))
	}

	claim, err := store.GetClaim(ctx, e.DB, claimID)
	if err != nil {
		return nil, err
	}
	res.Claim = claim

	slog.Info("claim approved", "claim", claimID, "admin", adminID, "warnings", len(res.Warnings))
	return res, nil
}

// mintCode generates a pickup code not held by any existing claim. The
// check runs inside the caller's transaction; a collision regenerates
// rather than surfacing a constraint error.
func (e *Engine) mintCode(ctx context.Context, tx *sql.Tx) (string, error) {
	gen := e.newCode
	if gen == nil {
		gen = GenerateCode
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := gen()
		if err != nil {
			return "", fmt.Errorf("generating pickup code: %w", err)
		}

		var existing int64
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM claim_requests WHERE pickup_code = ?`, code,
		).Scan(&existing)
		if err == sql.ErrNoRows {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking pickup code: %w", err)
		}
	}

	return "", ErrCodeSpaceExhausted
}

// VerifyHandover records that the finder handed the item to the admin,
// identified by pickup code. Re-submitting a code already verified at this
// step succeeds without touching the recorded timestamp.
func (e *Engine) VerifyHandover(ctx context.Context, pickupCode string) (*model.ClaimRequest, error) {
	claim, err := store.GetClaimByCode(ctx, e.DB, pickupCode)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrNotFound
	}

	if claim.ItemHandedToAdmin {
		return claim, nil
	}

	if _, err := e.DB.ExecContext(ctx,
		`UPDATE claim_requests
		 SET item_handed_to_admin = 1, handed_to_admin_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND item_handed_to_admin = 0`,
		claim.ID,
	); err != nil {
		return nil, fmt.Errorf("recording handover: %w", err)
	}

	slog.Info("handover verified", "claim", claim.ID)
	return store.GetClaim(ctx, e.DB, claim.ID)
}

// VerifyCollection records that the claimant collected the item, identified
// by pickup code. Collection requires that the handover step has completed;
// out-of-order verification fails without mutating anything. Completing
// collection re-asserts the item's resolved status.
func (e *Engine) VerifyCollection(ctx context.Context, pickupCode string) (*model.ClaimRequest, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var claimID, itemID int64
	var handed, collected bool
	err = tx.QueryRowContext(ctx,
		`SELECT id, item_id, item_handed_to_admin, item_collected_by_claimer
		 FROM claim_requests
		 WHERE pickup_code = ? AND status = 'approved'`, pickupCode,
	).Scan(&claimID, &itemID, &handed, &collected)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up claim: %w", err)
	}

	if !handed {
		return nil, ErrHandoverIncomplete
	}

	if !collected {
		if _, err := tx.ExecContext(ctx,
			`UPDATE claim_requests
			 SET item_collected_by_claimer = 1, collected_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND item_collected_by_claimer = 0`,
			claimID,
		); err != nil {
			return nil, fmt.Errorf("recording collection: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET status = 'resolved' WHERE id = ?`, itemID,
		); err != nil {
			return nil, fmt.Errorf("resolving item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing collection: %w", err)
	}

	slog.Info("collection verified, case closed", "claim", claimID, "item", itemID)
	return store.GetClaim(ctx, e.DB, claimID)
}
