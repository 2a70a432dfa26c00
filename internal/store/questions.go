package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sahanac12/lost-found/internal/model"
)

// GetReporterQuestion returns the reporter-scoped security question for an
// item (the row with a NULL claim_id), or nil if none exists.
func GetReporterQuestion(ctx context.Context, db *sql.DB, itemID int64) (*model.SecurityQuestion, error) {
	q := &model.SecurityQuestion{}
	err := db.QueryRowContext(ctx,
		`SELECT id, question_text, answer, claim_id, item_id, created_at
		 FROM security_questions
		 WHERE item_id = ? AND claim_id IS NULL
		 LIMIT 1`, itemID,
	).Scan(&q.ID, &q.QuestionText, &q.Answer, &q.ClaimID, &q.ItemID, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting reporter question: %w", err)
	}
	return q, nil
}

// GetClaimantAnswer returns the claimant's answer row for a claim, or nil if
// none exists.
func GetClaimantAnswer(ctx context.Context, db *sql.DB, claimID int64) (*model.SecurityQuestion, error) {
	q := &model.SecurityQuestion{}
	err := db.QueryRowContext(ctx,
		`SELECT id, question_text, answer, claim_id, item_id, created_at
		 FROM security_questions
		 WHERE claim_id = ?
		 LIMIT 1`, claimID,
	).Scan(&q.ID, &q.QuestionText, &q.Answer, &q.ClaimID, &q.ItemID, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claimant answer: %w", err)
	}
	return q, nil
}
