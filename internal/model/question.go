package model

import "time"

// SecurityQuestion is a challenge/answer pair. The reporter's question is
// scoped to the item (ClaimID nil); each claimant's answer is scoped to the
// claim (ClaimID set). The admin compares the two manually during review.
type SecurityQuestion struct {
	ID           int64     `json:"id"`
	QuestionText string    `json:"question_text"`
	Answer       string    `json:"answer"`
	ClaimID      *int64    `json:"claim_id,omitempty"`
	ItemID       int64     `json:"item_id"`
	CreatedAt    time.Time `json:"created_at"`
}
