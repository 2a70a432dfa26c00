package claims

import "errors"

// Engine errors. The API layer maps these onto HTTP statuses; anything else
// coming out of the engine is a persistence failure.
var (
	// ErrNotFound means no claim matches the given id or pickup code (for
	// code lookups, only approved claims count).
	ErrNotFound = errors.New("no matching approved claim")

	// ErrAlreadyDecided means the claim has left the pending state, so a
	// second decision is refused and produces no audit row or notification.
	ErrAlreadyDecided = errors.New("claim has already been decided")

	// ErrHandoverIncomplete means collection was attempted before the finder
	// handed the item to the admin.
	ErrHandoverIncomplete = errors.New("item not yet received from finder, complete step 1 first")

	// ErrCodeSpaceExhausted means pickup-code generation kept colliding with
	// issued codes until the retry bound was hit. The decision is rolled back.
	ErrCodeSpaceExhausted = errors.New("could not generate a unique pickup code")
)
