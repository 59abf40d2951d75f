package cart

import "github.com/google/uuid"

// FieldOutcome says what happened to one patched field.
type FieldOutcome string

const (
	// FieldApplied means the field passed the access check and was written.
	FieldApplied FieldOutcome = "applied"
	// FieldSkipped means the access check denied the write; the request
	// still succeeds and the caller learns about the skip here instead of
	// through an error.
	FieldSkipped FieldOutcome = "skipped"
)

// FieldResult reports the outcome for one field of an item patch.
type FieldResult struct {
	Field   string       `json:"field"`
	Outcome FieldOutcome `json:"outcome"`
}

// RemoveResult reports the outcome for one entry of a batch removal.
// Failed entries carry the error; successful removals persist even when
// sibling entries fail.
type RemoveResult struct {
	ItemID uuid.UUID `json:"item_id"`
	Err    error     `json:"-"`
}

// Removed reports whether this entry's item was deleted.
func (r RemoveResult) Removed() bool {
	return r.Err == nil
}
