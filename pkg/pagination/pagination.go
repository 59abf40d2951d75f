// Package pagination implements the keyset cursors used by list
// endpoints such as the stored payment instrument listing. A cursor
// names the last row the client already saw, by creation time and id;
// the next page starts strictly after that row.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit applies when the client does not ask for a page size.
	DefaultLimit = 25
	// MaxLimit is the hard ceiling on a requested page size.
	MaxLimit = 100

	cursorSeparator = "|"
)

// Params carries the client's paging inputs through a service call.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor pins the position of the last row already delivered. The
// (CreatedAt, ID) pair matches the row-value ordering the repositories
// query by, so ties on the timestamp stay stable.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps the requested page size, substituting
// DefaultLimit for missing or nonsensical values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer asks for one row beyond the page so the caller can
// tell whether another page exists without a second query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders the cursor as an opaque base64 token.
func EncodeCursor(cursor Cursor) string {
	token := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(token))
}

// ParseCursor reverses EncodeCursor. An empty value means first page and
// yields a nil cursor; a token that does not round-trip is an error so a
// tampered cursor cannot silently restart the listing.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	at, id, ok := strings.Cut(string(raw), cursorSeparator)
	if !ok {
		return nil, errors.New("malformed cursor token")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	rowID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("cursor row id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: rowID}, nil
}
