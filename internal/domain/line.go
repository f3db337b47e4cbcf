package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one side of a paired ledger entry. The source side (the credit
// line) carries a negative amount, the destination side (the debit line)
// the matching positive amount. Each line records the running balance of
// its account immediately after the entry. A line is immutable once
// committed, except for the single partner-id backfill performed while the
// creating transaction is still open.
type Line struct {
	ID             int64
	Account        AccountRef
	PartnerAccount AccountRef
	Amount         decimal.Decimal
	Balance        decimal.Decimal
	Code           string
	Detail         string
	PartnerID      int64
	CreatedAt      time.Time
}

// LineMetadata is a single key/value annotation attached to a line. A key
// may carry several values; each (key, value) pair is its own row rather
// than an entry in a map.
type LineMetadata struct {
	ID        int64
	LineID    int64
	Key       string
	Value     string
	CreatedAt time.Time
}

// Metadata maps an annotation key to its ordered values. Boundaries that
// accept scalar-or-sequence input normalize into singleton slices before
// constructing one, so downstream code never branches on the shape.
type Metadata map[string][]string
