package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AccountRef identifies a single ledger account: a configured account type,
// an optional scope instance, and the currency it is denominated in.
// Two refs address the same account iff identifier, scope and currency match;
// the PositiveOnly flag is a property of the configuration, not the identity.
type AccountRef struct {
	Identifier   string
	Scope        string
	Currency     string
	PositiveOnly bool
}

// Key returns the canonical identity of the account. Refs with the same key
// share one balance row.
func (a AccountRef) Key() string {
	return a.Identifier + "/" + a.Scope + "/" + a.Currency
}

// ScopeIdentity groups accounts sharing a scope. A transfer whose from and
// to sides share identifier and scope identity targets the literal same
// account and is rejected.
func (a AccountRef) ScopeIdentity() string {
	return a.Identifier + "/" + a.Scope
}

// Equal reports whether two refs address the same account.
func (a AccountRef) Equal(b AccountRef) bool {
	return a.Identifier == b.Identifier && a.Scope == b.Scope && a.Currency == b.Currency
}

// CanonicalOrder returns the refs sorted into the fixed lock-acquisition
// order: identifier, then scope, then currency. Every code path that locks
// more than one balance row must request locks in this order, so two
// concurrent transfers touching overlapping accounts can never form a
// lock-ordering cycle between themselves. The input is not modified.
func CanonicalOrder(refs []AccountRef) []AccountRef {
	ordered := make([]AccountRef, len(refs))
	copy(ordered, refs)

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Identifier != ordered[j].Identifier {
			return ordered[i].Identifier < ordered[j].Identifier
		}
		if ordered[i].Scope != ordered[j].Scope {
			return ordered[i].Scope < ordered[j].Scope
		}

		return ordered[i].Currency < ordered[j].Currency
	})

	return ordered
}

// AccountBalance is the lockable current-balance row backing an AccountRef.
// Exactly one row exists per distinct account; it is created lazily on first
// use, mutated only while locked inside a unit of work, and never deleted.
type AccountBalance struct {
	ID        string
	Account   AccountRef
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Decrease returns the balance after removing amount. For a positive-only
// account a result below zero fails with ErrAccountWouldBeSentNegative;
// the check runs against the locked row's real balance, never a cached one.
func (b *AccountBalance) Decrease(amount decimal.Decimal) (decimal.Decimal, error) {
	next := b.Balance.Sub(amount)
	if b.Account.PositiveOnly && next.IsNegative() {
		return decimal.Decimal{}, ErrAccountWouldBeSentNegative
	}

	return next, nil
}

// Increase returns the balance after adding amount.
func (b *AccountBalance) Increase(amount decimal.Decimal) decimal.Decimal {
	return b.Balance.Add(amount)
}
