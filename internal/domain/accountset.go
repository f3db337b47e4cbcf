package domain

import "fmt"

// Length limits for account identity columns.
const (
	IdentifierMaxLength = 31
	ScopeMaxLength      = 23
)

// AccountDefinition describes one configured account type. Scoped accounts
// exist once per scope value (e.g. per user); unscoped accounts are global
// singletons.
type AccountDefinition struct {
	Identifier   string
	Scoped       bool
	PositiveOnly bool
	Currency     string
}

// AccountSet is the chart of accounts: the set of account definitions the
// ledger knows about. It is populated once at configuration time and
// read-only afterwards; AccountRefs are constructed on demand from it.
type AccountSet struct {
	defs map[string]AccountDefinition
}

// NewAccountSet builds a set from the given definitions.
func NewAccountSet(defs ...AccountDefinition) (*AccountSet, error) {
	set := &AccountSet{defs: make(map[string]AccountDefinition, len(defs))}
	for _, def := range defs {
		if err := set.add(def); err != nil {
			return nil, err
		}
	}

	return set, nil
}

func (s *AccountSet) add(def AccountDefinition) error {
	if len(def.Identifier) > IdentifierMaxLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrAccountIdentifierTooLong, def.Identifier, IdentifierMaxLength)
	}

	if _, ok := s.defs[def.Identifier]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAccountDefinition, def.Identifier)
	}

	if def.Currency == "" {
		def.Currency = "USD"
	}

	s.defs[def.Identifier] = def

	return nil
}

// Account constructs the AccountRef for identifier and scope. Scoped
// definitions require a scope value, unscoped ones forbid it.
func (s *AccountSet) Account(identifier, scope string) (AccountRef, error) {
	def, ok := s.defs[identifier]
	if !ok {
		return AccountRef{}, fmt.Errorf("%w: %q", ErrUnknownAccount, identifier)
	}

	if def.Scoped != (scope != "") {
		return AccountRef{}, fmt.Errorf("%w: account %q scoped=%t, scope %q given", ErrAccountScopeMismatch, identifier, def.Scoped, scope)
	}

	if len(scope) > ScopeMaxLength {
		return AccountRef{}, fmt.Errorf("%w: %q exceeds %d characters", ErrScopeIdentifierTooLong, scope, ScopeMaxLength)
	}

	return AccountRef{
		Identifier:   identifier,
		Scope:        scope,
		Currency:     def.Currency,
		PositiveOnly: def.PositiveOnly,
	}, nil
}

// Identifiers lists the configured account identifiers.
func (s *AccountSet) Identifiers() []string {
	ids := make([]string, 0, len(s.defs))
	for id := range s.defs {
		ids = append(ids, id)
	}

	return ids
}
