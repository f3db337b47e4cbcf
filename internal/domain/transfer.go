package domain

import "fmt"

// CodeMaxLength bounds transfer codes; the lines table stores the code in a
// fixed-width column.
const CodeMaxLength = 47

// TransferDefinition whitelists a single legal movement: value may flow
// from one account type to another under the given code.
type TransferDefinition struct {
	From string
	To   string
	Code string
}

type transferKey struct {
	from, to, code string
}

// TransferRegistry is the set of allowed transfer definitions, keyed by the
// (from, to, code) triple. It is built once at configuration time, handed
// to the ledger, and read-only afterwards.
type TransferRegistry struct {
	defs map[transferKey]TransferDefinition
}

// NewTransferRegistry builds a registry from the given definitions.
func NewTransferRegistry(defs ...TransferDefinition) (*TransferRegistry, error) {
	r := &TransferRegistry{defs: make(map[transferKey]TransferDefinition, len(defs))}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds a definition. Registering the same (from, to, code) triple
// twice fails, as does a code longer than CodeMaxLength.
func (r *TransferRegistry) Register(def TransferDefinition) error {
	if len(def.Code) > CodeMaxLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrTransferCodeTooLong, def.Code, CodeMaxLength)
	}

	key := transferKey{from: def.From, to: def.To, code: def.Code}
	if _, ok := r.defs[key]; ok {
		return fmt.Errorf("%w: (%s, %s, %s)", ErrDuplicateTransferDefinition, def.From, def.To, def.Code)
	}

	r.defs[key] = def

	return nil
}

// Lookup finds the definition matching exactly on all three fields and
// fails with ErrTransferNotAllowed when none does.
func (r *TransferRegistry) Lookup(from, to, code string) (TransferDefinition, error) {
	def, ok := r.defs[transferKey{from: from, to: to, code: code}]
	if !ok {
		return TransferDefinition{}, fmt.Errorf("%w: (%s, %s, %s)", ErrTransferNotAllowed, from, to, code)
	}

	return def, nil
}

// Len reports the number of registered definitions.
func (r *TransferRegistry) Len() int {
	return len(r.defs)
}
