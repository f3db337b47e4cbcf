package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Ruby405/double-entry/internal/usecase"
)

// PostgreSQL error codes the engine reacts to.
const (
	pgErrDeadlockDetected     = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrUniqueViolation      = "23505"
)

// Classifier implements usecase.ErrorClassifier for pgx errors.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify maps a pgx error onto the engine's error taxonomy. Deadlocks and
// serialization failures restart the unit of work; unique violations are
// duplicate-key races; everything else is permanent.
func (c *Classifier) Classify(err error) usecase.ErrorClass {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlockDetected, pgErrSerializationFailure:
			return usecase.ErrorClassDeadlock
		case pgErrUniqueViolation:
			return usecase.ErrorClassDuplicateKey
		}
	}

	return usecase.ErrorClassOther
}
