package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Ruby405/double-entry/internal/usecase"
	"github.com/Ruby405/double-entry/internal/usecase/mocks"
)

var errDeadlock = errors.New("deadlock detected")

func deadlockClassifier() *mocks.MockClassifier {
	return &mocks.MockClassifier{
		ClassifyFunc: func(err error) usecase.ErrorClass {
			if errors.Is(err, errDeadlock) {
				return usecase.ErrorClassDeadlock
			}
			return usecase.ErrorClassOther
		},
	}
}

func TestRunnerRun_CommitsOnSuccess(t *testing.T) {
	txMgr := mocks.NewMockTransactionManager()
	runner := usecase.NewRunner(txMgr, &mocks.MockClassifier{}, nil, nil)

	err := runner.Run(context.Background(), func(ctx context.Context, tx usecase.Transaction) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txMgr.Begun != 1 {
		t.Errorf("expected 1 transaction, got %d", txMgr.Begun)
	}
	if !txMgr.Txs[0].Committed {
		t.Error("expected transaction to be committed")
	}
}

func TestRunnerRun_RestartsOnDeadlock(t *testing.T) {
	txMgr := mocks.NewMockTransactionManager()
	observer := &mocks.MockObserver{}
	runner := usecase.NewRunner(txMgr, deadlockClassifier(), observer, nil)

	attempts := 0
	err := runner.Run(context.Background(), func(ctx context.Context, tx usecase.Transaction) error {
		attempts++
		if attempts <= 2 {
			return errDeadlock
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if txMgr.Begun != 3 {
		t.Errorf("expected 3 transactions, got %d", txMgr.Begun)
	}
	if observer.Restarts != 2 {
		t.Errorf("expected 2 restart events, got %d", observer.Restarts)
	}

	// Every failed attempt rolls back, only the last one commits.
	if !txMgr.Txs[0].RolledBack || !txMgr.Txs[1].RolledBack {
		t.Error("expected failed transactions to be rolled back")
	}
	if !txMgr.Txs[2].Committed {
		t.Error("expected final transaction to be committed")
	}
}

func TestRunnerRun_RestartSentinel(t *testing.T) {
	txMgr := mocks.NewMockTransactionManager()
	observer := &mocks.MockObserver{}
	runner := usecase.NewRunner(txMgr, &mocks.MockClassifier{}, observer, nil)

	attempts := 0
	err := runner.Run(context.Background(), func(ctx context.Context, tx usecase.Transaction) error {
		attempts++
		if attempts == 1 {
			return usecase.ErrRestartTransaction
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txMgr.Begun != 2 {
		t.Errorf("expected 2 transactions, got %d", txMgr.Begun)
	}
}

func TestRunnerRun_PermanentErrorPropagates(t *testing.T) {
	txMgr := mocks.NewMockTransactionManager()
	observer := &mocks.MockObserver{}
	runner := usecase.NewRunner(txMgr, deadlockClassifier(), observer, nil)

	permanent := errors.New("column does not exist")
	err := runner.Run(context.Background(), func(ctx context.Context, tx usecase.Transaction) error {
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}

	if txMgr.Begun != 1 {
		t.Errorf("expected 1 transaction, got %d", txMgr.Begun)
	}
	if !txMgr.Txs[0].RolledBack {
		t.Error("expected transaction to be rolled back")
	}
	if observer.Restarts != 0 {
		t.Errorf("expected no restart events, got %d", observer.Restarts)
	}
}

func TestRunnerRun_ContextCancelled(t *testing.T) {
	txMgr := mocks.NewMockTransactionManager()
	runner := usecase.NewRunner(txMgr, deadlockClassifier(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	err := runner.Run(ctx, func(ctx context.Context, tx usecase.Transaction) error {
		cancel()
		return errDeadlock
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunnerGuard(t *testing.T) {
	duplicate := errors.New("unique violation")
	classifier := &mocks.MockClassifier{
		ClassifyFunc: func(err error) usecase.ErrorClass {
			switch {
			case errors.Is(err, errDeadlock):
				return usecase.ErrorClassDeadlock
			case errors.Is(err, duplicate):
				return usecase.ErrorClassDuplicateKey
			default:
				return usecase.ErrorClassOther
			}
		},
	}

	t.Run("duplicate key is suppressed", func(t *testing.T) {
		observer := &mocks.MockObserver{}
		runner := usecase.NewRunner(mocks.NewMockTransactionManager(), classifier, observer, nil)

		calls := 0
		err := runner.CreateIgnoringDuplicates(context.Background(), func() error {
			calls++
			return duplicate
		})
		if err != nil {
			t.Fatalf("expected duplicate to be suppressed, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
		if observer.Ignored != 1 {
			t.Errorf("expected 1 duplicate event, got %d", observer.Ignored)
		}
	})

	t.Run("deadlock retries in place", func(t *testing.T) {
		observer := &mocks.MockObserver{}
		runner := usecase.NewRunner(mocks.NewMockTransactionManager(), classifier, observer, nil)

		calls := 0
		err := runner.Guard(context.Background(), func() error {
			calls++
			if calls <= 2 {
				return errDeadlock
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
		if observer.Retries != 2 {
			t.Errorf("expected 2 retry events, got %d", observer.Retries)
		}
	})

	t.Run("other errors propagate", func(t *testing.T) {
		runner := usecase.NewRunner(mocks.NewMockTransactionManager(), classifier, nil, nil)

		permanent := errors.New("not null violation")
		err := runner.Guard(context.Background(), func() error {
			return permanent
		})
		if !errors.Is(err, permanent) {
			t.Fatalf("expected permanent error, got %v", err)
		}
	})
}
