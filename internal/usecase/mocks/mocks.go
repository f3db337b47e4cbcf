// Package mocks provides in-memory fakes for the usecase interfaces.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// MockBalanceRepository is an in-memory BalanceRepository.
type MockBalanceRepository struct {
	mu   sync.Mutex
	rows map[string]*domain.AccountBalance

	CreateFunc        func(ctx context.Context, balance *domain.AccountBalance) error
	LockOrderedFunc   func(ctx context.Context, tx usecase.Transaction, accounts []domain.AccountRef) ([]*domain.AccountBalance, error)
	UpdateBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{rows: make(map[string]*domain.AccountBalance)}
}

// Seed inserts a balance row directly, bypassing the Create hook.
func (m *MockBalanceRepository) Seed(balance *domain.AccountBalance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[balance.Account.Key()] = balance
}

// Row returns the stored row for an account, or nil.
func (m *MockBalanceRepository) Row(ref domain.AccountRef) *domain.AccountBalance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[ref.Key()]
}

func (m *MockBalanceRepository) Create(ctx context.Context, balance *domain.AccountBalance) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[balance.Account.Key()]; ok {
		return fmt.Errorf("duplicate balance row for %s", balance.Account.Key())
	}
	m.rows[balance.Account.Key()] = balance
	return nil
}

func (m *MockBalanceRepository) GetByAccount(ctx context.Context, account domain.AccountRef) (*domain.AccountBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[account.Key()]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return row, nil
}

func (m *MockBalanceRepository) LockOrdered(ctx context.Context, tx usecase.Transaction, accounts []domain.AccountRef) ([]*domain.AccountBalance, error) {
	if m.LockOrderedFunc != nil {
		return m.LockOrderedFunc(ctx, tx, accounts)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var locked []*domain.AccountBalance
	for _, ref := range accounts {
		if row, ok := m.rows[ref.Key()]; ok {
			locked = append(locked, row)
		}
	}
	return locked, nil
}

func (m *MockBalanceRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			row.Balance = balance
			row.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

func (m *MockBalanceRepository) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, row := range m.rows {
		total = total.Add(row.Balance)
	}
	return total, nil
}

// MockLineRepository is an in-memory LineRepository assigning sequential ids.
type MockLineRepository struct {
	mu     sync.Mutex
	nextID int64
	Lines  []*domain.Line

	CreateFunc func(ctx context.Context, tx usecase.Transaction, line *domain.Line) error
}

func NewMockLineRepository() *MockLineRepository {
	return &MockLineRepository{}
}

func (m *MockLineRepository) Create(ctx context.Context, tx usecase.Transaction, line *domain.Line) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, line)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	line.ID = m.nextID
	stored := *line
	m.Lines = append(m.Lines, &stored)
	return nil
}

func (m *MockLineRepository) SetPartnerID(ctx context.Context, tx usecase.Transaction, id, partnerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range m.Lines {
		if line.ID == id {
			line.PartnerID = partnerID
			return nil
		}
	}
	return domain.ErrLineNotFound
}

func (m *MockLineRepository) GetByID(ctx context.Context, id int64) (*domain.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range m.Lines {
		if line.ID == id {
			return line, nil
		}
	}
	return nil, domain.ErrLineNotFound
}

func (m *MockLineRepository) ListByAccount(ctx context.Context, account domain.AccountRef, limit, offset int) ([]*domain.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.Line
	for _, line := range m.Lines {
		if line.Account.Equal(account) {
			matched = append(matched, line)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MockLineRepository) SumAmounts(ctx context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, line := range m.Lines {
		total = total.Add(line.Amount)
	}
	return total, nil
}

// MockLineMetadataRepository is an in-memory LineMetadataRepository.
type MockLineMetadataRepository struct {
	mu     sync.Mutex
	nextID int64
	Rows   []*domain.LineMetadata
}

func NewMockLineMetadataRepository() *MockLineMetadataRepository {
	return &MockLineMetadataRepository{}
}

func (m *MockLineMetadataRepository) Create(ctx context.Context, tx usecase.Transaction, meta *domain.LineMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	meta.ID = m.nextID
	stored := *meta
	m.Rows = append(m.Rows, &stored)
	return nil
}

func (m *MockLineMetadataRepository) ListByLine(ctx context.Context, lineID int64) ([]*domain.LineMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.LineMetadata
	for _, meta := range m.Rows {
		if meta.LineID == lineID {
			matched = append(matched, meta)
		}
	}
	return matched, nil
}

// MockTransaction records commit/rollback calls.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.RolledBack = true
	return nil
}

// MockTransactionManager counts lifecycle calls.
type MockTransactionManager struct {
	mu        sync.Mutex
	Begun     int
	Txs       []*MockTransaction
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Begun++
	tx := &MockTransaction{}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

// MockIDGenerator returns sequential ids.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}

// MockClassifier classifies via a function, defaulting to Other.
type MockClassifier struct {
	ClassifyFunc func(err error) usecase.ErrorClass
}

func (m *MockClassifier) Classify(err error) usecase.ErrorClass {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(err)
	}
	return usecase.ErrorClassOther
}

// MockObserver counts emitted retry events.
type MockObserver struct {
	mu        sync.Mutex
	Restarts  int
	Retries   int
	Ignored   int
	LastError error
}

func (m *MockObserver) DeadlockRestart(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restarts++
	m.LastError = err
}

func (m *MockObserver) DeadlockRetry(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Retries++
	m.LastError = err
}

func (m *MockObserver) DuplicateIgnore(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ignored++
	m.LastError = err
}

// MockCache is an in-memory Cache (TTL ignored).
type MockCache struct {
	mu   sync.Mutex
	data map[string]string

	Gets, Sets, Deletes int
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	value, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("cache miss: %s", key)
	}
	return value, nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	delete(m.data, key)
	return nil
}
