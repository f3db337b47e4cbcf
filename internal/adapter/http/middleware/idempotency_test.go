package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeIdempotencyStore struct {
	checkAndSetFn func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFn      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func (f *fakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if f.checkAndSetFn != nil {
		return f.checkAndSetFn(ctx, key, response, ttl)
	}
	return false, nil, nil
}

func (f *fakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, key, response, ttl)
	}
	return nil
}

func TestIdempotencyMiddleware_ReplaysCachedResponse(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, []byte(`{"credit":{"id":1}}`), nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	var called bool
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if called {
		t.Fatalf("handler should not run on replay")
	}
	if rr.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected replay header")
	}
	if rr.Body.String() != `{"credit":{"id":1}}` {
		t.Fatalf("expected cached body, got %q", rr.Body.String())
	}
}

func TestIdempotencyMiddleware_CachesSuccessfulResponses(t *testing.T) {
	var stored []byte
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			stored = response
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-2")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	})).ServeHTTP(rr, req)

	if string(stored) != `{"ok":true}` {
		t.Fatalf("expected response to be cached, got %q", stored)
	}
}

func TestIdempotencyMiddleware_DoesNotCacheFailedResponses(t *testing.T) {
	var updated bool
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updated = true
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-fail")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})).ServeHTTP(rr, req)

	if updated {
		t.Fatalf("expected error responses not to be cached")
	}
}

func TestIdempotencyMiddleware_IgnoresStoreErrors(t *testing.T) {
	var called bool
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return false, nil, context.DeadlineExceeded
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-err")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if called {
		t.Fatalf("handler should not be called when store errors")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_SkipsRequestsWithoutKey(t *testing.T) {
	var checked bool
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			checked = true
			return false, nil, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Minute)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/balance", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(`{}`)),
	} {
		rr := httptest.NewRecorder()
		called := false

		mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})).ServeHTTP(rr, req)

		if !called {
			t.Fatalf("expected handler to run for %s without key", req.Method)
		}
	}

	if checked {
		t.Fatalf("store should not be consulted without a key")
	}
}
