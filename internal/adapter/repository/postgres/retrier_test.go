package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func fastRetrier(maxRetries int) *Retrier {
	r := NewRetrier()
	r.maxRetries = maxRetries
	r.initialInterval = time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 20 * time.Millisecond
	return r
}

func TestRetrierRecoversFromSerializationFailure(t *testing.T) {
	r := fastRetrier(2)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierGivesUpAfterBudget(t *testing.T) {
	r := fastRetrier(1)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: "40P01"}
	})

	if err == nil {
		t.Fatalf("expected error once the retry budget is spent")
	}
	if attempts != 2 {
		t.Fatalf("expected initial attempt plus one retry, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := fastRetrier(3)

	attempts := 0
	permanent := errors.New("relation does not exist")
	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestIsRetryableError(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "57P03"} {
		if !isRetryableError(&pgconn.PgError{Code: code}) {
			t.Fatalf("expected code %s to be retryable", code)
		}
	}
	if isRetryableError(&pgconn.PgError{Code: "42P01"}) {
		t.Fatalf("undefined_table must not be retried")
	}
	if isRetryableError(errors.New("other")) {
		t.Fatalf("generic errors must not be retried")
	}
}
