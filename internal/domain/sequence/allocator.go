package sequence

import (
	"context"
	"fmt"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
)

// MaxAllocationRetries bounds the create-retry loop used by callers that
// insert under a uniqueness constraint (manifest numbering). Invoice
// numbering does not retry per group; a violation fails the whole batch.
const MaxAllocationRetries = 5

// Allocator issues the next number in a scoped series. There is no counter
// document: implementations derive max(number)+1 from the documents already
// issued in the scope, and correctness of "unique and increasing" rests on
// the store rejecting a duplicate (scope..., number) at insert time.
type Allocator interface {
	// Next proposes the next number for the scope. The proposal is only
	// final once the caller's insert succeeds; a rejected insert must be
	// followed by a fresh Next call.
	Next(ctx context.Context, scope Scope) (int, error)
}

// ContentionError reports that the bounded retry budget was exhausted while
// competing for numbers in a scope. It is retryable by the caller; it must
// never be downgraded to a best-effort number.
type ContentionError struct {
	Scope    Scope
	Attempts int
}

// Error implements the error interface
func (e *ContentionError) Error() string {
	return fmt.Sprintf("sequence allocation contention in scope %s after %d attempts", e.Scope.Key(), e.Attempts)
}

// Unwrap lets errors.Is match the shared sentinel
func (e *ContentionError) Unwrap() error {
	return shared.ErrAllocationContention
}

// NewContentionError creates a ContentionError for the scope
func NewContentionError(scope Scope, attempts int) *ContentionError {
	return &ContentionError{Scope: scope, Attempts: attempts}
}
