package persistence

import (
	"context"
	"fmt"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
)

// seriesSource is the one question a document repository answers for
// numbering: the highest serial already issued in a scope.
type seriesSource interface {
	MaxSequenceNo(ctx context.Context, scope sequence.Scope) (int, error)
}

// SequenceAllocator implements sequence.Allocator over the issued-document
// tables. There is no counter row: the next number is max(sequence_no)+1
// among the rows already inserted in the scope, and uniqueness is enforced
// by the scope index at insert time, not here.
type SequenceAllocator struct {
	sources map[sequence.SeriesKind]seriesSource
}

// NewSequenceAllocator builds the allocator over one source per series kind
func NewSequenceAllocator(invoices, preInvoices, manifests seriesSource) *SequenceAllocator {
	return &SequenceAllocator{
		sources: map[sequence.SeriesKind]seriesSource{
			sequence.SeriesKindInvoice:    invoices,
			sequence.SeriesKindPreInvoice: preInvoices,
			sequence.SeriesKindManifest:   manifests,
		},
	}
}

// Next proposes the next serial for the scope
func (a *SequenceAllocator) Next(ctx context.Context, scope sequence.Scope) (int, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}
	source, ok := a.sources[scope.Kind]
	if !ok {
		return 0, fmt.Errorf("no numbering source for series kind %q", scope.Kind)
	}
	max, err := source.MaxSequenceNo(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s sequence: %w", scope.Kind, err)
	}
	return max + 1, nil
}

// Ensure SequenceAllocator implements sequence.Allocator
var _ sequence.Allocator = (*SequenceAllocator)(nil)
