package sale

import (
	"context"
	"time"
)

// Repository defines data access for sales and the invoice counter.
type Repository interface {
	// CreateSale persists a sale and its items atomically in a transaction.
	CreateSale(ctx context.Context, s *Sale) error

	// GetByID retrieves a sale with its customer block and per-item product
	// name/model resolved for display and invoice rendering.
	GetByID(ctx context.Context, id string) (*Sale, error)

	// List returns resolved sales matching the filter, newest first, plus
	// the unpaged total.
	List(ctx context.Context, filter ListFilter) ([]*Sale, int, error)

	// NextInvoiceSeq atomically allocates the next sequence for the given
	// YYYYMMDD day. Two concurrent calls for one day never return the same
	// value; abandoned values are never reused.
	NextInvoiceSeq(ctx context.Context, day string) (int, error)

	// Report aggregates sales between since and until inclusive.
	Report(ctx context.Context, since, until time.Time) (*Report, error)
}
