package product

import "context"

// Repository defines data access for products and their stock.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]*Product, int, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error

	// GetForSale returns the pricing/stock snapshot the sale workflow needs.
	GetForSale(ctx context.Context, id string) (*SaleInfo, error)

	// Reserve decrements stock by qty only if the current stock covers it,
	// as a single conditional update. Returns the new stock level, or
	// ErrInsufficientStock when the floor check fails.
	Reserve(ctx context.Context, id string, qty int) (int, error)

	// Release is the compensating increment for Reserve.
	Release(ctx context.Context, id string, qty int) (int, error)

	// AdjustStock applies a signed delta with the same non-negative floor.
	AdjustStock(ctx context.Context, id string, delta int) (int, error)

	ListLowStock(ctx context.Context) ([]*Product, error)
	InventoryValue(ctx context.Context) (*InventoryValue, error)

	// SetImage records the stored photo filename for a product.
	SetImage(ctx context.Context, id string, image string) error
}
