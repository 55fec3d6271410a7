package customer

import "context"

// Repository defines data access for customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, filter ListFilter) ([]*Customer, int, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) error

	// Search matches name, phone or email, case-insensitively.
	Search(ctx context.Context, query string) ([]*Customer, error)

	// ListSales returns the customer's past sales, newest first.
	ListSales(ctx context.Context, customerID string) ([]SaleSummary, error)
}
