package product

import "errors"

var (
	// ErrNotFound is returned when a product id does not resolve.
	ErrNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned when a reservation or adjustment
	// would take stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned for non-positive reservation quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)
