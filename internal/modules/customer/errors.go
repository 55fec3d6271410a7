package customer

import "errors"

// ErrNotFound is returned when a customer id does not resolve.
var ErrNotFound = errors.New("customer not found")
