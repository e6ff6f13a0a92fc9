package listing

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("listing: not found")
	ErrInvalidQuantity    = errors.New("listing: quantity must be greater than zero")
	ErrNegativeStock      = errors.New("listing: stock must be zero or greater")
	ErrUnknownProduct     = errors.New("listing: product does not exist")
	ErrInsufficientStock  = errors.New("listing: insufficient stock")
	ErrProductUnavailable = errors.New("listing: product not available from any seller")
)

// Listing is one seller's inventory entry for a product. Sellers are
// independent stock sources for the same product.
type Listing struct {
	SellerEmail string
	ProductID   string
	Stock       int
	UpdatedAt   time.Time
}

// RemoveOutcome describes the fate of the product row after a listing
// removal. Both flags false means the product survived because other
// sellers still list it (or its row was already gone).
type RemoveOutcome struct {
	ProductDeleted  bool
	HasOrderHistory bool
}
