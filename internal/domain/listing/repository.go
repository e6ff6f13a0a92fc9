package listing

import "context"

type Repository interface {
	Get(ctx context.Context, sellerEmail, productID string) (*Listing, error)

	// Add accumulates: an existing listing grows by qty, a missing one is
	// created with Stock = qty.
	Add(ctx context.Context, sellerEmail, productID string, qty int) (*Listing, error)

	// SetStock overwrites the stock level. It never creates a listing.
	SetStock(ctx context.Context, sellerEmail, productID string, stock int) error

	Delete(ctx context.Context, sellerEmail, productID string) error

	CountByProduct(ctx context.Context, productID string) (int, error)

	// Reserve atomically withdraws qty units of productID across all of
	// its listings, draining sellers in ascending email order. It fails
	// with ErrProductUnavailable when nobody lists the product and with
	// ErrInsufficientStock when the aggregate stock is short; on failure
	// no listing is touched.
	Reserve(ctx context.Context, productID string, qty int) error
}
