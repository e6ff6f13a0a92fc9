package order

import (
	"context"
	"time"
)

type Repository interface {
	// Insert creates an order and assigns the next sequential id, the
	// way the backing store's auto-increment would.
	Insert(ctx context.Context, buyerEmail string, at time.Time) (*Order, error)

	Get(ctx context.Context, id int64) (*Order, error)

	// ListByBuyer returns the buyer's orders newest first (OrderDate
	// descending, then ID descending).
	ListByBuyer(ctx context.Context, buyerEmail string) ([]*Order, error)

	// AddLine appends a line to an existing order. The caller is
	// responsible for having reserved the stock first.
	AddLine(ctx context.Context, line Line) error

	Lines(ctx context.Context, orderID int64) ([]Line, error)

	// ProductHasOrders reports whether any order line references the
	// product. A referenced product must never be deleted.
	ProductHasOrders(ctx context.Context, productID string) (bool, error)
}
