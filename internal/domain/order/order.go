package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrInvalidBuyer    = errors.New("order: buyer email is required")
	ErrInvalidQuantity = errors.New("order: quantity must be greater than zero")
)

// Order is a buyer's order header. Orders are created once and never
// edited or cancelled; lines are appended through the inventory ledger.
type Order struct {
	ID         int64
	BuyerEmail string
	OrderDate  time.Time
}

// Line is one product entry within an order.
type Line struct {
	OrderID   int64
	ProductID string
	Quantity  int
}
