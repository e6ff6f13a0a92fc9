package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("catalog: product not found")
	ErrDuplicateID  = errors.New("catalog: product id already exists")
	ErrInvalidName  = errors.New("catalog: product name is required")
	ErrInvalidPrice = errors.New("catalog: price must be zero or greater")
	ErrIDExhausted  = errors.New("catalog: failed to generate unique product id")
)

type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
}

func New(id, name, description string, price decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// NewID generates a product id of the form PROD<unix-ms><8-char-random>.
// Uniqueness is probabilistic; callers collision-check against the store.
func NewID() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("PROD%d%s", time.Now().UnixMilli(), suffix)
}
