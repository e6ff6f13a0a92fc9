package catalog

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/campusbazaar/marketplace/internal/domain/catalog"
	"github.com/campusbazaar/marketplace/internal/pkg/logging"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxIDAttempts bounds regeneration when a generated product id collides.
const maxIDAttempts = 5

type Service struct {
	products domain.Repository
}

func NewService(products domain.Repository) *Service {
	return &Service{products: products}
}

type AddProductInput struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}

type AddProductResult struct {
	ProductID string
}

// AddProduct registers a product. A missing id is generated and
// collision-checked against the store; a caller-supplied id that already
// exists fails with ErrDuplicateID rather than being replaced.
func (s *Service) AddProduct(ctx context.Context, input AddProductInput) (*AddProductResult, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "catalog_service"))

	generated := input.ID == ""
	pid := input.ID
	if generated {
		pid = domain.NewID()
	}

	for attempt := 0; ; attempt++ {
		_, err := s.products.Get(ctx, pid)
		if errors.Is(err, domain.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: lookup %s: %w", pid, err)
		}
		if !generated {
			return nil, domain.ErrDuplicateID
		}
		if attempt == maxIDAttempts-1 {
			logger.Error("product_id_generation_exhausted", zap.Int("attempts", maxIDAttempts))
			return nil, domain.ErrIDExhausted
		}
		pid = domain.NewID()
	}

	entity, err := domain.New(pid, input.Name, input.Description, input.Price)
	if err != nil {
		return nil, err
	}
	if err := s.products.Insert(ctx, entity); err != nil {
		return nil, err
	}

	logger.Info("product_added",
		zap.String("pid", pid),
		zap.Bool("generated_id", generated),
	)
	return &AddProductResult{ProductID: pid}, nil
}
