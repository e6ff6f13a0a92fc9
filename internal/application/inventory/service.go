package inventory

import (
	"context"
	"errors"
	"fmt"

	domcatalog "github.com/campusbazaar/marketplace/internal/domain/catalog"
	domain "github.com/campusbazaar/marketplace/internal/domain/listing"
	domorder "github.com/campusbazaar/marketplace/internal/domain/order"
	"github.com/campusbazaar/marketplace/internal/pkg/logging"
	"go.uber.org/zap"
)

// Service is the inventory ledger: it owns every mutation of listing
// stock and the product lifecycle tied to it.
type Service struct {
	listings domain.Repository
	products domcatalog.Repository
	orders   domorder.Repository
}

func NewService(listings domain.Repository, products domcatalog.Repository, orders domorder.Repository) *Service {
	return &Service{
		listings: listings,
		products: products,
		orders:   orders,
	}
}

// AddListing accumulates stock for a seller's listing, creating it on
// first use. Calling twice adds twice; this is not duplicate suppression.
func (s *Service) AddListing(ctx context.Context, sellerEmail, productID string, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		if errors.Is(err, domcatalog.ErrNotFound) {
			return domain.ErrUnknownProduct
		}
		return fmt.Errorf("inventory: product lookup: %w", err)
	}

	l, err := s.listings.Add(ctx, sellerEmail, productID, qty)
	if err != nil {
		return fmt.Errorf("inventory: add listing: %w", err)
	}

	logging.FromContext(ctx).Info("listing_added",
		zap.String("seller", sellerEmail),
		zap.String("pid", productID),
		zap.Int("qty", qty),
		zap.Int("stock", l.Stock),
	)
	return nil
}

// UpdateListing overwrites the stock level of an existing listing.
func (s *Service) UpdateListing(ctx context.Context, sellerEmail, productID string, stock int) error {
	if stock < 0 {
		return domain.ErrNegativeStock
	}
	if err := s.listings.SetStock(ctx, sellerEmail, productID, stock); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("listing_updated",
		zap.String("seller", sellerEmail),
		zap.String("pid", productID),
		zap.Int("stock", stock),
	)
	return nil
}

// RemoveListing deletes a seller's listing and runs the orphan check:
// when no seller lists the product anymore it is deleted, unless order
// history pins it. Under concurrent removals of the last two listings the
// orphan check may read a stale count; the outcome is still one of the
// documented three, just possibly reported by the other remover.
func (s *Service) RemoveListing(ctx context.Context, sellerEmail, productID string) (domain.RemoveOutcome, error) {
	logger := logging.FromContext(ctx).With(
		zap.String("seller", sellerEmail),
		zap.String("pid", productID),
	)

	if err := s.listings.Delete(ctx, sellerEmail, productID); err != nil {
		return domain.RemoveOutcome{}, err
	}

	remaining, err := s.listings.CountByProduct(ctx, productID)
	if err != nil {
		return domain.RemoveOutcome{}, fmt.Errorf("inventory: count listings: %w", err)
	}
	if remaining > 0 {
		logger.Info("listing_removed")
		return domain.RemoveOutcome{}, nil
	}

	hasOrders, err := s.orders.ProductHasOrders(ctx, productID)
	if err != nil {
		return domain.RemoveOutcome{}, fmt.Errorf("inventory: order history check: %w", err)
	}
	if hasOrders {
		logger.Info("listing_removed_product_retained")
		return domain.RemoveOutcome{HasOrderHistory: true}, nil
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		if errors.Is(err, domcatalog.ErrNotFound) {
			// Another remover already deleted the orphan.
			logger.Info("listing_removed")
			return domain.RemoveOutcome{}, nil
		}
		return domain.RemoveOutcome{}, fmt.Errorf("inventory: delete orphan product: %w", err)
	}

	logger.Info("listing_removed_product_deleted")
	return domain.RemoveOutcome{ProductDeleted: true}, nil
}

// PlaceOrderLine admits a line into an order after atomically reserving
// its quantity from the product's listings. A failed reservation leaves
// aggregate stock untouched and no line is written.
func (s *Service) PlaceOrderLine(ctx context.Context, orderID int64, productID string, qty int) error {
	if qty <= 0 {
		return domorder.ErrInvalidQuantity
	}
	if _, err := s.orders.Get(ctx, orderID); err != nil {
		return err
	}
	if err := s.listings.Reserve(ctx, productID, qty); err != nil {
		return err
	}
	if err := s.orders.AddLine(ctx, domorder.Line{OrderID: orderID, ProductID: productID, Quantity: qty}); err != nil {
		// Orders are immutable once created, so the order cannot have
		// vanished between Get and AddLine.
		return fmt.Errorf("inventory: add order line: %w", err)
	}

	logging.FromContext(ctx).Info("order_line_placed",
		zap.Int64("order_id", orderID),
		zap.String("pid", productID),
		zap.Int("qty", qty),
	)
	return nil
}
