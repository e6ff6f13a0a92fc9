package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	domcatalog "github.com/campusbazaar/marketplace/internal/domain/catalog"
	domain "github.com/campusbazaar/marketplace/internal/domain/order"
	"github.com/campusbazaar/marketplace/internal/pkg/logging"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service creates orders and assembles their read-side views.
type Service struct {
	orders   domain.Repository
	products domcatalog.Repository
}

func NewService(orders domain.Repository, products domcatalog.Repository) *Service {
	return &Service{orders: orders, products: products}
}

// Item is one order line joined to its product at read time.
type Item struct {
	ProductID   string          `json:"pid"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// View is an order enriched with its items and total. Prices are not
// snapshotted at order time: the total is recomputed from the current
// catalog price and drifts when a price changes after ordering.
type View struct {
	OrderID    int64           `json:"order_id"`
	BuyerEmail string          `json:"email"`
	OrderDate  time.Time       `json:"order_date"`
	Items      []Item          `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

func (s *Service) CreateOrder(ctx context.Context, buyerEmail string) (*domain.Order, error) {
	if buyerEmail == "" {
		return nil, domain.ErrInvalidBuyer
	}
	order, err := s.orders.Insert(ctx, buyerEmail, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("order: insert: %w", err)
	}

	logging.FromContext(ctx).Info("order_created",
		zap.Int64("order_id", order.ID),
		zap.String("buyer", buyerEmail),
	)
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*View, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, order)
}

// GetUserOrders returns the buyer's enriched orders newest first.
func (s *Service) GetUserOrders(ctx context.Context, buyerEmail string) ([]*View, error) {
	orders, err := s.orders.ListByBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, fmt.Errorf("order: list by buyer: %w", err)
	}
	views := make([]*View, 0, len(orders))
	for _, order := range orders {
		view, err := s.view(ctx, order)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Total returns the order's recomputed total.
func (s *Service) Total(ctx context.Context, id int64) (decimal.Decimal, error) {
	view, err := s.GetOrder(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return view.Total, nil
}

func (s *Service) view(ctx context.Context, order *domain.Order) (*View, error) {
	lines, err := s.orders.Lines(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("order: lines: %w", err)
	}

	view := &View{
		OrderID:    order.ID,
		BuyerEmail: order.BuyerEmail,
		OrderDate:  order.OrderDate,
		Items:      make([]Item, 0, len(lines)),
		Total:      decimal.Zero,
	}
	for _, line := range lines {
		product, err := s.products.Get(ctx, line.ProductID)
		if errors.Is(err, domcatalog.ErrNotFound) {
			// Join semantics: a line whose product row is gone is not
			// shown. Order history normally pins the product row, so
			// this branch should stay cold.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("order: product %s: %w", line.ProductID, err)
		}
		view.Items = append(view.Items, Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			Description: product.Description,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
		view.Total = view.Total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return view, nil
}
