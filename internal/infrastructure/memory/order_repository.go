package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/campusbazaar/marketplace/internal/domain/order"
)

type OrderRepository struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]*domain.Order
	lines  map[int64][]domain.Line
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		nextID: 1,
		orders: make(map[int64]*domain.Order),
		lines:  make(map[int64][]domain.Line),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, buyerEmail string, at time.Time) (*domain.Order, error) {
	_ = ctx
	if buyerEmail == "" {
		return nil, domain.ErrInvalidBuyer
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order := &domain.Order{
		ID:         r.nextID,
		BuyerEmail: buyerEmail,
		OrderDate:  at,
	}
	r.nextID++
	r.orders[order.ID] = cloneOrder(order)
	return order, nil
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerEmail string) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*domain.Order
	for _, order := range r.orders {
		if order.BuyerEmail == buyerEmail {
			orders = append(orders, cloneOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].OrderDate.After(orders[j].OrderDate)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

func (r *OrderRepository) AddLine(ctx context.Context, line domain.Line) error {
	_ = ctx
	if line.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[line.OrderID]; !ok {
		return domain.ErrNotFound
	}
	r.lines[line.OrderID] = append(r.lines[line.OrderID], line)
	return nil
}

func (r *OrderRepository) Lines(ctx context.Context, orderID int64) ([]domain.Line, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := r.lines[orderID]
	out := make([]domain.Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (r *OrderRepository) ProductHasOrders(ctx context.Context, productID string) (bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, lines := range r.lines {
		for _, line := range lines {
			if line.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	if order == nil {
		return nil
	}
	clone := *order
	return &clone
}
