package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/campusbazaar/marketplace/internal/domain/listing"
)

// ListingRepository keeps listings grouped by product so that aggregate
// stock checks and multi-seller withdrawals run under a single lock.
type ListingRepository struct {
	mu        sync.RWMutex
	byProduct map[string]map[string]*domain.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		byProduct: make(map[string]map[string]*domain.Listing),
	}
}

func (r *ListingRepository) Get(ctx context.Context, sellerEmail, productID string) (*domain.Listing, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byProduct[productID][sellerEmail]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneListing(l), nil
}

func (r *ListingRepository) Add(ctx context.Context, sellerEmail, productID string, qty int) (*domain.Listing, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	sellers, ok := r.byProduct[productID]
	if !ok {
		sellers = make(map[string]*domain.Listing)
		r.byProduct[productID] = sellers
	}

	l, ok := sellers[sellerEmail]
	if !ok {
		l = &domain.Listing{SellerEmail: sellerEmail, ProductID: productID}
		sellers[sellerEmail] = l
	}
	l.Stock += qty
	l.UpdatedAt = time.Now().UTC()
	return cloneListing(l), nil
}

func (r *ListingRepository) SetStock(ctx context.Context, sellerEmail, productID string, stock int) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byProduct[productID][sellerEmail]
	if !ok {
		return domain.ErrNotFound
	}
	l.Stock = stock
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, sellerEmail, productID string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	sellers := r.byProduct[productID]
	if _, ok := sellers[sellerEmail]; !ok {
		return domain.ErrNotFound
	}
	delete(sellers, sellerEmail)
	if len(sellers) == 0 {
		delete(r.byProduct, productID)
	}
	return nil
}

func (r *ListingRepository) CountByProduct(ctx context.Context, productID string) (int, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byProduct[productID]), nil
}

// Reserve withdraws qty units across the product's listings inside one
// critical section. Sellers are drained in ascending email order; each
// listing is emptied before the next seller is debited. On failure no
// stock is touched.
func (r *ListingRepository) Reserve(ctx context.Context, productID string, qty int) error {
	_ = ctx
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sellers := r.byProduct[productID]
	if len(sellers) == 0 {
		return domain.ErrProductUnavailable
	}

	total := 0
	emails := make([]string, 0, len(sellers))
	for email, l := range sellers {
		total += l.Stock
		emails = append(emails, email)
	}
	if total < qty {
		return domain.ErrInsufficientStock
	}
	sort.Strings(emails)

	now := time.Now().UTC()
	remaining := qty
	for _, email := range emails {
		if remaining == 0 {
			break
		}
		l := sellers[email]
		take := l.Stock
		if take > remaining {
			take = remaining
		}
		l.Stock -= take
		l.UpdatedAt = now
		remaining -= take
	}
	return nil
}

func cloneListing(l *domain.Listing) *domain.Listing {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}
