package inventory_test

import (
	"context"
	"testing"
	"time"

	appcatalog "github.com/campusbazaar/marketplace/internal/application/catalog"
	"github.com/campusbazaar/marketplace/internal/application/inventory"
	domlisting "github.com/campusbazaar/marketplace/internal/domain/listing"
	domorder "github.com/campusbazaar/marketplace/internal/domain/order"
	"github.com/campusbazaar/marketplace/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	products *memory.ProductRepository
	listings *memory.ListingRepository
	orders   *memory.OrderRepository
	svc      *inventory.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		products: memory.NewProductRepository(),
		listings: memory.NewListingRepository(),
		orders:   memory.NewOrderRepository(),
	}
	f.svc = inventory.NewService(f.listings, f.products, f.orders)
	return f
}

func (f *fixture) addProduct(t *testing.T, pid string, price int64) {
	t.Helper()
	catalogSvc := appcatalog.NewService(f.products)
	_, err := catalogSvc.AddProduct(context.Background(), appcatalog.AddProductInput{
		ID:    pid,
		Name:  "Item " + pid,
		Price: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
}

func TestAddListing(t *testing.T) {
	ctx := context.Background()

	t.Run("Accumulates", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "PROD1", 100)

		require.NoError(t, f.svc.AddListing(ctx, "s@x.com", "PROD1", 3))
		require.NoError(t, f.svc.AddListing(ctx, "s@x.com", "PROD1", 4))

		l, err := f.listings.Get(ctx, "s@x.com", "PROD1")
		require.NoError(t, err)
		require.Equal(t, 7, l.Stock)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.AddListing(ctx, "s@x.com", "NOPE", 3)
		require.ErrorIs(t, err, domlisting.ErrUnknownProduct)
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "PROD1", 100)
		require.ErrorIs(t, f.svc.AddListing(ctx, "s@x.com", "PROD1", 0), domlisting.ErrInvalidQuantity)
		require.ErrorIs(t, f.svc.AddListing(ctx, "s@x.com", "PROD1", -2), domlisting.ErrInvalidQuantity)
	})
}

func TestUpdateListing(t *testing.T) {
	ctx := context.Background()

	t.Run("AbsoluteSet", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "PROD1", 100)
		require.NoError(t, f.svc.AddListing(ctx, "s@x.com", "PROD1", 3))

		require.NoError(t, f.svc.UpdateListing(ctx, "s@x.com", "PROD1", 10))
		l, err := f.listings.Get(ctx, "s@x.com", "PROD1")
		require.NoError(t, err)
		require.Equal(t, 10, l.Stock)
	})

	t.Run("NoImplicitCreate", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.UpdateListing(ctx, "s@x.com", "PROD1", 5)
		require.ErrorIs(t, err, domlisting.ErrNotFound)
	})

	t.Run("NegativeStock", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.UpdateListing(ctx, "s@x.com", "PROD1", -1)
		require.ErrorIs(t, err, domlisting.ErrNegativeStock)
	})
}

func TestRemoveListing(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RemoveListing(ctx, "s@x.com", "PROD1")
		require.ErrorIs(t, err, domlisting.ErrNotFound)
	})

	t.Run("OtherSellersRemain", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "PROD1", 100)
		require.NoError(t, f.svc.AddListing(ctx, "a@x.com", "PROD1", 3))
		require.NoError(t, f.svc.AddListing(ctx, "b@x.com", "PROD1", 3))

		outcome, err := f.svc.RemoveListing(ctx, "a@x.com", "PROD1")
		require.NoError(t, err)
		require.False(t, outcome.ProductDeleted)
		require.False(t, outcome.HasOrderHistory)

		_, err = f.products.Get(ctx, "PROD1")
		require.NoError(t, err)
	})

	t.Run("LastListingNoHistoryDeletesProduct", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "PROD100", 100)
		require.NoError(t, f.svc.AddListing(ctx, "a@x.com", "PROD100", 3))

		outcome, err := f.svc.RemoveListing(ctx, "a@x.com", "PROD100")
		require.NoError(t, err)
		require.True(t, outcome.ProductDeleted)
		require.False(t, outcome.HasOrderHistory)

		_, err = f.products.Get(ctx, "PROD100")
		require.Error(t, err)
	})

	t.Run("LastListingWithHistoryRetainsProduct", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "PROD200", 100)
		require.NoError(t, f.svc.AddListing(ctx, "a@x.com", "PROD200", 3))

		order, err := f.orders.Insert(ctx, "buyer@x.com", time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, f.svc.PlaceOrderLine(ctx, order.ID, "PROD200", 1))

		outcome, err := f.svc.RemoveListing(ctx, "a@x.com", "PROD200")
		require.NoError(t, err)
		require.False(t, outcome.ProductDeleted)
		require.True(t, outcome.HasOrderHistory)

		_, err = f.products.Get(ctx, "PROD200")
		require.NoError(t, err)
	})
}

func TestPlaceOrderLine(t *testing.T) {
	ctx := context.Background()

	t.Run("OrderNotFound", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "PROD1", 100)
		require.NoError(t, f.svc.AddListing(ctx, "a@x.com", "PROD1", 5))

		err := f.svc.PlaceOrderLine(ctx, 42, "PROD1", 1)
		require.ErrorIs(t, err, domorder.ErrNotFound)
	})

	t.Run("ProductUnavailable", func(t *testing.T) {
		f := newFixture(t)
		order, err := f.orders.Insert(ctx, "buyer@x.com", time.Now().UTC())
		require.NoError(t, err)

		err = f.svc.PlaceOrderLine(ctx, order.ID, "PROD1", 1)
		require.ErrorIs(t, err, domlisting.ErrProductUnavailable)
	})

	t.Run("InsufficientStockNoPartialDecrement", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "PROD1", 100)
		require.NoError(t, f.svc.AddListing(ctx, "a@x.com", "PROD1", 2))
		require.NoError(t, f.svc.AddListing(ctx, "b@x.com", "PROD1", 3))

		order, err := f.orders.Insert(ctx, "buyer@x.com", time.Now().UTC())
		require.NoError(t, err)

		err = f.svc.PlaceOrderLine(ctx, order.ID, "PROD1", 6)
		require.ErrorIs(t, err, domlisting.ErrInsufficientStock)

		a, err := f.listings.Get(ctx, "a@x.com", "PROD1")
		require.NoError(t, err)
		b, err := f.listings.Get(ctx, "b@x.com", "PROD1")
		require.NoError(t, err)
		require.Equal(t, 5, a.Stock+b.Stock)

		lines, err := f.orders.Lines(ctx, order.ID)
		require.NoError(t, err)
		require.Empty(t, lines)
	})

	t.Run("SuccessDecrementsAcrossSellers", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "PROD1", 100)
		require.NoError(t, f.svc.AddListing(ctx, "a@x.com", "PROD1", 2))
		require.NoError(t, f.svc.AddListing(ctx, "b@x.com", "PROD1", 3))

		order, err := f.orders.Insert(ctx, "buyer@x.com", time.Now().UTC())
		require.NoError(t, err)

		require.NoError(t, f.svc.PlaceOrderLine(ctx, order.ID, "PROD1", 4))

		a, err := f.listings.Get(ctx, "a@x.com", "PROD1")
		require.NoError(t, err)
		require.Zero(t, a.Stock)
		b, err := f.listings.Get(ctx, "b@x.com", "PROD1")
		require.NoError(t, err)
		require.Equal(t, 1, b.Stock)

		lines, err := f.orders.Lines(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		require.Equal(t, 4, lines[0].Quantity)
	})
}
