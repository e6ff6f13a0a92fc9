package memory

import (
	"context"
	"testing"
	"time"

	domain "github.com/campusbazaar/marketplace/internal/domain/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func challenge(email, code string) *domain.Challenge {
	return &domain.Challenge{
		BuyerEmail: email,
		Code:       code,
		OrderID:    1,
		Amount:     decimal.NewFromInt(100),
		ExpiresAt:  time.Now().Add(5 * time.Minute),
	}
}

func TestChallengeStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewChallengeStore()

	first := challenge("a@x.com", "111111")
	store.Put(ctx, first)

	second := challenge("a@x.com", "222222")
	store.Put(ctx, second)

	got, ok := store.Get(ctx, "a@x.com")
	require.True(t, ok)
	require.Same(t, second, got)
}

func TestChallengeStoreEvictByIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewChallengeStore()

	first := challenge("a@x.com", "111111")
	store.Put(ctx, first)

	// A resend replaces the record; evicting the superseded one is a no-op.
	second := challenge("a@x.com", "222222")
	store.Put(ctx, second)
	require.False(t, store.Evict(ctx, first))

	_, ok := store.Get(ctx, "a@x.com")
	require.True(t, ok)

	require.True(t, store.Evict(ctx, second))
	_, ok = store.Get(ctx, "a@x.com")
	require.False(t, ok)

	require.False(t, store.Evict(ctx, second))
}
