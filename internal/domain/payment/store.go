package payment

import "context"

// Store keeps at most one challenge per buyer email. Put unconditionally
// replaces any existing challenge for that buyer, invalidating it for
// verification. Stored challenges are compared by identity in Evict, so
// callers must treat a challenge as immutable once put.
type Store interface {
	Put(ctx context.Context, challenge *Challenge)

	Get(ctx context.Context, buyerEmail string) (*Challenge, bool)

	// Evict removes the buyer's challenge only if it is still the exact
	// one given, reporting whether a delete happened. This lets Verify
	// consume the record it validated without racing a concurrent
	// replacement.
	Evict(ctx context.Context, challenge *Challenge) bool
}
