package memory

import (
	"context"
	"sync"

	domain "github.com/campusbazaar/marketplace/internal/domain/payment"
)

// ChallengeStore is the process-wide OTP challenge table. It is memory
// only: a restart silently discards every outstanding challenge, which is
// a documented property of the payment flow, not an accident.
//
// Challenges are held by pointer and compared by identity in Evict, so a
// verify that validated a particular challenge cannot delete a newer one
// that a concurrent resend stored in the meantime.
type ChallengeStore struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Challenge
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{
		byEmail: make(map[string]*domain.Challenge),
	}
}

func (s *ChallengeStore) Put(ctx context.Context, challenge *domain.Challenge) {
	_ = ctx
	if challenge == nil || challenge.BuyerEmail == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byEmail[challenge.BuyerEmail] = challenge
}

func (s *ChallengeStore) Get(ctx context.Context, buyerEmail string) (*domain.Challenge, bool) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.byEmail[buyerEmail]
	return challenge, ok
}

func (s *ChallengeStore) Evict(ctx context.Context, challenge *domain.Challenge) bool {
	_ = ctx
	if challenge == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byEmail[challenge.BuyerEmail] != challenge {
		return false
	}
	delete(s.byEmail, challenge.BuyerEmail)
	return true
}
