package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	apporder "github.com/campusbazaar/marketplace/internal/application/order"
	domnotify "github.com/campusbazaar/marketplace/internal/domain/notify"
	domorder "github.com/campusbazaar/marketplace/internal/domain/order"
	domain "github.com/campusbazaar/marketplace/internal/domain/payment"
	"github.com/campusbazaar/marketplace/internal/pkg/logging"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultTTL = 5 * time.Minute

// Service is the payment confirmation state machine. A buyer moves from
// no-challenge to pending on Initiate/Resend and out of pending on a
// successful Verify or on expiry; verified means paid, there is no
// gateway behind this.
type Service struct {
	orders     domorder.Repository
	aggregator *apporder.Service
	challenges domain.Store
	dispatcher domnotify.Dispatcher
	ttl        time.Duration

	mu     sync.Mutex
	random *rand.Rand

	now func() time.Time
}

func NewService(
	orders domorder.Repository,
	aggregator *apporder.Service,
	challenges domain.Store,
	dispatcher domnotify.Dispatcher,
	ttl time.Duration,
) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		orders:     orders,
		aggregator: aggregator,
		challenges: challenges,
		dispatcher: dispatcher,
		ttl:        ttl,
		random:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
	}
}

type InitiateResult struct {
	Email     string
	ExpiresIn int
}

// Initiate issues a fresh challenge for the buyer's order and queues the
// code mail. Any prior challenge for the buyer is superseded. The code is
// never returned to the caller.
func (s *Service) Initiate(ctx context.Context, buyerEmail string, amount decimal.Decimal, orderID int64) (*InitiateResult, error) {
	order, err := s.ownedOrder(ctx, buyerEmail, orderID)
	if err != nil {
		return nil, err
	}

	challenge := s.issue(ctx, order.BuyerEmail, orderID, amount)
	s.dispatcher.Enqueue(ctx, otpMessage(challenge, s.ttl, false))

	logging.FromContext(ctx).Info("otp_issued",
		zap.String("buyer", order.BuyerEmail),
		zap.Int64("order_id", orderID),
	)
	return &InitiateResult{Email: order.BuyerEmail, ExpiresIn: int(s.ttl.Seconds())}, nil
}

// Resend issues a fresh challenge with the amount recomputed from the
// order's current total, replacing any pending challenge. A price change
// between Initiate and Resend silently changes the amount.
func (s *Service) Resend(ctx context.Context, buyerEmail string, orderID int64) (*InitiateResult, error) {
	order, err := s.ownedOrder(ctx, buyerEmail, orderID)
	if err != nil {
		return nil, err
	}

	amount, err := s.aggregator.Total(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("payment: recompute total: %w", err)
	}

	challenge := s.issue(ctx, order.BuyerEmail, orderID, amount)
	s.dispatcher.Enqueue(ctx, otpMessage(challenge, s.ttl, true))

	logging.FromContext(ctx).Info("otp_resent",
		zap.String("buyer", order.BuyerEmail),
		zap.Int64("order_id", orderID),
	)
	return &InitiateResult{Email: order.BuyerEmail, ExpiresIn: int(s.ttl.Seconds())}, nil
}

type VerifyResult struct {
	OrderID int64
	Amount  decimal.Decimal
	Status  string
}

// Verify consumes the buyer's pending challenge. The record is deleted
// with compare-and-delete: if a concurrent resend replaced it after this
// verify read it, nothing is consumed and the caller is told there is no
// active challenge. A successful verify is single-use.
func (s *Service) Verify(ctx context.Context, buyerEmail, code string, orderID int64) (*VerifyResult, error) {
	logger := logging.FromContext(ctx).With(
		zap.String("buyer", buyerEmail),
		zap.Int64("order_id", orderID),
	)

	challenge, ok := s.challenges.Get(ctx, buyerEmail)
	if !ok {
		return nil, domain.ErrNoChallenge
	}
	if challenge.IsExpired(s.now()) {
		s.challenges.Evict(ctx, challenge)
		logger.Info("otp_expired")
		return nil, domain.ErrExpired
	}
	if challenge.OrderID != orderID {
		return nil, domain.ErrOrderMismatch
	}
	if challenge.Code != code {
		logger.Info("otp_code_mismatch")
		return nil, domain.ErrCodeMismatch
	}
	if !s.challenges.Evict(ctx, challenge) {
		return nil, domain.ErrNoChallenge
	}

	if view, err := s.aggregator.GetOrder(ctx, orderID); err == nil {
		s.dispatcher.Enqueue(ctx, confirmationMessage(challenge, view))
	} else {
		logger.Warn("confirmation_summary_unavailable", zap.Error(err))
	}

	logger.Info("payment_completed")
	return &VerifyResult{OrderID: orderID, Amount: challenge.Amount, Status: "completed"}, nil
}

func (s *Service) ownedOrder(ctx context.Context, buyerEmail string, orderID int64) (*domorder.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerEmail != buyerEmail {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *Service) issue(ctx context.Context, buyerEmail string, orderID int64, amount decimal.Decimal) *domain.Challenge {
	challenge := &domain.Challenge{
		BuyerEmail: buyerEmail,
		Code:       s.code(),
		OrderID:    orderID,
		Amount:     amount,
		ExpiresAt:  s.now().Add(s.ttl),
	}
	s.challenges.Put(ctx, challenge)
	return challenge
}

// code returns a uniformly random zero-padded 6-digit code.
func (s *Service) code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%06d", s.random.Intn(1000000))
}
