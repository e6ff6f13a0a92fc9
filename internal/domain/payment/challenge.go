package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoChallenge   = errors.New("payment: no active challenge")
	ErrExpired       = errors.New("payment: challenge expired")
	ErrOrderMismatch = errors.New("payment: order does not match challenge")
	ErrCodeMismatch  = errors.New("payment: invalid code")
	ErrForbidden     = errors.New("payment: order does not belong to this user")
)

// Challenge is one outstanding payment confirmation code. A buyer has at
// most one challenge at a time; issuing a new one supersedes the old.
// Challenges live in process memory only and do not survive a restart.
type Challenge struct {
	BuyerEmail string
	Code       string
	OrderID    int64
	Amount     decimal.Decimal
	ExpiresAt  time.Time
}

func (c *Challenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
