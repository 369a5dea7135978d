package entities

import (
	"math/big"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/volatiletech/null/v8"
	domainerrors "hgigs.backend/internal/domain/errors"
)

// MaxDeliverableLength bounds the deliverable text a provider may submit.
const MaxDeliverableLength = 10000

// ReleaseMethod records which path moved the escrowed funds out
type ReleaseMethod string

const (
	ReleaseMethodNone ReleaseMethod = ""
	ReleaseMethodPush ReleaseMethod = "PUSH"
	ReleaseMethodPull ReleaseMethod = "PULL"
)

// Order is a client's commitment to purchase a gig
type Order struct {
	ID              uint64         `json:"id"`
	GigID           uint64         `json:"gigId"`
	Client          common.Address `json:"client"`
	Provider        common.Address `json:"provider"`
	Token           common.Address `json:"token"`
	Amount          *big.Int       `json:"amount"`
	PaidAmount      *big.Int       `json:"paidAmount"`
	Payer           common.Address `json:"payer"`
	FeePercent      uint8          `json:"feePercent"`
	IsPaid          bool           `json:"isPaid"`
	IsCompleted     bool           `json:"isCompleted"`
	Deliverable     string         `json:"deliverable"`
	PaymentApproved bool           `json:"paymentApproved"`
	PaymentReleased bool           `json:"paymentReleased"`
	ReleasedVia     ReleaseMethod  `json:"releasedVia,omitempty"`
	ProviderAmount  *big.Int       `json:"providerAmount,omitempty"`
	FeeAmount       *big.Int       `json:"feeAmount,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	PaidAt          null.Time      `json:"paidAt"`
	CompletedAt     null.Time      `json:"completedAt"`
	ReleasedAt      null.Time      `json:"releasedAt"`
}

// NewOrder captures the gig's provider, price and token at order time.
func NewOrder(id uint64, gig *Gig, client common.Address, now time.Time) *Order {
	return &Order{
		ID:         id,
		GigID:      gig.ID,
		Client:     client,
		Provider:   gig.Provider,
		Token:      gig.Token,
		Amount:     new(big.Int).Set(gig.Price),
		PaidAmount: new(big.Int),
		CreatedAt:  now,
	}
}

// IsNative reports whether the order is settled in the native currency.
func (o *Order) IsNative() bool {
	return o.Token == NativeToken
}

// IsPendingEscrow reports whether the order's funds are currently held in escrow.
func (o *Order) IsPendingEscrow() bool {
	return o.IsPaid && !o.PaymentReleased
}

// MarkPaid checks the pay preconditions and records the escrowed amount.
// Native orders require supplied == Amount; token orders require no attached native funds.
func (o *Order) MarkPaid(payer common.Address, supplied *big.Int, feePercent uint8, now time.Time) error {
	if o.IsPaid {
		return domainerrors.ErrAlreadyPaid
	}
	if o.IsNative() {
		if supplied == nil || supplied.Cmp(o.Amount) != 0 {
			return domainerrors.ErrAmountMismatch
		}
	} else if supplied != nil && supplied.Sign() != 0 {
		return domainerrors.ErrAmountMismatch
	}
	o.IsPaid = true
	o.PaidAmount = new(big.Int).Set(o.Amount)
	o.Payer = payer
	o.FeePercent = feePercent
	o.PaidAt = null.TimeFrom(now)
	return nil
}

// MarkCompleted records the deliverable. The provider may do this only once.
func (o *Order) MarkCompleted(caller common.Address, deliverable string, now time.Time) error {
	if caller != o.Provider {
		return domainerrors.ErrNotProvider
	}
	if !o.IsPaid {
		return domainerrors.ErrNotPaid
	}
	if o.IsCompleted {
		return domainerrors.ErrAlreadyCompleted
	}
	deliverable = strings.TrimSpace(deliverable)
	if deliverable == "" {
		return domainerrors.InvalidInput("deliverable must not be empty")
	}
	if utf8.RuneCountInString(deliverable) > MaxDeliverableLength {
		return domainerrors.InvalidInput("deliverable exceeds %d characters", MaxDeliverableLength)
	}
	o.IsCompleted = true
	o.Deliverable = deliverable
	o.CompletedAt = null.TimeFrom(now)
	return nil
}

// CanRelease checks the push-path preconditions for the client.
func (o *Order) CanRelease(caller common.Address) error {
	if caller != o.Client {
		return domainerrors.ErrNotClient
	}
	if !o.IsPaid {
		return domainerrors.ErrNotPaid
	}
	if !o.IsCompleted {
		return domainerrors.ErrNotCompleted
	}
	if o.PaymentReleased {
		return domainerrors.ErrAlreadyReleased
	}
	return nil
}

// MarkApproved authorises the provider to claim.
func (o *Order) MarkApproved(caller common.Address) error {
	if caller != o.Client {
		return domainerrors.ErrNotClient
	}
	if !o.IsPaid {
		return domainerrors.ErrNotPaid
	}
	if !o.IsCompleted {
		return domainerrors.ErrNotCompleted
	}
	if o.PaymentReleased {
		return domainerrors.ErrAlreadyReleased
	}
	if o.PaymentApproved {
		return domainerrors.ErrAlreadyApproved
	}
	o.PaymentApproved = true
	return nil
}

// CanClaim checks the pull-path preconditions for the provider.
func (o *Order) CanClaim(caller common.Address) error {
	if caller != o.Provider {
		return domainerrors.ErrNotProvider
	}
	if o.PaymentReleased {
		return domainerrors.ErrAlreadyReleased
	}
	if !o.PaymentApproved {
		return domainerrors.ErrNotApproved
	}
	if !o.IsPaid {
		return domainerrors.ErrNotPaid
	}
	if !o.IsCompleted {
		return domainerrors.ErrNotCompleted
	}
	return nil
}

// MarkReleased flips the single terminal payment flag.
func (o *Order) MarkReleased(method ReleaseMethod, split Split, now time.Time) error {
	if o.PaymentReleased {
		return domainerrors.ErrAlreadyReleased
	}
	o.PaymentReleased = true
	o.ReleasedVia = method
	o.ProviderAmount = new(big.Int).Set(split.ProviderAmount)
	o.FeeAmount = new(big.Int).Set(split.FeeAmount)
	o.ReleasedAt = null.TimeFrom(now)
	return nil
}
