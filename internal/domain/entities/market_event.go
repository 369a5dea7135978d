package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// MarketEventType names an observable state change
type MarketEventType string

const (
	MarketEventGigCreated            MarketEventType = "GigCreated"
	MarketEventGigUpdated            MarketEventType = "GigUpdated"
	MarketEventGigDeactivated        MarketEventType = "GigDeactivated"
	MarketEventOrderCreated          MarketEventType = "OrderCreated"
	MarketEventOrderPaid             MarketEventType = "OrderPaid"
	MarketEventOrderCompleted        MarketEventType = "OrderCompleted"
	MarketEventPaymentApproved       MarketEventType = "PaymentApproved"
	MarketEventPaymentReleased       MarketEventType = "PaymentReleased"
	MarketEventPlatformFeeUpdated    MarketEventType = "PlatformFeeUpdated"
	MarketEventPaused                MarketEventType = "Paused"
	MarketEventUnpaused              MarketEventType = "Unpaused"
	MarketEventOwnershipTransferred  MarketEventType = "OwnershipTransferred"
	MarketEventAccountFrozen         MarketEventType = "AccountFrozen"
	MarketEventDepositCredited       MarketEventType = "DepositCredited"
	MarketEventFundsWithdrawn        MarketEventType = "FundsWithdrawn"
	MarketEventPlatformFeesWithdrawn MarketEventType = "PlatformFeesWithdrawn"
)

// MarketEvent is a notification emitted by every mutating operation
type MarketEvent struct {
	ID          uuid.UUID         `json:"id"`
	Type        MarketEventType   `json:"type"`
	GigID       uint64            `json:"gigId,omitempty"`
	OrderID     uint64            `json:"orderId,omitempty"`
	Actor       common.Address    `json:"actor"`
	Amount      string            `json:"amount"`
	Token       common.Address    `json:"token"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	PublishedAt null.Time         `json:"-"`
}
