package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EngineState is the process-wide configuration and counters of the marketplace.
type EngineState struct {
	Owner              common.Address `json:"owner"`
	PlatformFeePercent uint8          `json:"platformFeePercent"`
	Paused             bool           `json:"paused"`
	NextGigID          uint64         `json:"nextGigId"`
	NextOrderID        uint64         `json:"nextOrderId"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// NewEngineState returns the initial state for a fresh marketplace.
func NewEngineState(owner common.Address, feePercent uint8) *EngineState {
	return &EngineState{
		Owner:              owner,
		PlatformFeePercent: feePercent,
		NextGigID:          1,
		NextOrderID:        1,
	}
}

// AllocateGigID returns the next gig id and advances the counter.
func (s *EngineState) AllocateGigID() uint64 {
	id := s.NextGigID
	s.NextGigID++
	return id
}

// AllocateOrderID returns the next order id and advances the counter.
func (s *EngineState) AllocateOrderID() uint64 {
	id := s.NextOrderID
	s.NextOrderID++
	return id
}

// MarketStats summarises the engine for read-only callers
type MarketStats struct {
	Owner              common.Address `json:"owner"`
	TotalGigs          uint64         `json:"totalGigs"`
	TotalOrders        uint64         `json:"totalOrders"`
	PlatformFeePercent uint8          `json:"platformFeePercent"`
	Paused             bool           `json:"paused"`
	EscrowAddress      common.Address `json:"escrowAddress"`
}
