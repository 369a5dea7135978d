package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MaxFeePercent is the upper bound of the platform fee.
const MaxFeePercent = 100

// DefaultFeePercent is applied when no fee has been configured.
const DefaultFeePercent = 5

var hundred = big.NewInt(100)

// Split is the division of an order amount between provider and platform.
type Split struct {
	ProviderAmount *big.Int `json:"providerAmount"`
	FeeAmount      *big.Int `json:"feeAmount"`
}

// SplitAmount computes fee = floor(amount*percent/100) and gives the provider the remainder,
// so ProviderAmount + FeeAmount == amount for every non-negative amount.
func SplitAmount(amount *big.Int, percent uint8) Split {
	fee := new(big.Int).Mul(amount, big.NewInt(int64(percent)))
	fee.Quo(fee, hundred)
	return Split{
		ProviderAmount: new(big.Int).Sub(amount, fee),
		FeeAmount:      fee,
	}
}

// Settlement describes funds moved out of escrow for one order.
type Settlement struct {
	OrderID        uint64         `json:"orderId"`
	Token          common.Address `json:"token"`
	Provider       common.Address `json:"provider"`
	ProviderAmount *big.Int       `json:"providerAmount"`
	FeeRecipient   common.Address `json:"feeRecipient"`
	FeeAmount      *big.Int       `json:"feeAmount"`
	Method         ReleaseMethod  `json:"method"`
}
