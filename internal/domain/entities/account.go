package entities

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Account is a custody balance of one token held for one address
type Account struct {
	Address   common.Address `json:"address"`
	Token     common.Address `json:"token"`
	Balance   *big.Int       `json:"balance"`
	Frozen    bool           `json:"frozen"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewAccount returns an empty, unfrozen account.
func NewAccount(address, token common.Address) *Account {
	return &Account{Address: address, Token: token, Balance: new(big.Int)}
}

// Deposit records an on-chain transfer credited to a custody account
type Deposit struct {
	TxHash      common.Hash    `json:"txHash"`
	Depositor   common.Address `json:"depositor"`
	Token       common.Address `json:"token"`
	Amount      *big.Int       `json:"amount"`
	BlockNumber uint64         `json:"blockNumber"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Withdrawal records funds taken out of the custody book for payout to the account holder
type Withdrawal struct {
	ID        uuid.UUID      `json:"id"`
	Account   common.Address `json:"account"`
	Token     common.Address `json:"token"`
	Amount    *big.Int       `json:"amount"`
	CreatedAt time.Time      `json:"createdAt"`
}
