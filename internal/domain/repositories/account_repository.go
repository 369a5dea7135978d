package repositories

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/pkg/utils"
)

// AccountRepository defines custody account data operations
type AccountRepository interface {
	// Get returns the account, or an empty account when none is stored yet
	Get(ctx context.Context, address, token common.Address) (*entities.Account, error)
	Save(ctx context.Context, account *entities.Account) error
}

// DepositRepository defines credited deposit data operations
type DepositRepository interface {
	Create(ctx context.Context, deposit *entities.Deposit) error
	GetByTxHash(ctx context.Context, txHash common.Hash) (*entities.Deposit, error)
}

// WithdrawalRepository defines custody withdrawal data operations
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *entities.Withdrawal) error
	ListByAccount(ctx context.Context, account common.Address, pagination utils.PaginationParams) ([]*entities.Withdrawal, int64, error)
}
