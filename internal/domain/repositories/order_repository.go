package repositories

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/pkg/utils"
)

// OrderRepository defines order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	GetByID(ctx context.Context, id uint64) (*entities.Order, error)
	Update(ctx context.Context, order *entities.Order) error
	ListByClient(ctx context.Context, client common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error)
	ListByProvider(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error)
	ListByGig(ctx context.Context, gigID uint64, pagination utils.PaginationParams) ([]*entities.Order, int64, error)
	// SumPendingEscrow totals PaidAmount over paid, unreleased orders in the given token.
	SumPendingEscrow(ctx context.Context, token common.Address) (*big.Int, error)
}
