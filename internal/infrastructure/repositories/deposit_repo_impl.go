package repositories

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/infrastructure/models"
)

// DepositRepository implements credited deposit data operations
type DepositRepository struct {
	db *gorm.DB
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

// Create records a deposit; a transaction hash can be credited once.
func (r *DepositRepository) Create(ctx context.Context, deposit *entities.Deposit) error {
	m := &models.Deposit{
		TxHash:      deposit.TxHash.Hex(),
		Depositor:   deposit.Depositor.Hex(),
		Token:       deposit.Token.Hex(),
		Amount:      bigToString(deposit.Amount),
		BlockNumber: deposit.BlockNumber,
		CreatedAt:   deposit.CreatedAt,
	}
	result := GetDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDepositCredited
	}
	return nil
}

func (r *DepositRepository) GetByTxHash(ctx context.Context, txHash common.Hash) (*entities.Deposit, error) {
	var m models.Deposit
	if err := GetDB(ctx, r.db).Where("tx_hash = ?", txHash.Hex()).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.NotFound("deposit not found")
		}
		return nil, err
	}

	amount, err := parseBig(m.Amount)
	if err != nil {
		return nil, err
	}
	return &entities.Deposit{
		TxHash:      common.HexToHash(m.TxHash),
		Depositor:   common.HexToAddress(m.Depositor),
		Token:       common.HexToAddress(m.Token),
		Amount:      amount,
		BlockNumber: m.BlockNumber,
		CreatedAt:   m.CreatedAt,
	}, nil
}
