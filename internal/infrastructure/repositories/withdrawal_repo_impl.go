package repositories

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/internal/infrastructure/models"
	"hgigs.backend/pkg/utils"
)

// WithdrawalRepository implements custody withdrawal data operations
type WithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *entities.Withdrawal) error {
	m := &models.Withdrawal{
		ID:        withdrawal.ID,
		Account:   withdrawal.Account.Hex(),
		Token:     withdrawal.Token.Hex(),
		Amount:    bigToString(withdrawal.Amount),
		CreatedAt: withdrawal.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// ListByAccount returns the withdrawals of an account, oldest first
func (r *WithdrawalRepository) ListByAccount(ctx context.Context, account common.Address, pagination utils.PaginationParams) ([]*entities.Withdrawal, int64, error) {
	where := "account = ?"
	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Withdrawal{}).Where(where, account.Hex()).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Where(where, account.Hex()).Order("created_at ASC").Order("id ASC")
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}

	var ms []models.Withdrawal
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	withdrawals := make([]*entities.Withdrawal, 0, len(ms))
	for i := range ms {
		amount, err := parseBig(ms[i].Amount)
		if err != nil {
			return nil, 0, err
		}
		withdrawals = append(withdrawals, &entities.Withdrawal{
			ID:        ms[i].ID,
			Account:   common.HexToAddress(ms[i].Account),
			Token:     common.HexToAddress(ms[i].Token),
			Amount:    amount,
			CreatedAt: ms[i].CreatedAt,
		})
	}
	return withdrawals, total, nil
}
