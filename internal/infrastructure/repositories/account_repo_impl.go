package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/internal/infrastructure/models"
)

// AccountRepository implements custody account data operations
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Get returns the stored account or a fresh empty one.
func (r *AccountRepository) Get(ctx context.Context, address, token common.Address) (*entities.Account, error) {
	var m models.Account
	err := GetDB(ctx, r.db).
		Where("address = ? AND token = ?", address.Hex(), token.Hex()).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.NewAccount(address, token), nil
		}
		return nil, err
	}

	balance, err := parseBig(m.Balance)
	if err != nil {
		return nil, err
	}
	return &entities.Account{
		Address:   common.HexToAddress(m.Address),
		Token:     common.HexToAddress(m.Token),
		Balance:   balance,
		Frozen:    m.Frozen,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// Save upserts the account balance and frozen flag.
func (r *AccountRepository) Save(ctx context.Context, account *entities.Account) error {
	account.UpdatedAt = time.Now()
	m := &models.Account{
		Address:   account.Address.Hex(),
		Token:     account.Token.Hex(),
		Balance:   bigToString(account.Balance),
		Frozen:    account.Frozen,
		UpdatedAt: account.UpdatedAt,
	}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "frozen", "updated_at"}),
	}).Create(m).Error
}
