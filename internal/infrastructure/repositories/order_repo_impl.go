package repositories

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/infrastructure/models"
	"hgigs.backend/pkg/utils"
)

// OrderRepository implements order data operations
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	m := toOrderModel(order)
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint64) (*entities.Order, error) {
	var m models.Order
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}
		return nil, err
	}
	return toOrderEntity(&m)
}

// Update writes every mutable column; false flags and empty strings included.
func (r *OrderRepository) Update(ctx context.Context, order *entities.Order) error {
	m := toOrderModel(order)
	m.UpdatedAt = time.Now()
	result := GetDB(ctx, r.db).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Select("paid_amount", "payer", "fee_percent", "is_paid", "is_completed", "deliverable",
			"payment_approved", "payment_released", "released_via", "provider_amount", "fee_amount",
			"paid_at", "completed_at", "released_at", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) ListByClient(ctx context.Context, client common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	return r.list(ctx, pagination, "client = ?", client.Hex())
}

func (r *OrderRepository) ListByProvider(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	return r.list(ctx, pagination, "provider = ?", provider.Hex())
}

func (r *OrderRepository) ListByGig(ctx context.Context, gigID uint64, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	return r.list(ctx, pagination, "gig_id = ?", gigID)
}

// SumPendingEscrow adds up amounts in Go; they are stored as decimal strings.
func (r *OrderRepository) SumPendingEscrow(ctx context.Context, token common.Address) (*big.Int, error) {
	var amounts []string
	err := GetDB(ctx, r.db).Model(&models.Order{}).
		Where("token = ? AND is_paid = ? AND payment_released = ?", token.Hex(), true, false).
		Pluck("paid_amount", &amounts).Error
	if err != nil {
		return nil, err
	}

	total := new(big.Int)
	for _, s := range amounts {
		v, err := parseBig(s)
		if err != nil {
			return nil, err
		}
		total.Add(total, v)
	}
	return total, nil
}

func (r *OrderRepository) list(ctx context.Context, pagination utils.PaginationParams, where string, args ...interface{}) ([]*entities.Order, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Order{}).Where(where, args...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Where(where, args...).Order("id ASC")
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}

	var ms []models.Order
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*entities.Order, 0, len(ms))
	for i := range ms {
		order, err := toOrderEntity(&ms[i])
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	return orders, total, nil
}

func toOrderModel(o *entities.Order) *models.Order {
	m := &models.Order{
		ID:              o.ID,
		GigID:           o.GigID,
		Client:          o.Client.Hex(),
		Provider:        o.Provider.Hex(),
		Token:           o.Token.Hex(),
		Amount:          bigToString(o.Amount),
		PaidAmount:      bigToString(o.PaidAmount),
		FeePercent:      o.FeePercent,
		IsPaid:          o.IsPaid,
		IsCompleted:     o.IsCompleted,
		Deliverable:     o.Deliverable,
		PaymentApproved: o.PaymentApproved,
		PaymentReleased: o.PaymentReleased,
		ReleasedVia:     string(o.ReleasedVia),
		ProviderAmount:  bigToPtr(o.ProviderAmount),
		FeeAmount:       bigToPtr(o.FeeAmount),
		CreatedAt:       o.CreatedAt,
		PaidAt:          timePtr(o.PaidAt),
		CompletedAt:     timePtr(o.CompletedAt),
		ReleasedAt:      timePtr(o.ReleasedAt),
	}
	if o.IsPaid {
		m.Payer = o.Payer.Hex()
	}
	return m
}

func toOrderEntity(m *models.Order) (*entities.Order, error) {
	amount, err := parseBig(m.Amount)
	if err != nil {
		return nil, err
	}
	paid, err := parseBig(m.PaidAmount)
	if err != nil {
		return nil, err
	}
	providerAmount, err := parseBigPtr(m.ProviderAmount)
	if err != nil {
		return nil, err
	}
	feeAmount, err := parseBigPtr(m.FeeAmount)
	if err != nil {
		return nil, err
	}

	o := &entities.Order{
		ID:              m.ID,
		GigID:           m.GigID,
		Client:          common.HexToAddress(m.Client),
		Provider:        common.HexToAddress(m.Provider),
		Token:           common.HexToAddress(m.Token),
		Amount:          amount,
		PaidAmount:      paid,
		FeePercent:      m.FeePercent,
		IsPaid:          m.IsPaid,
		IsCompleted:     m.IsCompleted,
		Deliverable:     m.Deliverable,
		PaymentApproved: m.PaymentApproved,
		PaymentReleased: m.PaymentReleased,
		ReleasedVia:     entities.ReleaseMethod(m.ReleasedVia),
		ProviderAmount:  providerAmount,
		FeeAmount:       feeAmount,
		CreatedAt:       m.CreatedAt,
		PaidAt:          null.TimeFromPtr(m.PaidAt),
		CompletedAt:     null.TimeFromPtr(m.CompletedAt),
		ReleasedAt:      null.TimeFromPtr(m.ReleasedAt),
	}
	if m.Payer != "" {
		o.Payer = common.HexToAddress(m.Payer)
	}
	return o, nil
}
