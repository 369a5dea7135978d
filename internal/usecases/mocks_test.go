package usecases_test

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	args := m.Called(ctx, f)
	if err := f(ctx); err != nil {
		return err
	}
	return args.Error(0)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

// Mock EngineStateRepository
type MockEngineStateRepository struct {
	mock.Mock
}

func (m *MockEngineStateRepository) Init(ctx context.Context, state *entities.EngineState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockEngineStateRepository) Get(ctx context.Context) (*entities.EngineState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EngineState), args.Error(1)
}

func (m *MockEngineStateRepository) Save(ctx context.Context, state *entities.EngineState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// Mock GigRepository
type MockGigRepository struct {
	mock.Mock
}

func (m *MockGigRepository) Create(ctx context.Context, gig *entities.Gig) error {
	args := m.Called(ctx, gig)
	return args.Error(0)
}

func (m *MockGigRepository) GetByID(ctx context.Context, id uint64) (*entities.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Gig), args.Error(1)
}

func (m *MockGigRepository) Update(ctx context.Context, gig *entities.Gig) error {
	args := m.Called(ctx, gig)
	return args.Error(0)
}

func (m *MockGigRepository) ListByProvider(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Gig, int64, error) {
	args := m.Called(ctx, provider, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Gig), args.Get(1).(int64), args.Error(2)
}

func (m *MockGigRepository) ListActive(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Gig, int64, error) {
	args := m.Called(ctx, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Gig), args.Get(1).(int64), args.Error(2)
}

// Mock OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entities.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uint64) (*entities.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *entities.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByClient(ctx context.Context, client common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	args := m.Called(ctx, client, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByProvider(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	args := m.Called(ctx, provider, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByGig(ctx context.Context, gigID uint64, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	args := m.Called(ctx, gigID, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) SumPendingEscrow(ctx context.Context, token common.Address) (*big.Int, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

// Mock MarketEventRepository
type MockMarketEventRepository struct {
	mock.Mock
}

func (m *MockMarketEventRepository) Create(ctx context.Context, event *entities.MarketEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMarketEventRepository) ListByOrder(ctx context.Context, orderID uint64) ([]*entities.MarketEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MarketEvent), args.Error(1)
}

func (m *MockMarketEventRepository) ListByGig(ctx context.Context, gigID uint64) ([]*entities.MarketEvent, error) {
	args := m.Called(ctx, gigID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MarketEvent), args.Error(1)
}

func (m *MockMarketEventRepository) ListUnpublished(ctx context.Context, limit int) ([]*entities.MarketEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MarketEvent), args.Error(1)
}

func (m *MockMarketEventRepository) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// Mock AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Get(ctx context.Context, address, token common.Address) (*entities.Account, error) {
	args := m.Called(ctx, address, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
