package usecases_test

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/internal/infrastructure/models"
	"hgigs.backend/internal/infrastructure/repositories"
	"hgigs.backend/internal/usecases"
)

var (
	owner    = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	escrow   = common.HexToAddress("0x00000000000000000000000000000000000000e5")
	provider = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	client   = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	usdc     = common.HexToAddress("0x00000000000000000000000000000000000000d1")
)

type market struct {
	db       *gorm.DB
	uow      *repositories.UnitOfWorkImpl
	engine   *usecases.EscrowUsecase
	admin    *usecases.AdminUsecase
	payouts  *usecases.WithdrawalUsecase
	ledger   *usecases.Ledger
	deposits *repositories.DepositRepository
	events   *repositories.MarketEventRepository
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(models.All()...), "migrate")
	return db
}

// newMarket wires the engine over an in-memory database with a 5% fee.
func newMarket(t *testing.T) *market {
	t.Helper()
	db := newTestDB(t)

	uow := repositories.NewUnitOfWork(db).(*repositories.UnitOfWorkImpl)
	eventRepo := repositories.NewMarketEventRepository(db)
	ledger := usecases.NewLedger(repositories.NewAccountRepository(db), uow)
	engine := usecases.NewEscrowUsecase(
		uow,
		repositories.NewEngineStateRepository(db),
		repositories.NewGigRepository(db),
		repositories.NewOrderRepository(db),
		eventRepo,
		ledger,
		escrow,
	)
	require.NoError(t, engine.Initialize(context.Background(), owner, entities.DefaultFeePercent))

	return &market{
		db:       db,
		uow:      uow,
		engine:   engine,
		admin:    usecases.NewAdminUsecase(engine),
		payouts:  usecases.NewWithdrawalUsecase(engine, repositories.NewWithdrawalRepository(db)),
		ledger:   ledger,
		deposits: repositories.NewDepositRepository(db),
		events:   eventRepo,
	}
}

func (m *market) fund(t *testing.T, who, token common.Address, amount int64) {
	t.Helper()
	require.NoError(t, m.ledger.Credit(context.Background(), who, token, big.NewInt(amount)))
}

func (m *market) balance(t *testing.T, who, token common.Address) int64 {
	t.Helper()
	b, err := m.ledger.Balance(context.Background(), who, token)
	require.NoError(t, err)
	return b.Int64()
}

func (m *market) gig(t *testing.T, price int64, token common.Address) *entities.Gig {
	t.Helper()
	gig, err := m.engine.CreateGig(context.Background(), provider, entities.GigInput{
		Title:        "Smart contract audit",
		Description:  "Manual review of one contract",
		Category:     "security",
		DeliveryTime: "3 days",
		Tags:         []string{"solidity", "audit"},
		Price:        big.NewInt(price),
		Token:        token,
	})
	require.NoError(t, err)
	return gig
}

// paidOrder returns an order that the client has ordered and paid.
func (m *market) paidOrder(t *testing.T, price int64, token common.Address) *entities.Order {
	t.Helper()
	ctx := context.Background()
	gig := m.gig(t, price, token)
	m.fund(t, client, token, price)

	order, err := m.engine.OrderGig(ctx, client, gig.ID)
	require.NoError(t, err)

	var supplied *big.Int
	if token == entities.NativeToken {
		supplied = big.NewInt(price)
	}
	order, err = m.engine.PayOrder(ctx, client, order.ID, supplied)
	require.NoError(t, err)
	return order
}

// completedOrder returns a paid order the provider has delivered.
func (m *market) completedOrder(t *testing.T, price int64, token common.Address) *entities.Order {
	t.Helper()
	order := m.paidOrder(t, price, token)
	order, err := m.engine.CompleteOrder(context.Background(), provider, order.ID, "done")
	require.NoError(t, err)
	return order
}
