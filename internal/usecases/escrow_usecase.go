package usecases

import (
	"context"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	domainRepos "hgigs.backend/internal/domain/repositories"
	"hgigs.backend/internal/infrastructure/metrics"
	"hgigs.backend/pkg/logger"
	"hgigs.backend/pkg/utils"
)

var timeNow = func() time.Time {
	return time.Now().UTC()
}

// EscrowUsecase is the escrow order engine. Mutating calls are serialised and each one runs
// in a single transaction holding the engine state row lock.
type EscrowUsecase struct {
	uow       domainRepos.UnitOfWork
	stateRepo domainRepos.EngineStateRepository
	gigRepo   domainRepos.GigRepository
	orderRepo domainRepos.OrderRepository
	eventRepo domainRepos.MarketEventRepository
	ledger    *Ledger
	events    *eventRecorder
	escrow    common.Address
	mu        sync.Mutex
}

func NewEscrowUsecase(
	uow domainRepos.UnitOfWork,
	stateRepo domainRepos.EngineStateRepository,
	gigRepo domainRepos.GigRepository,
	orderRepo domainRepos.OrderRepository,
	eventRepo domainRepos.MarketEventRepository,
	ledger *Ledger,
	escrow common.Address,
) *EscrowUsecase {
	return &EscrowUsecase{
		uow:       uow,
		stateRepo: stateRepo,
		gigRepo:   gigRepo,
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		ledger:    ledger,
		events:    &eventRecorder{repo: eventRepo, now: timeNow},
		escrow:    escrow,
	}
}

// Initialize stores the initial engine state unless one exists already.
func (uc *EscrowUsecase) Initialize(ctx context.Context, owner common.Address, feePercent uint8) error {
	if owner == (common.Address{}) {
		return domainerrors.InvalidInput("owner address is required")
	}
	if feePercent > entities.MaxFeePercent {
		return domainerrors.InvalidInput("platform fee must be between 0 and %d", entities.MaxFeePercent)
	}
	if uc.escrow == (common.Address{}) {
		return domainerrors.InvalidInput("escrow address is required")
	}
	if owner == uc.escrow {
		return domainerrors.InvalidInput("owner must not be the escrow address")
	}
	return uc.stateRepo.Init(ctx, entities.NewEngineState(owner, feePercent))
}

// EscrowAddress is the custody account holding paid, unreleased order funds.
func (uc *EscrowUsecase) EscrowAddress() common.Address {
	return uc.escrow
}

// mutate runs fn in a transaction with the engine state locked. Gated operations fail with
// ErrPaused while the marketplace is paused.
func (uc *EscrowUsecase) mutate(ctx context.Context, operation string, gated bool, fn func(ctx context.Context, state *entities.EngineState) error) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		state, err := uc.stateRepo.Get(uc.uow.WithLock(txCtx))
		if err != nil {
			return err
		}
		if gated && state.Paused {
			return domainerrors.ErrPaused
		}
		return fn(txCtx, state)
	})

	metrics.ObserveOperation(operation, err)
	if err != nil && domainerrors.Kind(err) == domainerrors.CodeInternal {
		logger.Error(ctx, "Escrow operation failed", zap.String("operation", operation), zap.Error(err))
	}
	return err
}

// CreateGig publishes a new active gig owned by caller.
func (uc *EscrowUsecase) CreateGig(ctx context.Context, caller common.Address, input entities.GigInput) (*entities.Gig, error) {
	var gig *entities.Gig
	err := uc.mutate(ctx, "CreateGig", true, func(ctx context.Context, state *entities.EngineState) error {
		if caller == uc.escrow {
			return domainerrors.ErrEscrowParty
		}
		if err := input.Validate(); err != nil {
			return err
		}

		gig = &entities.Gig{
			ID:       state.AllocateGigID(),
			Provider: caller,
			IsActive: true,
		}
		gig.Apply(input)
		if err := uc.gigRepo.Create(ctx, gig); err != nil {
			return err
		}
		if err := uc.stateRepo.Save(ctx, state); err != nil {
			return err
		}

		_, err := uc.events.record(ctx, eventInput{
			Type:     entities.MarketEventGigCreated,
			GigID:    gig.ID,
			Actor:    caller,
			Amount:   gig.Price,
			Token:    gig.Token,
			Metadata: map[string]string{"title": gig.Title},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return gig, nil
}

// UpdateGig replaces the editable attributes of a gig. Existing orders keep their captured price.
func (uc *EscrowUsecase) UpdateGig(ctx context.Context, caller common.Address, gigID uint64, input entities.GigInput) (*entities.Gig, error) {
	var gig *entities.Gig
	err := uc.mutate(ctx, "UpdateGig", true, func(ctx context.Context, _ *entities.EngineState) error {
		var err error
		gig, err = uc.gigRepo.GetByID(uc.uow.WithLock(ctx), gigID)
		if err != nil {
			return err
		}
		if gig.Provider != caller {
			return domainerrors.ErrNotProvider
		}
		if err := input.Validate(); err != nil {
			return err
		}

		gig.Apply(input)
		if err := uc.gigRepo.Update(ctx, gig); err != nil {
			return err
		}

		_, err = uc.events.record(ctx, eventInput{
			Type:     entities.MarketEventGigUpdated,
			GigID:    gig.ID,
			Actor:    caller,
			Amount:   gig.Price,
			Token:    gig.Token,
			Metadata: map[string]string{"title": gig.Title},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return gig, nil
}

// DeactivateGig stops a gig from accepting new orders. Existing orders are unaffected.
func (uc *EscrowUsecase) DeactivateGig(ctx context.Context, caller common.Address, gigID uint64) (*entities.Gig, error) {
	var gig *entities.Gig
	err := uc.mutate(ctx, "DeactivateGig", true, func(ctx context.Context, _ *entities.EngineState) error {
		var err error
		gig, err = uc.gigRepo.GetByID(uc.uow.WithLock(ctx), gigID)
		if err != nil {
			return err
		}
		if gig.Provider != caller {
			return domainerrors.ErrNotProvider
		}

		gig.IsActive = false
		if err := uc.gigRepo.Update(ctx, gig); err != nil {
			return err
		}

		_, err = uc.events.record(ctx, eventInput{
			Type:  entities.MarketEventGigDeactivated,
			GigID: gig.ID,
			Actor: caller,
			Token: gig.Token,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return gig, nil
}

// OrderGig creates an unpaid order for caller, capturing the gig's price and token.
func (uc *EscrowUsecase) OrderGig(ctx context.Context, caller common.Address, gigID uint64) (*entities.Order, error) {
	var order *entities.Order
	err := uc.mutate(ctx, "OrderGig", true, func(ctx context.Context, state *entities.EngineState) error {
		gig, err := uc.gigRepo.GetByID(ctx, gigID)
		if err != nil {
			return err
		}
		if caller == uc.escrow {
			return domainerrors.ErrEscrowParty
		}
		if !gig.IsActive {
			return domainerrors.ErrGigInactive
		}

		order = entities.NewOrder(state.AllocateOrderID(), gig, caller, timeNow())
		if err := uc.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		if err := uc.stateRepo.Save(ctx, state); err != nil {
			return err
		}

		_, err = uc.events.record(ctx, eventInput{
			Type:    entities.MarketEventOrderCreated,
			GigID:   gig.ID,
			OrderID: order.ID,
			Actor:   caller,
			Amount:  order.Amount,
			Token:   order.Token,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// PayOrder moves the order amount from caller's custody account into escrow. Any caller may pay.
// For native orders supplied must equal the amount; token orders take no native funds.
func (uc *EscrowUsecase) PayOrder(ctx context.Context, caller common.Address, orderID uint64, supplied *big.Int) (*entities.Order, error) {
	var order *entities.Order
	err := uc.mutate(ctx, "PayOrder", true, func(ctx context.Context, state *entities.EngineState) error {
		var err error
		order, err = uc.orderRepo.GetByID(uc.uow.WithLock(ctx), orderID)
		if err != nil {
			return err
		}
		if caller == uc.escrow {
			return domainerrors.ErrEscrowParty
		}
		if err := order.MarkPaid(caller, supplied, state.PlatformFeePercent, timeNow()); err != nil {
			return err
		}
		if err := uc.ledger.Transfer(ctx, caller, uc.escrow, order.Token, order.Amount); err != nil {
			return err
		}
		if err := uc.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		_, err = uc.events.record(ctx, eventInput{
			Type:     entities.MarketEventOrderPaid,
			GigID:    order.GigID,
			OrderID:  order.ID,
			Actor:    caller,
			Amount:   order.PaidAmount,
			Token:    order.Token,
			Metadata: map[string]string{"feePercent": strconv.Itoa(int(order.FeePercent))},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CompleteOrder stores the provider's deliverable.
func (uc *EscrowUsecase) CompleteOrder(ctx context.Context, caller common.Address, orderID uint64, deliverable string) (*entities.Order, error) {
	var order *entities.Order
	err := uc.mutate(ctx, "CompleteOrder", true, func(ctx context.Context, _ *entities.EngineState) error {
		var err error
		order, err = uc.orderRepo.GetByID(uc.uow.WithLock(ctx), orderID)
		if err != nil {
			return err
		}
		if err := order.MarkCompleted(caller, deliverable, timeNow()); err != nil {
			return err
		}
		if err := uc.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		_, err = uc.events.record(ctx, eventInput{
			Type:    entities.MarketEventOrderCompleted,
			GigID:   order.GigID,
			OrderID: order.ID,
			Actor:   caller,
			Amount:  order.PaidAmount,
			Token:   order.Token,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ReleasePayment is the push path: the client pays out the escrow to provider and platform owner.
func (uc *EscrowUsecase) ReleasePayment(ctx context.Context, caller common.Address, orderID uint64) (*entities.Settlement, error) {
	var settlement *entities.Settlement
	err := uc.mutate(ctx, "ReleasePayment", true, func(ctx context.Context, state *entities.EngineState) error {
		order, err := uc.orderRepo.GetByID(uc.uow.WithLock(ctx), orderID)
		if err != nil {
			return err
		}
		if err := order.CanRelease(caller); err != nil {
			return err
		}
		settlement, err = uc.settle(ctx, state, order, caller, entities.ReleaseMethodPush)
		return err
	})
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

// ApprovePayment lets the provider claim the escrow later.
func (uc *EscrowUsecase) ApprovePayment(ctx context.Context, caller common.Address, orderID uint64) (*entities.Order, error) {
	var order *entities.Order
	err := uc.mutate(ctx, "ApprovePayment", true, func(ctx context.Context, _ *entities.EngineState) error {
		var err error
		order, err = uc.orderRepo.GetByID(uc.uow.WithLock(ctx), orderID)
		if err != nil {
			return err
		}
		if err := order.MarkApproved(caller); err != nil {
			return err
		}
		if err := uc.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		_, err = uc.events.record(ctx, eventInput{
			Type:    entities.MarketEventPaymentApproved,
			GigID:   order.GigID,
			OrderID: order.ID,
			Actor:   caller,
			Amount:  order.PaidAmount,
			Token:   order.Token,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ClaimPayment is the pull path: the provider collects an approved payment.
func (uc *EscrowUsecase) ClaimPayment(ctx context.Context, caller common.Address, orderID uint64) (*entities.Settlement, error) {
	var settlement *entities.Settlement
	err := uc.mutate(ctx, "ClaimPayment", true, func(ctx context.Context, state *entities.EngineState) error {
		order, err := uc.orderRepo.GetByID(uc.uow.WithLock(ctx), orderID)
		if err != nil {
			return err
		}
		if err := order.CanClaim(caller); err != nil {
			return err
		}
		settlement, err = uc.settle(ctx, state, order, caller, entities.ReleaseMethodPull)
		return err
	})
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

// settle splits the escrowed amount with the fee captured at payment and pays both legs.
// The released flag is written only after both legs succeed.
func (uc *EscrowUsecase) settle(ctx context.Context, state *entities.EngineState, order *entities.Order, caller common.Address, method entities.ReleaseMethod) (*entities.Settlement, error) {
	split := entities.SplitAmount(order.PaidAmount, order.FeePercent)
	settlement := &entities.Settlement{
		OrderID:        order.ID,
		Token:          order.Token,
		Provider:       order.Provider,
		ProviderAmount: split.ProviderAmount,
		FeeRecipient:   state.Owner,
		FeeAmount:      split.FeeAmount,
		Method:         method,
	}

	if err := uc.ledger.Settle(ctx, uc.escrow, settlement); err != nil {
		logger.Warn(ctx, "Escrow settlement failed",
			zap.Uint64("order_id", order.ID),
			zap.String("method", string(method)),
			zap.Error(err),
		)
		return nil, err
	}
	if err := order.MarkReleased(method, split, timeNow()); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	_, err := uc.events.record(ctx, eventInput{
		Type:    entities.MarketEventPaymentReleased,
		GigID:   order.GigID,
		OrderID: order.ID,
		Actor:   caller,
		Amount:  split.ProviderAmount,
		Token:   order.Token,
		Metadata: map[string]string{
			"provider":     order.Provider.Hex(),
			"feeRecipient": state.Owner.Hex(),
			"feeAmount":    split.FeeAmount.String(),
			"method":       string(method),
		},
	})
	if err != nil {
		return nil, err
	}

	metrics.Settlements.WithLabelValues(string(method)).Inc()
	logger.Info(ctx, "Escrow payment released",
		zap.Uint64("order_id", order.ID),
		zap.String("method", string(method)),
		zap.String("provider_amount", split.ProviderAmount.String()),
		zap.String("fee_amount", split.FeeAmount.String()),
	)
	return settlement, nil
}

// GetGig returns a gig by id.
func (uc *EscrowUsecase) GetGig(ctx context.Context, gigID uint64) (*entities.Gig, error) {
	return uc.gigRepo.GetByID(ctx, gigID)
}

// GetOrder returns an order by id.
func (uc *EscrowUsecase) GetOrder(ctx context.Context, orderID uint64) (*entities.Order, error) {
	return uc.orderRepo.GetByID(ctx, orderID)
}

// GetOrderDeliverable returns the deliverable text, empty until the order is completed.
func (uc *EscrowUsecase) GetOrderDeliverable(ctx context.Context, orderID uint64) (string, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	return order.Deliverable, nil
}

func (uc *EscrowUsecase) ListClientOrders(ctx context.Context, client common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	return uc.orderRepo.ListByClient(ctx, client, pagination)
}

func (uc *EscrowUsecase) ListProviderOrders(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	return uc.orderRepo.ListByProvider(ctx, provider, pagination)
}

func (uc *EscrowUsecase) ListProviderGigs(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Gig, int64, error) {
	return uc.gigRepo.ListByProvider(ctx, provider, pagination)
}

func (uc *EscrowUsecase) ListActiveGigs(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Gig, int64, error) {
	return uc.gigRepo.ListActive(ctx, pagination)
}

// ListGigOrders returns the orders placed against an existing gig.
func (uc *EscrowUsecase) ListGigOrders(ctx context.Context, gigID uint64, pagination utils.PaginationParams) ([]*entities.Order, int64, error) {
	if _, err := uc.gigRepo.GetByID(ctx, gigID); err != nil {
		return nil, 0, err
	}
	return uc.orderRepo.ListByGig(ctx, gigID, pagination)
}

// ListOrderEvents returns the notification history of an order, oldest first.
func (uc *EscrowUsecase) ListOrderEvents(ctx context.Context, orderID uint64) ([]*entities.MarketEvent, error) {
	if _, err := uc.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.eventRepo.ListByOrder(ctx, orderID)
}

// Stats reports counters and configuration of the marketplace.
func (uc *EscrowUsecase) Stats(ctx context.Context) (*entities.MarketStats, error) {
	state, err := uc.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &entities.MarketStats{
		Owner:              state.Owner,
		TotalGigs:          state.NextGigID - 1,
		TotalOrders:        state.NextOrderID - 1,
		PlatformFeePercent: state.PlatformFeePercent,
		Paused:             state.Paused,
		EscrowAddress:      uc.escrow,
	}, nil
}

// EscrowBalance is the amount of token held in the escrow custody account.
func (uc *EscrowUsecase) EscrowBalance(ctx context.Context, token common.Address) (*big.Int, error) {
	return uc.ledger.Balance(ctx, uc.escrow, token)
}

// PendingEscrow sums the paid, unreleased order amounts in token.
func (uc *EscrowUsecase) PendingEscrow(ctx context.Context, token common.Address) (*big.Int, error) {
	return uc.orderRepo.SumPendingEscrow(ctx, token)
}
