package usecases

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	domainRepos "hgigs.backend/internal/domain/repositories"
	"hgigs.backend/pkg/logger"
	"hgigs.backend/pkg/utils"
)

// WithdrawalUsecase takes funds out of the custody book. Withdrawals are gated by pause.
type WithdrawalUsecase struct {
	engine         *EscrowUsecase
	withdrawalRepo domainRepos.WithdrawalRepository
}

func NewWithdrawalUsecase(engine *EscrowUsecase, withdrawalRepo domainRepos.WithdrawalRepository) *WithdrawalUsecase {
	return &WithdrawalUsecase{engine: engine, withdrawalRepo: withdrawalRepo}
}

// Withdraw takes amount of token out of the caller's custody account.
func (uc *WithdrawalUsecase) Withdraw(ctx context.Context, caller, token common.Address, amount *big.Int) (*entities.Withdrawal, error) {
	var withdrawal *entities.Withdrawal
	err := uc.engine.mutate(ctx, "Withdraw", true, func(ctx context.Context, _ *entities.EngineState) error {
		if caller == uc.engine.escrow {
			return domainerrors.ErrEscrowParty
		}
		if amount == nil || amount.Sign() <= 0 {
			return domainerrors.InvalidInput("withdrawal amount must be positive")
		}

		var err error
		withdrawal, err = uc.withdraw(ctx, caller, token, amount, entities.MarketEventFundsWithdrawn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return withdrawal, nil
}

// WithdrawPlatformFees pays out the owner's whole custody balance of token, where fees accrue.
func (uc *WithdrawalUsecase) WithdrawPlatformFees(ctx context.Context, caller, token common.Address) (*entities.Withdrawal, error) {
	var withdrawal *entities.Withdrawal
	err := uc.engine.mutate(ctx, "WithdrawPlatformFees", true, func(ctx context.Context, state *entities.EngineState) error {
		if err := requireOwner(state, caller); err != nil {
			return err
		}
		balance, err := uc.engine.ledger.Balance(uc.engine.uow.WithLock(ctx), caller, token)
		if err != nil {
			return err
		}
		if balance.Sign() == 0 {
			return domainerrors.ErrNothingToWithdraw
		}

		withdrawal, err = uc.withdraw(ctx, caller, token, balance, entities.MarketEventPlatformFeesWithdrawn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return withdrawal, nil
}

// ListWithdrawals returns the withdrawals of an account, oldest first.
func (uc *WithdrawalUsecase) ListWithdrawals(ctx context.Context, account common.Address, pagination utils.PaginationParams) ([]*entities.Withdrawal, int64, error) {
	return uc.withdrawalRepo.ListByAccount(ctx, account, pagination)
}

func (uc *WithdrawalUsecase) withdraw(ctx context.Context, account, token common.Address, amount *big.Int, eventType entities.MarketEventType) (*entities.Withdrawal, error) {
	if err := uc.engine.ledger.Debit(ctx, account, token, amount); err != nil {
		return nil, err
	}

	withdrawal := &entities.Withdrawal{
		ID:        utils.GenerateUUIDv7(),
		Account:   account,
		Token:     token,
		Amount:    new(big.Int).Set(amount),
		CreatedAt: timeNow(),
	}
	if err := uc.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	_, err := uc.engine.events.record(ctx, eventInput{
		Type:     eventType,
		Actor:    account,
		Amount:   withdrawal.Amount,
		Token:    token,
		Metadata: map[string]string{"withdrawalId": withdrawal.ID.String()},
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Custody withdrawal recorded",
		zap.String("account", account.Hex()),
		zap.String("token", token.Hex()),
		zap.String("amount", withdrawal.Amount.String()),
		zap.String("withdrawal_id", withdrawal.ID.String()),
	)
	return withdrawal, nil
}
