package usecases

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	domainRepos "hgigs.backend/internal/domain/repositories"
)

// Ledger is the custody book: per-token balances held by the service for each address.
// Mutations must run inside a UnitOfWork transaction; accounts are read with row locks.
type Ledger struct {
	accountRepo domainRepos.AccountRepository
	uow         domainRepos.UnitOfWork
}

func NewLedger(accountRepo domainRepos.AccountRepository, uow domainRepos.UnitOfWork) *Ledger {
	return &Ledger{accountRepo: accountRepo, uow: uow}
}

// Balance returns the custody balance of address in token.
func (l *Ledger) Balance(ctx context.Context, address, token common.Address) (*big.Int, error) {
	account, err := l.accountRepo.Get(ctx, address, token)
	if err != nil {
		return nil, err
	}
	return account.Balance, nil
}

// Account returns the full custody account, including the frozen flag.
func (l *Ledger) Account(ctx context.Context, address, token common.Address) (*entities.Account, error) {
	return l.accountRepo.Get(ctx, address, token)
}

// Credit adds funds that entered custody from outside the book.
func (l *Ledger) Credit(ctx context.Context, address, token common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return domainerrors.InvalidInput("credit amount must be positive")
	}
	account, err := l.accountRepo.Get(l.uow.WithLock(ctx), address, token)
	if err != nil {
		return err
	}
	if account.Frozen {
		return domainerrors.ErrAccountFrozen
	}
	account.Balance = new(big.Int).Add(account.Balance, amount)
	return l.accountRepo.Save(ctx, account)
}

// Debit removes funds that leave the book. Frozen accounts can still be debited.
func (l *Ledger) Debit(ctx context.Context, address, token common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return domainerrors.InvalidInput("debit amount must be positive")
	}
	account, err := l.accountRepo.Get(l.uow.WithLock(ctx), address, token)
	if err != nil {
		return err
	}
	if account.Balance.Cmp(amount) < 0 {
		return domainerrors.ErrInsufficientFunds
	}
	account.Balance = new(big.Int).Sub(account.Balance, amount)
	return l.accountRepo.Save(ctx, account)
}

// SetFrozen marks whether the account may receive funds.
func (l *Ledger) SetFrozen(ctx context.Context, address, token common.Address, frozen bool) error {
	account, err := l.accountRepo.Get(l.uow.WithLock(ctx), address, token)
	if err != nil {
		return err
	}
	account.Frozen = frozen
	return l.accountRepo.Save(ctx, account)
}

// Transfer moves amount of token from one account to another. Zero amounts are a no-op.
func (l *Ledger) Transfer(ctx context.Context, from, to, token common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return domainerrors.InvalidInput("transfer amount must not be negative")
	}

	lockCtx := l.uow.WithLock(ctx)
	src, err := l.accountRepo.Get(lockCtx, from, token)
	if err != nil {
		return err
	}
	if src.Balance.Cmp(amount) < 0 {
		return domainerrors.ErrInsufficientFunds
	}
	if from == to {
		if src.Frozen {
			return domainerrors.ErrAccountFrozen
		}
		return nil
	}

	dst, err := l.accountRepo.Get(lockCtx, to, token)
	if err != nil {
		return err
	}
	if dst.Frozen {
		return domainerrors.ErrAccountFrozen
	}

	src.Balance = new(big.Int).Sub(src.Balance, amount)
	dst.Balance = new(big.Int).Add(dst.Balance, amount)
	if err := l.accountRepo.Save(ctx, src); err != nil {
		return err
	}
	return l.accountRepo.Save(ctx, dst)
}

// Settle pays both legs of a settlement out of escrow as one unit.
// If either leg fails nothing is moved.
func (l *Ledger) Settle(ctx context.Context, escrow common.Address, s *entities.Settlement) error {
	return l.uow.Do(ctx, func(txCtx context.Context) error {
		if err := l.Transfer(txCtx, escrow, s.Provider, s.Token, s.ProviderAmount); err != nil {
			return err
		}
		return l.Transfer(txCtx, escrow, s.FeeRecipient, s.Token, s.FeeAmount)
	})
}
