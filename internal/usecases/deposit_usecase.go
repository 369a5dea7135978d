package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	domainRepos "hgigs.backend/internal/domain/repositories"
	"hgigs.backend/pkg/logger"
)

// erc20TransferTopic is keccak256("Transfer(address,address,uint256)")
var erc20TransferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

var errDepositsDisabled = fmt.Errorf("%w: on-chain deposits are not configured", domainerrors.ErrInvalidState)

// ChainReader is the read access to the custody chain used to verify deposits
type ChainReader interface {
	ChainID() *big.Int
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	NativeBalance(ctx context.Context, address common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error)
}

// DepositUsecase funds custody accounts from verified on-chain transfers
type DepositUsecase struct {
	engine           *EscrowUsecase
	depositRepo      domainRepos.DepositRepository
	chain            ChainReader
	custody          common.Address
	minConfirmations uint64
}

func NewDepositUsecase(
	engine *EscrowUsecase,
	depositRepo domainRepos.DepositRepository,
	chain ChainReader,
	custody common.Address,
	minConfirmations uint64,
) *DepositUsecase {
	if minConfirmations == 0 {
		minConfirmations = 1
	}
	return &DepositUsecase{
		engine:           engine,
		depositRepo:      depositRepo,
		chain:            chain,
		custody:          custody,
		minConfirmations: minConfirmations,
	}
}

// DepositFromChain credits caller with the funds a mined transaction sent to the custody address.
// Each transaction is credited at most once.
func (uc *DepositUsecase) DepositFromChain(ctx context.Context, caller common.Address, txHash common.Hash) (*entities.Deposit, error) {
	state, err := uc.engine.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if state.Paused {
		return nil, domainerrors.ErrPaused
	}
	if uc.chain == nil {
		return nil, errDepositsDisabled
	}
	if _, err := uc.depositRepo.GetByTxHash(ctx, txHash); err == nil {
		return nil, domainerrors.ErrDepositCredited
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	deposit, err := uc.verify(ctx, caller, txHash)
	if err != nil {
		return nil, err
	}

	err = uc.engine.mutate(ctx, "DepositFromChain", true, func(ctx context.Context, _ *entities.EngineState) error {
		deposit.CreatedAt = timeNow()
		if err := uc.depositRepo.Create(ctx, deposit); err != nil {
			return err
		}
		if err := uc.engine.ledger.Credit(ctx, deposit.Depositor, deposit.Token, deposit.Amount); err != nil {
			return err
		}

		_, err := uc.engine.events.record(ctx, eventInput{
			Type:     entities.MarketEventDepositCredited,
			Actor:    caller,
			Amount:   deposit.Amount,
			Token:    deposit.Token,
			Metadata: map[string]string{"txHash": txHash.Hex()},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Custody deposit credited",
		zap.String("depositor", caller.Hex()),
		zap.String("token", deposit.Token.Hex()),
		zap.String("amount", deposit.Amount.String()),
		zap.String("tx_hash", txHash.Hex()),
	)
	return deposit, nil
}

func (uc *DepositUsecase) verify(ctx context.Context, caller common.Address, txHash common.Hash) (*entities.Deposit, error) {
	tx, pending, err := uc.chain.TransactionByHash(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, domainerrors.NotFound("transaction not found")
		}
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	if pending {
		return nil, fmt.Errorf("%w: transaction is not mined yet", domainerrors.ErrInvalidState)
	}

	receipt, err := uc.chain.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction reverted", domainerrors.ErrInvalidPayment)
	}

	head, err := uc.chain.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch block number: %w", err)
	}
	mined := receipt.BlockNumber.Uint64()
	if head < mined || head-mined+1 < uc.minConfirmations {
		return nil, fmt.Errorf("%w: transaction has fewer than %d confirmations", domainerrors.ErrInvalidState, uc.minConfirmations)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(uc.chain.ChainID()), tx)
	if err != nil {
		return nil, domainerrors.InvalidInput("cannot recover transaction sender: %v", err)
	}
	if sender != caller {
		return nil, fmt.Errorf("%w: transaction was not sent by caller", domainerrors.ErrUnauthorized)
	}

	deposit := &entities.Deposit{
		TxHash:      txHash,
		Depositor:   caller,
		BlockNumber: mined,
	}

	if to := tx.To(); to != nil && *to == uc.custody && tx.Value().Sign() > 0 {
		deposit.Token = entities.NativeToken
		deposit.Amount = new(big.Int).Set(tx.Value())
		return deposit, nil
	}

	token, amount := uc.tokenTransfers(receipt, caller)
	if amount.Sign() == 0 {
		return nil, fmt.Errorf("%w: transaction carries no transfer to the custody address", domainerrors.ErrInvalidPayment)
	}
	deposit.Token = token
	deposit.Amount = amount
	return deposit, nil
}

// tokenTransfers sums the ERC-20 Transfer logs from sender to the custody address.
// Only logs of the first matching token contract are counted.
func (uc *DepositUsecase) tokenTransfers(receipt *types.Receipt, sender common.Address) (common.Address, *big.Int) {
	var token common.Address
	total := new(big.Int)
	for _, l := range receipt.Logs {
		if l == nil || len(l.Topics) != 3 || l.Topics[0] != erc20TransferTopic {
			continue
		}
		from := common.BytesToAddress(l.Topics[1].Bytes())
		to := common.BytesToAddress(l.Topics[2].Bytes())
		if from != sender || to != uc.custody {
			continue
		}
		if total.Sign() == 0 {
			token = l.Address
		} else if l.Address != token {
			continue
		}
		total.Add(total, new(big.Int).SetBytes(l.Data))
	}
	return token, total
}

// GetBalance returns the custody account of address in token.
func (uc *DepositUsecase) GetBalance(ctx context.Context, address, token common.Address) (*entities.Account, error) {
	return uc.engine.ledger.Account(ctx, address, token)
}

// OnChainCustodyBalance reads what the custody address actually holds on chain.
func (uc *DepositUsecase) OnChainCustodyBalance(ctx context.Context, token common.Address) (*big.Int, error) {
	if uc.chain == nil {
		return nil, errDepositsDisabled
	}
	if token == entities.NativeToken {
		return uc.chain.NativeBalance(ctx, uc.custody)
	}
	return uc.chain.TokenBalance(ctx, token, uc.custody)
}
