package handlers

import (
	"context"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/interfaces/http/response"
)

type AccountService interface {
	GetBalance(ctx context.Context, address, token common.Address) (*entities.Account, error)
	DepositFromChain(ctx context.Context, caller common.Address, txHash common.Hash) (*entities.Deposit, error)
	OnChainCustodyBalance(ctx context.Context, token common.Address) (*big.Int, error)
}

type DepositRequest struct {
	TxHash string `json:"txHash" binding:"required"`
}

// AccountHandler serves custody balances and on-chain deposits
type AccountHandler struct {
	accountService AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// GetBalance returns a custody account balance
// GET /api/v1/accounts/:address/balance?token=0x...
func (h *AccountHandler) GetBalance(c *gin.Context) {
	address, err := parseAddress(c.Param("address"), "account")
	if err != nil {
		response.Error(c, err)
		return
	}
	token, err := parseToken(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	account, err := h.accountService.GetBalance(c.Request.Context(), address, token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"account": newAccountView(account)})
}

// Deposit credits the caller with funds sent on-chain to the custody address
// POST /api/v1/deposits
func (h *AccountHandler) Deposit(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	raw, err := hexutil.Decode(strings.TrimSpace(req.TxHash))
	if err != nil || len(raw) != common.HashLength {
		response.Error(c, domainerrors.BadRequest("Invalid transaction hash"))
		return
	}

	deposit, err := h.accountService.DepositFromChain(c.Request.Context(), caller, common.BytesToHash(raw))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"deposit": newDepositView(deposit)})
}

// GetCustodyBalance reports what the custody address holds on-chain
// GET /api/v1/custody/balance?token=0x...
func (h *AccountHandler) GetCustodyBalance(c *gin.Context) {
	token, err := parseToken(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	balance, err := h.accountService.OnChainCustodyBalance(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token.Hex(),
		"balance": amountString(balance),
	})
}
