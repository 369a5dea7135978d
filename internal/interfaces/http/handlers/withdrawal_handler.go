package handlers

import (
	"context"
	"errors"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/interfaces/http/response"
	"hgigs.backend/pkg/utils"
)

type WithdrawalService interface {
	Withdraw(ctx context.Context, caller, token common.Address, amount *big.Int) (*entities.Withdrawal, error)
	WithdrawPlatformFees(ctx context.Context, caller, token common.Address) (*entities.Withdrawal, error)
	ListWithdrawals(ctx context.Context, account common.Address, pagination utils.PaginationParams) ([]*entities.Withdrawal, int64, error)
}

type WithdrawRequest struct {
	Token  string `json:"token"`
	Amount string `json:"amount" binding:"required"`
}

type WithdrawFeesRequest struct {
	Token string `json:"token"`
}

// WithdrawalHandler serves payouts out of the custody book
type WithdrawalHandler struct {
	withdrawalService WithdrawalService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalService WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// Withdraw takes funds out of the caller's custody account
// POST /api/v1/withdrawals
func (h *WithdrawalHandler) Withdraw(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	token, err := parseToken(req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	amount, err := parseAmount(req.Amount, "amount")
	if err != nil {
		response.Error(c, err)
		return
	}

	withdrawal, err := h.withdrawalService.Withdraw(c.Request.Context(), caller, token, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"withdrawal": newWithdrawalView(withdrawal)})
}

// WithdrawPlatformFees pays out the fees accrued to the owner
// POST /api/v1/admin/fees/withdraw
func (h *WithdrawalHandler) WithdrawPlatformFees(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req WithdrawFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	token, err := parseToken(req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	withdrawal, err := h.withdrawalService.WithdrawPlatformFees(c.Request.Context(), caller, token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"withdrawal": newWithdrawalView(withdrawal)})
}

// ListWithdrawals lists the payouts of an account
// GET /api/v1/accounts/:address/withdrawals
func (h *WithdrawalHandler) ListWithdrawals(c *gin.Context) {
	account, err := parseAddress(c.Param("address"), "account")
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := paginationFromQuery(c)

	withdrawals, total, err := h.withdrawalService.ListWithdrawals(c.Request.Context(), account, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]WithdrawalView, 0, len(withdrawals))
	for _, w := range withdrawals {
		items = append(items, newWithdrawalView(w))
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"meta":  pageMeta(total, pagination),
	})
}
