package handlers

import (
	"context"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/pkg/utils"
)

type withdrawalServiceStub struct {
	withdrawFn func(context.Context, common.Address, common.Address, *big.Int) (*entities.Withdrawal, error)
	feesFn     func(context.Context, common.Address, common.Address) (*entities.Withdrawal, error)
	listFn     func(context.Context, common.Address, utils.PaginationParams) ([]*entities.Withdrawal, int64, error)
}

func (s withdrawalServiceStub) Withdraw(ctx context.Context, caller, token common.Address, amount *big.Int) (*entities.Withdrawal, error) {
	return s.withdrawFn(ctx, caller, token, amount)
}
func (s withdrawalServiceStub) WithdrawPlatformFees(ctx context.Context, caller, token common.Address) (*entities.Withdrawal, error) {
	return s.feesFn(ctx, caller, token)
}
func (s withdrawalServiceStub) ListWithdrawals(ctx context.Context, account common.Address, p utils.PaginationParams) ([]*entities.Withdrawal, int64, error) {
	return s.listFn(ctx, account, p)
}

func testWithdrawal(account, token common.Address, amount int64) *entities.Withdrawal {
	return &entities.Withdrawal{
		ID:        uuid.New(),
		Account:   account,
		Token:     token,
		Amount:    big.NewInt(amount),
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestWithdrawalHandler_Withdraw(t *testing.T) {
	h := NewWithdrawalHandler(withdrawalServiceStub{
		withdrawFn: func(_ context.Context, caller, token common.Address, amount *big.Int) (*entities.Withdrawal, error) {
			if amount.Cmp(big.NewInt(1000)) > 0 {
				return nil, domainerrors.ErrInsufficientFunds
			}
			return testWithdrawal(caller, token, amount.Int64()), nil
		},
	})

	r := newTestRouter()
	r.POST("/withdrawals", asCaller(providerAddr), h.Withdraw)
	r.POST("/anon/withdrawals", h.Withdraw)

	w := doJSON(t, r, http.MethodPost, "/withdrawals", map[string]string{"amount": "950", "token": usdcAddr.Hex()})
	require.Equal(t, http.StatusCreated, w.Code)
	got := decodeBody(t, w)["withdrawal"].(map[string]interface{})
	assert.Equal(t, "950", got["amount"])
	assert.Equal(t, providerAddr.Hex(), got["account"])
	assert.Equal(t, usdcAddr.Hex(), got["token"])

	w = doJSON(t, r, http.MethodPost, "/withdrawals", map[string]string{"amount": "1001"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, r, http.MethodPost, "/withdrawals", map[string]string{"amount": "-5"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/withdrawals", map[string]string{"token": usdcAddr.Hex()})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/anon/withdrawals", map[string]string{"amount": "1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithdrawalHandler_WithdrawPlatformFees(t *testing.T) {
	h := NewWithdrawalHandler(withdrawalServiceStub{
		feesFn: func(_ context.Context, caller, token common.Address) (*entities.Withdrawal, error) {
			if caller != ownerAddr {
				return nil, domainerrors.ErrNotOwner
			}
			if token == usdcAddr {
				return nil, domainerrors.ErrNothingToWithdraw
			}
			return testWithdrawal(caller, token, 50), nil
		},
	})

	r := newTestRouter()
	r.POST("/owner/fees/withdraw", asCaller(ownerAddr), h.WithdrawPlatformFees)
	r.POST("/client/fees/withdraw", asCaller(clientAddr), h.WithdrawPlatformFees)

	w := doJSON(t, r, http.MethodPost, "/owner/fees/withdraw", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	got := decodeBody(t, w)["withdrawal"].(map[string]interface{})
	assert.Equal(t, "50", got["amount"])
	assert.Equal(t, entities.NativeToken.Hex(), got["token"])

	w = doJSON(t, r, http.MethodPost, "/owner/fees/withdraw", map[string]string{"token": usdcAddr.Hex()})
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/owner/fees/withdraw", `{"token":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/client/fees/withdraw", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestWithdrawalHandler_ListWithdrawals(t *testing.T) {
	var seen utils.PaginationParams
	h := NewWithdrawalHandler(withdrawalServiceStub{
		listFn: func(_ context.Context, account common.Address, p utils.PaginationParams) ([]*entities.Withdrawal, int64, error) {
			seen = p
			return []*entities.Withdrawal{testWithdrawal(account, entities.NativeToken, 10)}, 3, nil
		},
	})

	r := newTestRouter()
	r.GET("/accounts/:address/withdrawals", h.ListWithdrawals)

	w := doJSON(t, r, http.MethodGet, "/accounts/"+providerAddr.Hex()+"/withdrawals?page=2&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "10", items[0].(map[string]interface{})["amount"])
	assert.Equal(t, float64(3), body["meta"].(map[string]interface{})["totalCount"])
	assert.Equal(t, 2, seen.Page)
	assert.Equal(t, 1, seen.Limit)

	w = doJSON(t, r, http.MethodGet, "/accounts/nope/withdrawals", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
