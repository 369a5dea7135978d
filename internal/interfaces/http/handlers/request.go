package handlers

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/interfaces/http/middleware"
	"hgigs.backend/pkg/utils"
)

func parseIDParam(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.BadRequest("Invalid " + name)
	}
	return id, nil
}

func parseAddress(value, field string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if !common.IsHexAddress(value) {
		return common.Address{}, domainerrors.BadRequest("Invalid " + field + " address")
	}
	return common.HexToAddress(value), nil
}

// parseToken treats an empty value as the native currency.
func parseToken(value string) (common.Address, error) {
	if strings.TrimSpace(value) == "" {
		return common.Address{}, nil
	}
	return parseAddress(value, "token")
}

// parseAmount reads a non-negative base-10 integer in the token's smallest unit.
func parseAmount(value, field string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return new(big.Int), nil
	}
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok || amount.Sign() < 0 {
		return nil, domainerrors.BadRequest("Invalid " + field)
	}
	return amount, nil
}

func paginationFromQuery(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return utils.GetPaginationParams(page, limit)
}

func requireCaller(c *gin.Context) (common.Address, error) {
	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		return common.Address{}, domainerrors.Unauthenticated("Caller not authenticated")
	}
	return caller, nil
}
