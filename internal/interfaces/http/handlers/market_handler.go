package handlers

import (
	"context"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/internal/interfaces/http/response"
)

type MarketService interface {
	Stats(ctx context.Context) (*entities.MarketStats, error)
	EscrowBalance(ctx context.Context, token common.Address) (*big.Int, error)
	PendingEscrow(ctx context.Context, token common.Address) (*big.Int, error)
}

// MarketHandler serves marketplace-wide read endpoints
type MarketHandler struct {
	marketService MarketService
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketService MarketService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// GetStats reports totals, fee and pause status
// GET /api/v1/marketplace
func (h *MarketHandler) GetStats(c *gin.Context) {
	stats, err := h.marketService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marketplace": newStatsView(stats)})
}

// GetEscrowBalance reports the escrow custody balance of a token next to the sum owed to open orders
// GET /api/v1/escrow/balance?token=0x...
func (h *MarketHandler) GetEscrowBalance(c *gin.Context) {
	token, err := parseToken(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	balance, err := h.marketService.EscrowBalance(ctx, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	pending, err := h.marketService.PendingEscrow(ctx, token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token.Hex(),
		"balance": amountString(balance),
		"pending": amountString(pending),
	})
}
