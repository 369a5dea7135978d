package handlers

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/interfaces/http/response"
)

type AdminService interface {
	SetPlatformFee(ctx context.Context, caller common.Address, percent uint8) (*entities.EngineState, error)
	Pause(ctx context.Context, caller common.Address) error
	Unpause(ctx context.Context, caller common.Address) error
	TransferOwnership(ctx context.Context, caller, newOwner common.Address) error
	SetAccountFrozen(ctx context.Context, caller, address, token common.Address, frozen bool) error
}

type SetPlatformFeeRequest struct {
	Percent *int `json:"percent" binding:"required"`
}

type TransferOwnershipRequest struct {
	NewOwner string `json:"newOwner" binding:"required"`
}

type SetAccountFrozenRequest struct {
	Token  string `json:"token"`
	Frozen *bool  `json:"frozen" binding:"required"`
}

// AdminHandler serves owner-only endpoints. Ownership is checked by the engine.
type AdminHandler struct {
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// SetPlatformFee changes the fee applied to subsequently paid orders
// PUT /api/v1/admin/fee
func (h *AdminHandler) SetPlatformFee(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req SetPlatformFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	if *req.Percent < 0 || *req.Percent > entities.MaxFeePercent {
		response.Error(c, domainerrors.BadRequest("percent must be between 0 and 100"))
		return
	}

	state, err := h.adminService.SetPlatformFee(c.Request.Context(), caller, uint8(*req.Percent))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"platformFeePercent": state.PlatformFeePercent})
}

// Pause halts state-changing marketplace operations
// POST /api/v1/admin/pause
func (h *AdminHandler) Pause(c *gin.Context) {
	h.setPaused(c, true)
}

// Unpause resumes marketplace operations
// POST /api/v1/admin/unpause
func (h *AdminHandler) Unpause(c *gin.Context) {
	h.setPaused(c, false)
}

func (h *AdminHandler) setPaused(c *gin.Context, paused bool) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if paused {
		err = h.adminService.Pause(c.Request.Context(), caller)
	} else {
		err = h.adminService.Unpause(c.Request.Context(), caller)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paused": paused})
}

// TransferOwnership hands the owner role to another address
// POST /api/v1/admin/ownership
func (h *AdminHandler) TransferOwnership(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	newOwner, err := parseAddress(req.NewOwner, "owner")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.adminService.TransferOwnership(c.Request.Context(), caller, newOwner); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"owner": newOwner.Hex()})
}

// SetAccountFrozen blocks or unblocks a custody account from receiving funds
// PUT /api/v1/admin/accounts/:address/frozen
func (h *AdminHandler) SetAccountFrozen(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	address, err := parseAddress(c.Param("address"), "account")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req SetAccountFrozenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	token, err := parseToken(req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.adminService.SetAccountFrozen(c.Request.Context(), caller, address, token, *req.Frozen); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"address": address.Hex(),
		"token":   token.Hex(),
		"frozen":  *req.Frozen,
	})
}
