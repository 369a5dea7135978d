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

type OrderService interface {
	PayOrder(ctx context.Context, caller common.Address, orderID uint64, supplied *big.Int) (*entities.Order, error)
	CompleteOrder(ctx context.Context, caller common.Address, orderID uint64, deliverable string) (*entities.Order, error)
	ReleasePayment(ctx context.Context, caller common.Address, orderID uint64) (*entities.Settlement, error)
	ApprovePayment(ctx context.Context, caller common.Address, orderID uint64) (*entities.Order, error)
	ClaimPayment(ctx context.Context, caller common.Address, orderID uint64) (*entities.Settlement, error)
	GetOrder(ctx context.Context, orderID uint64) (*entities.Order, error)
	GetOrderDeliverable(ctx context.Context, orderID uint64) (string, error)
	ListOrderEvents(ctx context.Context, orderID uint64) ([]*entities.MarketEvent, error)
	ListClientOrders(ctx context.Context, client common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error)
	ListProviderOrders(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Order, int64, error)
}

// PayOrderRequest carries the funds attached to a payment. Native-currency orders must supply
// exactly the order amount; token orders supply nothing.
type PayOrderRequest struct {
	Amount string `json:"amount"`
}

// CompleteOrderRequest carries the delivered work
type CompleteOrderRequest struct {
	Deliverable string `json:"deliverable" binding:"required"`
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) callerAndOrder(c *gin.Context) (common.Address, uint64, bool) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return common.Address{}, 0, false
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return common.Address{}, 0, false
	}
	return caller, id, true
}

// PayOrder funds an order into escrow
// POST /api/v1/orders/:id/pay
func (h *OrderHandler) PayOrder(c *gin.Context) {
	caller, id, ok := h.callerAndOrder(c)
	if !ok {
		return
	}

	var req PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	supplied, err := parseAmount(req.Amount, "amount")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderService.PayOrder(c.Request.Context(), caller, id, supplied)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": newOrderView(order)})
}

// CompleteOrder records the provider's deliverable
// POST /api/v1/orders/:id/complete
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	caller, id, ok := h.callerAndOrder(c)
	if !ok {
		return
	}

	var req CompleteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	order, err := h.orderService.CompleteOrder(c.Request.Context(), caller, id, req.Deliverable)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": newOrderView(order)})
}

// ReleasePayment pays the provider out of escrow at the client's request
// POST /api/v1/orders/:id/release
func (h *OrderHandler) ReleasePayment(c *gin.Context) {
	caller, id, ok := h.callerAndOrder(c)
	if !ok {
		return
	}

	settlement, err := h.orderService.ReleasePayment(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settlement": newSettlementView(settlement)})
}

// ApprovePayment lets the provider claim the escrowed funds
// POST /api/v1/orders/:id/approve
func (h *OrderHandler) ApprovePayment(c *gin.Context) {
	caller, id, ok := h.callerAndOrder(c)
	if !ok {
		return
	}

	order, err := h.orderService.ApprovePayment(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": newOrderView(order)})
}

// ClaimPayment pays out an approved order to its provider
// POST /api/v1/orders/:id/claim
func (h *OrderHandler) ClaimPayment(c *gin.Context) {
	caller, id, ok := h.callerAndOrder(c)
	if !ok {
		return
	}

	settlement, err := h.orderService.ClaimPayment(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settlement": newSettlementView(settlement)})
}

// GetOrder gets an order by ID
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": newOrderView(order)})
}

// GetOrderDeliverable returns the deliverable of a completed order
// GET /api/v1/orders/:id/deliverable
func (h *OrderHandler) GetOrderDeliverable(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	deliverable, err := h.orderService.GetOrderDeliverable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"orderId": id, "deliverable": deliverable})
}

// GetOrderEvents lists the market events of an order in emission order
// GET /api/v1/orders/:id/events
func (h *OrderHandler) GetOrderEvents(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	events, err := h.orderService.ListOrderEvents(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"events": newEventViews(events)})
}

// ListClientOrders lists orders placed by a client
// GET /api/v1/clients/:address/orders
func (h *OrderHandler) ListClientOrders(c *gin.Context) {
	h.listByAddress(c, "client", h.orderService.ListClientOrders)
}

// ListProviderOrders lists orders received by a provider
// GET /api/v1/providers/:address/orders
func (h *OrderHandler) ListProviderOrders(c *gin.Context) {
	h.listByAddress(c, "provider", h.orderService.ListProviderOrders)
}

func (h *OrderHandler) listByAddress(
	c *gin.Context,
	field string,
	list func(context.Context, common.Address, utils.PaginationParams) ([]*entities.Order, int64, error),
) {
	address, err := parseAddress(c.Param("address"), field)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := paginationFromQuery(c)

	orders, total, err := list(c.Request.Context(), address, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": newOrderViews(orders),
		"meta":  pageMeta(total, pagination),
	})
}
