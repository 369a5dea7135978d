package handlers

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/interfaces/http/response"
	"hgigs.backend/pkg/utils"
)

type GigService interface {
	CreateGig(ctx context.Context, caller common.Address, input entities.GigInput) (*entities.Gig, error)
	UpdateGig(ctx context.Context, caller common.Address, gigID uint64, input entities.GigInput) (*entities.Gig, error)
	DeactivateGig(ctx context.Context, caller common.Address, gigID uint64) (*entities.Gig, error)
	OrderGig(ctx context.Context, caller common.Address, gigID uint64) (*entities.Order, error)
	GetGig(ctx context.Context, gigID uint64) (*entities.Gig, error)
	ListActiveGigs(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Gig, int64, error)
	ListProviderGigs(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Gig, int64, error)
	ListGigOrders(ctx context.Context, gigID uint64, pagination utils.PaginationParams) ([]*entities.Order, int64, error)
}

// GigRequest is the body of gig create and update calls
type GigRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	DeliveryTime string   `json:"deliveryTime"`
	Requirements string   `json:"requirements"`
	Tags         []string `json:"tags"`
	Price        string   `json:"price" binding:"required"`
	Token        string   `json:"token"`
}

func (r GigRequest) toInput() (entities.GigInput, error) {
	price, err := parseAmount(r.Price, "price")
	if err != nil {
		return entities.GigInput{}, err
	}
	token, err := parseToken(r.Token)
	if err != nil {
		return entities.GigInput{}, err
	}
	return entities.GigInput{
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		DeliveryTime: r.DeliveryTime,
		Requirements: r.Requirements,
		Tags:         r.Tags,
		Price:        price,
		Token:        token,
	}, nil
}

// GigHandler handles gig endpoints
type GigHandler struct {
	gigService GigService
}

// NewGigHandler creates a new gig handler
func NewGigHandler(gigService GigService) *GigHandler {
	return &GigHandler{gigService: gigService}
}

// CreateGig publishes a gig for the caller
// POST /api/v1/gigs
func (h *GigHandler) CreateGig(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req GigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		response.Error(c, err)
		return
	}

	gig, err := h.gigService.CreateGig(c.Request.Context(), caller, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"gig": newGigView(gig)})
}

// UpdateGig edits a gig owned by the caller
// PUT /api/v1/gigs/:id
func (h *GigHandler) UpdateGig(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req GigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		response.Error(c, err)
		return
	}

	gig, err := h.gigService.UpdateGig(c.Request.Context(), caller, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"gig": newGigView(gig)})
}

// DeactivateGig stops a gig from taking new orders
// POST /api/v1/gigs/:id/deactivate
func (h *GigHandler) DeactivateGig(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	gig, err := h.gigService.DeactivateGig(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"gig": newGigView(gig)})
}

// OrderGig opens an order on a gig for the caller
// POST /api/v1/gigs/:id/orders
func (h *GigHandler) OrderGig(c *gin.Context) {
	caller, err := requireCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.gigService.OrderGig(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"order": newOrderView(order)})
}

// GetGig gets a gig by ID
// GET /api/v1/gigs/:id
func (h *GigHandler) GetGig(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	gig, err := h.gigService.GetGig(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"gig": newGigView(gig)})
}

// ListActiveGigs lists gigs open for orders
// GET /api/v1/gigs
func (h *GigHandler) ListActiveGigs(c *gin.Context) {
	pagination := paginationFromQuery(c)

	gigs, total, err := h.gigService.ListActiveGigs(c.Request.Context(), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": newGigViews(gigs),
		"meta":  pageMeta(total, pagination),
	})
}

// ListProviderGigs lists all gigs of a provider, active or not
// GET /api/v1/providers/:address/gigs
func (h *GigHandler) ListProviderGigs(c *gin.Context) {
	provider, err := parseAddress(c.Param("address"), "provider")
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := paginationFromQuery(c)

	gigs, total, err := h.gigService.ListProviderGigs(c.Request.Context(), provider, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": newGigViews(gigs),
		"meta":  pageMeta(total, pagination),
	})
}

// ListGigOrders lists the orders placed on a gig
// GET /api/v1/gigs/:id/orders
func (h *GigHandler) ListGigOrders(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := paginationFromQuery(c)

	orders, total, err := h.gigService.ListGigOrders(c.Request.Context(), id, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": newOrderViews(orders),
		"meta":  pageMeta(total, pagination),
	})
}
