package repositories

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/pkg/utils"
)

// GigRepository defines gig data operations
type GigRepository interface {
	Create(ctx context.Context, gig *entities.Gig) error
	GetByID(ctx context.Context, id uint64) (*entities.Gig, error)
	Update(ctx context.Context, gig *entities.Gig) error
	ListByProvider(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Gig, int64, error)
	ListActive(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Gig, int64, error)
}
