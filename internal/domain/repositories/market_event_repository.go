package repositories

import (
	"context"

	"github.com/google/uuid"
	"hgigs.backend/internal/domain/entities"
)

// MarketEventRepository defines market event data operations
type MarketEventRepository interface {
	Create(ctx context.Context, event *entities.MarketEvent) error
	ListByOrder(ctx context.Context, orderID uint64) ([]*entities.MarketEvent, error)
	ListByGig(ctx context.Context, gigID uint64) ([]*entities.MarketEvent, error)
	ListUnpublished(ctx context.Context, limit int) ([]*entities.MarketEvent, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}
