package repositories

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/internal/infrastructure/models"
)

// MarketEventRepository implements market event data operations
type MarketEventRepository struct {
	db *gorm.DB
}

// NewMarketEventRepository creates a new market event repository
func NewMarketEventRepository(db *gorm.DB) *MarketEventRepository {
	return &MarketEventRepository{db: db}
}

func (r *MarketEventRepository) Create(ctx context.Context, event *entities.MarketEvent) error {
	m := &models.MarketEvent{
		ID:          event.ID,
		Type:        string(event.Type),
		GigID:       event.GigID,
		OrderID:     event.OrderID,
		Actor:       event.Actor.Hex(),
		Amount:      event.Amount,
		Token:       event.Token.Hex(),
		Metadata:    event.Metadata,
		CreatedAt:   event.CreatedAt,
		PublishedAt: timePtr(event.PublishedAt),
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// ListByOrder returns the events of an order, oldest first
func (r *MarketEventRepository) ListByOrder(ctx context.Context, orderID uint64) ([]*entities.MarketEvent, error) {
	return r.find(GetDB(ctx, r.db).Where("order_id = ?", orderID))
}

// ListByGig returns the events of a gig and of its orders, oldest first
func (r *MarketEventRepository) ListByGig(ctx context.Context, gigID uint64) ([]*entities.MarketEvent, error) {
	return r.find(GetDB(ctx, r.db).Where("gig_id = ?", gigID))
}

// ListUnpublished returns up to limit events not yet handed to the broker, oldest first
func (r *MarketEventRepository) ListUnpublished(ctx context.Context, limit int) ([]*entities.MarketEvent, error) {
	query := GetDB(ctx, r.db).Where("published_at IS NULL")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(query)
}

func (r *MarketEventRepository) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Model(&models.MarketEvent{}).
		Where("id IN ?", ids).
		Update("published_at", time.Now()).Error
}

func (r *MarketEventRepository) find(query *gorm.DB) ([]*entities.MarketEvent, error) {
	var ms []models.MarketEvent
	if err := query.Order("created_at ASC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}

	events := make([]*entities.MarketEvent, 0, len(ms))
	for _, m := range ms {
		events = append(events, &entities.MarketEvent{
			ID:          m.ID,
			Type:        entities.MarketEventType(m.Type),
			GigID:       m.GigID,
			OrderID:     m.OrderID,
			Actor:       common.HexToAddress(m.Actor),
			Amount:      m.Amount,
			Token:       common.HexToAddress(m.Token),
			Metadata:    m.Metadata,
			CreatedAt:   m.CreatedAt,
			PublishedAt: null.TimeFromPtr(m.PublishedAt),
		})
	}
	return events, nil
}
