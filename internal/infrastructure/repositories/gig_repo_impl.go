package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/infrastructure/models"
	"hgigs.backend/pkg/utils"
)

// GigRepository implements gig data operations
type GigRepository struct {
	db *gorm.DB
}

// NewGigRepository creates a new gig repository
func NewGigRepository(db *gorm.DB) *GigRepository {
	return &GigRepository{db: db}
}

func (r *GigRepository) Create(ctx context.Context, gig *entities.Gig) error {
	m := toGigModel(gig)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	gig.CreatedAt = m.CreatedAt
	gig.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *GigRepository) GetByID(ctx context.Context, id uint64) (*entities.Gig, error) {
	var m models.Gig
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrGigNotFound
		}
		return nil, err
	}
	return toGigEntity(&m)
}

func (r *GigRepository) Update(ctx context.Context, gig *entities.Gig) error {
	gig.UpdatedAt = time.Now()
	m := toGigModel(gig)
	result := GetDB(ctx, r.db).Model(&models.Gig{}).
		Where("id = ?", gig.ID).
		Select("title", "description", "category", "delivery_time", "requirements", "tags", "price", "token", "is_active", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrGigNotFound
	}
	return nil
}

func (r *GigRepository) ListByProvider(ctx context.Context, provider common.Address, pagination utils.PaginationParams) ([]*entities.Gig, int64, error) {
	return r.list(ctx, pagination, "provider = ?", provider.Hex())
}

func (r *GigRepository) ListActive(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Gig, int64, error) {
	return r.list(ctx, pagination, "is_active = ?", true)
}

func (r *GigRepository) list(ctx context.Context, pagination utils.PaginationParams, where string, args ...interface{}) ([]*entities.Gig, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Gig{}).Where(where, args...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Where(where, args...).Order("id ASC")
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}

	var ms []models.Gig
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	gigs := make([]*entities.Gig, 0, len(ms))
	for i := range ms {
		gig, err := toGigEntity(&ms[i])
		if err != nil {
			return nil, 0, err
		}
		gigs = append(gigs, gig)
	}
	return gigs, total, nil
}

func toGigModel(g *entities.Gig) *models.Gig {
	return &models.Gig{
		ID:           g.ID,
		Provider:     g.Provider.Hex(),
		Title:        g.Title,
		Description:  g.Description,
		Category:     g.Category,
		DeliveryTime: g.DeliveryTime,
		Requirements: g.Requirements,
		Tags:         g.Tags,
		Price:        bigToString(g.Price),
		Token:        g.Token.Hex(),
		IsActive:     g.IsActive,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

func toGigEntity(m *models.Gig) (*entities.Gig, error) {
	price, err := parseBig(m.Price)
	if err != nil {
		return nil, err
	}
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return &entities.Gig{
		ID:           m.ID,
		Provider:     common.HexToAddress(m.Provider),
		Title:        m.Title,
		Description:  m.Description,
		Category:     m.Category,
		DeliveryTime: m.DeliveryTime,
		Requirements: m.Requirements,
		Tags:         tags,
		Price:        price,
		Token:        common.HexToAddress(m.Token),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}
