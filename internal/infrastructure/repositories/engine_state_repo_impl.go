package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/infrastructure/models"
)

// EngineStateRepository implements engine state data operations
type EngineStateRepository struct {
	db *gorm.DB
}

// NewEngineStateRepository creates a new engine state repository
func NewEngineStateRepository(db *gorm.DB) *EngineStateRepository {
	return &EngineStateRepository{db: db}
}

// Init inserts the state row unless one already exists.
func (r *EngineStateRepository) Init(ctx context.Context, state *entities.EngineState) error {
	m := toEngineStateModel(state)
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

func (r *EngineStateRepository) Get(ctx context.Context) (*entities.EngineState, error) {
	var m models.EngineState
	if err := GetDB(ctx, r.db).Where("id = ?", models.EngineStateRowID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.NotFound("marketplace state not initialised")
		}
		return nil, err
	}
	return &entities.EngineState{
		Owner:              common.HexToAddress(m.Owner),
		PlatformFeePercent: m.PlatformFeePercent,
		Paused:             m.Paused,
		NextGigID:          m.NextGigID,
		NextOrderID:        m.NextOrderID,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

func (r *EngineStateRepository) Save(ctx context.Context, state *entities.EngineState) error {
	state.UpdatedAt = time.Now()
	m := toEngineStateModel(state)
	result := GetDB(ctx, r.db).Model(&models.EngineState{}).
		Where("id = ?", models.EngineStateRowID).
		Select("owner", "platform_fee_percent", "paused", "next_gig_id", "next_order_id", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.NotFound("marketplace state not initialised")
	}
	return nil
}

func toEngineStateModel(s *entities.EngineState) *models.EngineState {
	return &models.EngineState{
		ID:                 models.EngineStateRowID,
		Owner:              s.Owner.Hex(),
		PlatformFeePercent: s.PlatformFeePercent,
		Paused:             s.Paused,
		NextGigID:          s.NextGigID,
		NextOrderID:        s.NextOrderID,
		UpdatedAt:          s.UpdatedAt,
	}
}
