package repositories

import (
	"context"

	"hgigs.backend/internal/domain/entities"
)

// EngineStateRepository persists the single marketplace state row
type EngineStateRepository interface {
	// Init stores state only when no state exists yet
	Init(ctx context.Context, state *entities.EngineState) error
	Get(ctx context.Context) (*entities.EngineState, error)
	Save(ctx context.Context, state *entities.EngineState) error
}
