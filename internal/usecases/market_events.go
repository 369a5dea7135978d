package usecases

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"hgigs.backend/internal/domain/entities"
	domainRepos "hgigs.backend/internal/domain/repositories"
	"hgigs.backend/pkg/utils"
)

// eventRecorder writes market events into the current transaction
type eventRecorder struct {
	repo domainRepos.MarketEventRepository
	now  func() time.Time
}

type eventInput struct {
	Type     entities.MarketEventType
	GigID    uint64
	OrderID  uint64
	Actor    common.Address
	Amount   *big.Int
	Token    common.Address
	Metadata map[string]string
}

func (r *eventRecorder) record(ctx context.Context, in eventInput) (*entities.MarketEvent, error) {
	amount := "0"
	if in.Amount != nil {
		amount = in.Amount.String()
	}
	event := &entities.MarketEvent{
		ID:        utils.GenerateUUIDv7(),
		Type:      in.Type,
		GigID:     in.GigID,
		OrderID:   in.OrderID,
		Actor:     in.Actor,
		Amount:    amount,
		Token:     in.Token,
		Metadata:  in.Metadata,
		CreatedAt: r.now(),
	}
	if err := r.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
