package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/pkg/utils"
)

func TestMarketEventRepository_ListAndPublish(t *testing.T) {
	db := newMarketDB(t)
	repo := NewMarketEventRepository(db)
	ctx := context.Background()
	base := time.Now().UTC()

	types := []entities.MarketEventType{
		entities.MarketEventGigCreated,
		entities.MarketEventOrderCreated,
		entities.MarketEventOrderPaid,
	}
	var ids []uuid.UUID
	for i, typ := range types {
		event := &entities.MarketEvent{
			ID:        utils.GenerateUUIDv7(),
			Type:      typ,
			GigID:     1,
			Actor:     testClient,
			Amount:    "1000",
			Metadata:  map[string]string{"seq": string(rune('a' + i))},
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if typ != entities.MarketEventGigCreated {
			event.OrderID = 1
		}
		require.NoError(t, repo.Create(ctx, event))
		ids = append(ids, event.ID)
	}

	byGig, err := repo.ListByGig(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byGig, 3)
	assert.Equal(t, entities.MarketEventGigCreated, byGig[0].Type)
	assert.Equal(t, "a", byGig[0].Metadata["seq"])

	byOrder, err := repo.ListByOrder(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byOrder, 2)
	assert.Equal(t, entities.MarketEventOrderCreated, byOrder[0].Type)
	assert.Equal(t, testClient, byOrder[1].Actor)

	pending, err := repo.ListUnpublished(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[0], pending[0].ID)

	require.NoError(t, repo.MarkPublished(ctx, ids[:2]))
	require.NoError(t, repo.MarkPublished(ctx, nil))

	pending, err = repo.ListUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[2], pending[0].ID)
	assert.False(t, pending[0].PublishedAt.Valid)
}
