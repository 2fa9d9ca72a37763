package items

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	a, err := r.Create(ctx, &models.Item{Title: "A", Price: 1, UserID: "u-1"})
	require.NoError(t, err)
	b, err := r.Create(ctx, &models.Item{Title: "B", Price: 2, UserID: "u-1"})
	require.NoError(t, err)
	c, err := r.Create(ctx, &models.Item{Title: "C", Price: 3, UserID: "u-2"})
	require.NoError(t, err)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	page, err := r.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, c.ID, page[0].ID)
	assert.Equal(t, b.ID, page[1].ID)

	rest, err := r.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, a.ID, rest[0].ID)

	empty, err := r.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	title := "A2"
	got, err := r.Update(ctx, a.ID, models.ItemUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Title)
	assert.Equal(t, 1, got.Price)

	_, err = r.Update(ctx, "ghost", models.ItemUpdate{})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.Delete(ctx, a.ID))
	assert.ErrorIs(t, r.Delete(ctx, a.ID), common.ErrorNotFound)
	_, err = r.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
