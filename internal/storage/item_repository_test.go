package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-app/backend/internal/storage/models"
)

func createItem(t *testing.T, r *ItemRepository, kind models.Kind, mutate func(*models.Item)) *models.Item {
	t.Helper()

	item := &models.Item{Kind: kind, Locator: string(kind) + "/img.jpg"}
	if mutate != nil {
		mutate(item)
	}
	require.NoError(t, r.Create(context.Background(), item))
	return item
}

func TestItemCreateAndGet(t *testing.T) {
	r := NewItemRepository(newTestDB(t))
	ctx := context.Background()

	created := createItem(t, r, models.KindToys, nil)
	require.NotEmpty(t, created.ID)

	got, err := r.GetByID(ctx, models.KindToys, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "toys/img.jpg", got.Locator)
	assert.Zero(t, got.EngagementCount)

	// Wrong kind does not find it.
	miss, err := r.GetByID(ctx, models.KindLubes, created.ID)
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestItemListCandidatesFilters(t *testing.T) {
	db := newTestDB(t)
	items := NewItemRepository(db)
	sections := NewSectionRepository(db)
	ctx := context.Background()

	section := &models.Section{Name: "anniversary"}
	require.NoError(t, sections.Create(ctx, section))

	createItem(t, items, models.KindCards, func(i *models.Item) { i.SectionID = &section.ID })
	createItem(t, items, models.KindCards, nil)
	role := "her"
	createItem(t, items, models.KindDice, func(i *models.Item) { i.Role = &role })
	createItem(t, items, models.KindDice, nil)

	all, err := items.ListCandidates(ctx, models.KindCards, models.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inSection, err := items.ListCandidates(ctx, models.KindCards, models.ItemFilter{SectionID: section.ID})
	require.NoError(t, err)
	assert.Len(t, inSection, 1)

	herDice, err := items.ListCandidates(ctx, models.KindDice, models.ItemFilter{Role: "her"})
	require.NoError(t, err)
	assert.Len(t, herDice, 1)

	none, err := items.ListCandidates(ctx, models.KindDice, models.ItemFilter{Role: "them"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestItemIncrementEngagement(t *testing.T) {
	r := NewItemRepository(newTestDB(t))
	ctx := context.Background()

	item := createItem(t, r, models.KindCondoms, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.IncrementEngagement(ctx, item.ID))
	}

	got, err := r.GetByID(ctx, models.KindCondoms, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.EngagementCount)
}

func TestItemIncrementEngagementMissing(t *testing.T) {
	r := NewItemRepository(newTestDB(t))

	err := r.IncrementEngagement(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestItemDeleteCascadesHistory(t *testing.T) {
	db := newTestDB(t)
	items := NewItemRepository(db)
	history := NewHistoryRepository(db)
	ctx := context.Background()

	item := createItem(t, items, models.KindCards, nil)
	require.NoError(t, history.Append(ctx, item.ID, time.Now()))
	require.NoError(t, history.Append(ctx, item.ID, time.Now()))

	require.NoError(t, items.Delete(ctx, models.KindCards, item.ID))

	n, err := history.CountByItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSectionDeleteCascadesCards(t *testing.T) {
	db := newTestDB(t)
	items := NewItemRepository(db)
	sections := NewSectionRepository(db)
	ctx := context.Background()

	section := &models.Section{Name: "vacation"}
	require.NoError(t, sections.Create(ctx, section))
	card := createItem(t, items, models.KindCards, func(i *models.Item) { i.SectionID = &section.ID })

	require.NoError(t, sections.Delete(ctx, section.ID))

	got, err := items.GetByID(ctx, models.KindCards, card.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResetEngagement(t *testing.T) {
	db := newTestDB(t)
	items := NewItemRepository(db)
	history := NewHistoryRepository(db)
	ctx := context.Background()

	card := createItem(t, items, models.KindCards, nil)
	toy := createItem(t, items, models.KindToys, nil)
	require.NoError(t, items.IncrementEngagement(ctx, card.ID))
	require.NoError(t, items.IncrementEngagement(ctx, toy.ID))
	require.NoError(t, history.Append(ctx, card.ID, time.Now()))

	require.NoError(t, items.ResetEngagement(ctx))

	gotCard, err := items.GetByID(ctx, models.KindCards, card.ID)
	require.NoError(t, err)
	assert.Zero(t, gotCard.EngagementCount)

	gotToy, err := items.GetByID(ctx, models.KindToys, toy.ID)
	require.NoError(t, err)
	assert.Zero(t, gotToy.EngagementCount)

	n, err := history.CountByItem(ctx, card.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
