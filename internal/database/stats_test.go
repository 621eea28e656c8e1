package database

import (
	"context"
	"testing"

	"gearshed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com")

	empty, err := GetUserStats(ctx, db, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalGear)
	assert.Equal(t, 0.0, empty.TotalWeight)
	assert.Empty(t, empty.RecentPackLists)
	assert.Nil(t, empty.LightestPackList)

	tent, err := CreateGearItem(ctx, db, owner, models.GearItemInput{Name: "Tent", Weight: float64Ptr(1500)})
	require.NoError(t, err)
	_, err = CreateGearItem(ctx, db, owner, models.GearItemInput{Name: "Beacon", Weight: float64Ptr(220), InWishlist: true})
	require.NoError(t, err)
	_, err = CreateGearItem(ctx, db, owner, models.GearItemInput{Name: "Spork"})
	require.NoError(t, err)

	heavy, err := CreatePackList(ctx, db, owner, models.PackListInput{Name: "Heavy", Date: stringPtr("2024-01-01")})
	require.NoError(t, err)
	addTestItem(t, db, owner, heavy.ID, tent.ID)
	for _, name := range []string{"One", "Two", "Three", "Four", "Five"} {
		_, err := CreatePackList(ctx, db, owner, models.PackListInput{Name: name, Date: stringPtr("2024-06-01")})
		require.NoError(t, err)
	}

	stats, err := GetUserStats(ctx, db, owner)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalGear)
	assert.Equal(t, 1720.0, stats.TotalWeight)
	assert.Equal(t, 1, stats.WishlistItems)
	assert.Equal(t, 6, stats.PackLists)
	require.Len(t, stats.RecentPackLists, recentPackListsLimit)
	for _, summary := range stats.RecentPackLists {
		assert.NotEqual(t, heavy.ID, summary.ID)
	}

	require.NotNil(t, stats.LightestPackList)
	assert.Equal(t, heavy.ID, stats.LightestPackList.ID)
	assert.Equal(t, 1500.0, stats.LightestPackList.TotalWeight)

	other := createTestUser(t, db, "other@example.com")
	otherStats, err := GetUserStats(ctx, db, other)
	require.NoError(t, err)
	assert.Equal(t, 0, otherStats.TotalGear)
	assert.Equal(t, 0, otherStats.PackLists)
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	categories, err := GetCategories(ctx, db)
	require.NoError(t, err)
	assert.Len(t, categories, len(seedCategories))

	user, err := AuthenticateUser(ctx, db, DemoEmail, DemoPassword)
	require.NoError(t, err)
	owner := user.Identity()

	items, err := GetGearItems(ctx, db, owner)
	require.NoError(t, err)
	assert.Len(t, items, len(seedGear))

	wishlist, err := GetWishlist(ctx, db, owner)
	require.NoError(t, err)
	assert.Len(t, wishlist, 2)

	lists, err := GetPackLists(ctx, db, owner)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Red Rocks Weekend Trip", lists[0].Name)
	assert.Equal(t, 12, lists[0].ItemCount)
}
