package database

import (
	"context"
	"database/sql"
	"fmt"

	"gearshed/internal/models"
)

const recentPackListsLimit = 5

// GetUserStats collects the dashboard counters for one user. Wishlist items
// count toward the gear total and weight like any other item.
func GetUserStats(ctx context.Context, db *sql.DB, owner models.Identity) (*models.UserStats, error) {
	stats := &models.UserStats{}

	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(weight), 0), COALESCE(SUM(CASE WHEN in_wishlist THEN 1 ELSE 0 END), 0)
		FROM gear_items
		WHERE user_id = ?
	`, owner.UserID).Scan(&stats.TotalGear, &stats.TotalWeight, &stats.WishlistItems)
	if err != nil {
		return nil, fmt.Errorf("failed to get gear totals: %w", err)
	}

	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pack_lists WHERE user_id = ?", owner.UserID).Scan(&stats.PackLists)
	if err != nil {
		return nil, fmt.Errorf("failed to get pack list count: %w", err)
	}

	recent, err := GetRecentPackLists(ctx, db, owner, recentPackListsLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentPackLists = recent

	// Lightest non-empty pack list
	lightest, err := queryPackListSummaries(ctx, db, `
		SELECT pl.id, pl.user_id, pl.name, pl.activity_type, pl.date, pl.created_at, pl.updated_at,
		       COUNT(gi.id) AS item_count,
		       COALESCE(SUM(gi.weight), 0) AS total_weight
		FROM pack_lists pl
		INNER JOIN pack_list_items pli ON pl.id = pli.pack_list_id
		INNER JOIN gear_items gi ON pli.gear_item_id = gi.id
		WHERE pl.user_id = ?
		GROUP BY pl.id
		ORDER BY total_weight ASC, pl.name
		LIMIT 1
	`, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lightest pack list: %w", err)
	}
	if len(lightest) == 1 {
		stats.LightestPackList = &lightest[0]
	}

	return stats, nil
}

// GetRecentPackLists returns the first pack lists in listing order (latest trip
// date first) with their item count and weight.
func GetRecentPackLists(ctx context.Context, db *sql.DB, owner models.Identity, limit int) ([]models.PackListSummary, error) {
	query := `
		SELECT pl.id, pl.user_id, pl.name, pl.activity_type, pl.date, pl.created_at, pl.updated_at,
		       COUNT(gi.id) AS item_count,
		       COALESCE(SUM(gi.weight), 0) AS total_weight
		FROM pack_lists pl
		LEFT JOIN pack_list_items pli ON pl.id = pli.pack_list_id
		LEFT JOIN gear_items gi ON pli.gear_item_id = gi.id
		WHERE pl.user_id = ?
		GROUP BY pl.id
		ORDER BY pl.date DESC, pl.created_at DESC, pl.rowid DESC
		LIMIT ?
	`

	return queryPackListSummaries(ctx, db, query, owner.UserID, limit)
}
