package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"gearshed/internal/models"

	"github.com/google/uuid"
)

const heaviestItemsLimit = 5

var errPackListNotFound = fmt.Errorf("pack list %w", ErrNotFound)

func scanPackList(row scanner, extra ...any) (*models.PackList, error) {
	var packList models.PackList
	var activityType, date sql.NullString

	dest := []any{
		&packList.ID,
		&packList.UserID,
		&packList.Name,
		&activityType,
		&date,
		&packList.CreatedAt,
		&packList.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if activityType.Valid {
		packList.ActivityType = &activityType.String
	}
	if date.Valid {
		packList.Date = &date.String
	}

	return &packList, nil
}

// GetPackLists returns the owner's pack lists with their live item count and
// total weight, most recent trip date first.
func GetPackLists(ctx context.Context, db *sql.DB, owner models.Identity) ([]models.PackListSummary, error) {
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
	`

	return queryPackListSummaries(ctx, db, query, owner.UserID)
}

func queryPackListSummaries(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.PackListSummary, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pack lists: %w", err)
	}
	defer rows.Close()

	packLists := []models.PackListSummary{}
	for rows.Next() {
		var summary models.PackListSummary
		packList, err := scanPackList(rows, &summary.ItemCount, &summary.TotalWeight)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pack list: %w", err)
		}
		summary.PackList = *packList
		packLists = append(packLists, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pack lists: %w", err)
	}

	return packLists, nil
}

func GetPackList(ctx context.Context, db *sql.DB, owner models.Identity, packListID string) (*models.PackList, error) {
	query := `
		SELECT id, user_id, name, activity_type, date, created_at, updated_at
		FROM pack_lists
		WHERE id = ? AND user_id = ?
	`

	packList, err := scanPackList(db.QueryRowContext(ctx, query, packListID, owner.UserID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errPackListNotFound
		}
		return nil, fmt.Errorf("failed to query pack list: %w", err)
	}

	return packList, nil
}

// GetPackListWithItems returns the pack list and its gear items ordered by
// category name, then item name.
func GetPackListWithItems(ctx context.Context, db *sql.DB, owner models.Identity, packListID string) (*models.PackList, error) {
	packList, err := GetPackList(ctx, db, owner, packListID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + gearItemColumns + `
		FROM pack_list_items pli
		INNER JOIN gear_items gi ON pli.gear_item_id = gi.id
		LEFT JOIN categories c ON gi.category_id = c.id
		WHERE pli.pack_list_id = ?
		ORDER BY c.name, gi.name
	`

	items, err := queryGearItems(ctx, db, query, packListID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pack list items: %w", err)
	}
	packList.Items = items

	return packList, nil
}

func CreatePackList(ctx context.Context, db *sql.DB, owner models.Identity, input models.PackListInput) (*models.PackList, error) {
	packListID := uuid.New().String()

	query := `
		INSERT INTO pack_lists (id, user_id, name, activity_type, date)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query, packListID, owner.UserID, input.Name, input.ActivityType, input.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to create pack list: %w", err)
	}

	return GetPackList(ctx, db, owner, packListID)
}

// UpdatePackList changes only the fields set in update.
func UpdatePackList(ctx context.Context, db *sql.DB, owner models.Identity, packListID string, update models.PackListUpdate) (*models.PackList, error) {
	query := `
		UPDATE pack_lists
		SET name = COALESCE(?, name),
		    activity_type = COALESCE(?, activity_type),
		    date = COALESCE(?, date),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`

	result, err := db.ExecContext(ctx, query, update.Name, update.ActivityType, update.Date, packListID, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update pack list: %w", err)
	}

	updated, err := rowsAffected(result)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, errPackListNotFound
	}

	return GetPackList(ctx, db, owner, packListID)
}

// DeletePackList removes the list and its memberships in one transaction.
// Ownership is checked before anything is deleted, so a foreign id leaves the
// store untouched.
func DeletePackList(ctx context.Context, db *sql.DB, owner models.Identity, packListID string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM pack_lists WHERE id = ? AND user_id = ?`, packListID, owner.UserID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to verify pack list ownership: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pack_list_items WHERE pack_list_id = ?`, packListID); err != nil {
		return false, fmt.Errorf("failed to delete pack list items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM pack_lists WHERE id = ? AND user_id = ?`, packListID, owner.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to delete pack list: %w", err)
	}

	deleted, err := rowsAffected(result)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit pack list deletion: %w", err)
	}

	return deleted, nil
}

// AddItemToPackList is idempotent: adding an item that is already on the list
// is not an error and returns the existing membership row.
func AddItemToPackList(ctx context.Context, db *sql.DB, owner models.Identity, packListID string, gearItemID int) (*models.PackListItem, error) {
	if _, err := GetPackList(ctx, db, owner, packListID); err != nil {
		return nil, err
	}

	var exists int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM gear_items WHERE id = ? AND user_id = ?`, gearItemID, owner.UserID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrGearItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify gear item ownership: %w", err)
	}

	query := `
		INSERT OR IGNORE INTO pack_list_items (pack_list_id, gear_item_id)
		VALUES (?, ?)
	`

	if _, err := db.ExecContext(ctx, query, packListID, gearItemID); err != nil {
		return nil, fmt.Errorf("failed to add item to pack list: %w", err)
	}

	var item models.PackListItem
	err = db.QueryRowContext(ctx, `
		SELECT id, pack_list_id, gear_item_id, created_at
		FROM pack_list_items
		WHERE pack_list_id = ? AND gear_item_id = ?
	`, packListID, gearItemID).Scan(&item.ID, &item.PackListID, &item.GearItemID, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load pack list item: %w", err)
	}

	return &item, nil
}

func RemoveItemFromPackList(ctx context.Context, db *sql.DB, owner models.Identity, packListID string, gearItemID int) (bool, error) {
	query := `
		DELETE FROM pack_list_items
		WHERE pack_list_id = ? AND gear_item_id = ?
		  AND pack_list_id IN (SELECT id FROM pack_lists WHERE user_id = ?)
	`

	result, err := db.ExecContext(ctx, query, packListID, gearItemID, owner.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to remove item from pack list: %w", err)
	}

	return rowsAffected(result)
}

func packListWeight(ctx context.Context, db *sql.DB, packListID string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(gi.weight), 0)
		FROM pack_list_items pli
		INNER JOIN gear_items gi ON pli.gear_item_id = gi.id
		WHERE pli.pack_list_id = ?
	`

	var total float64
	if err := db.QueryRowContext(ctx, query, packListID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to calculate pack list weight: %w", err)
	}

	return total, nil
}

// GetPackListWeight sums the current weights of the list's items. Items
// without a weight count as zero.
func GetPackListWeight(ctx context.Context, db *sql.DB, owner models.Identity, packListID string) (float64, error) {
	if _, err := GetPackList(ctx, db, owner, packListID); err != nil {
		return 0, err
	}

	return packListWeight(ctx, db, packListID)
}

func getCategoryBreakdown(ctx context.Context, db *sql.DB, packListID string) ([]models.CategoryWeight, error) {
	query := `
		SELECT c.name, c.activity_type,
		       COUNT(gi.id) AS item_count,
		       COALESCE(SUM(gi.weight), 0) AS category_weight
		FROM pack_list_items pli
		INNER JOIN gear_items gi ON pli.gear_item_id = gi.id
		LEFT JOIN categories c ON gi.category_id = c.id
		WHERE pli.pack_list_id = ?
		GROUP BY c.id, c.name, c.activity_type
		ORDER BY category_weight DESC, c.name
	`

	rows, err := db.QueryContext(ctx, query, packListID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []models.CategoryWeight{}
	for rows.Next() {
		var entry models.CategoryWeight
		var category, activityType sql.NullString
		if err := rows.Scan(&category, &activityType, &entry.ItemCount, &entry.CategoryWeight); err != nil {
			return nil, fmt.Errorf("failed to scan category breakdown: %w", err)
		}
		if category.Valid {
			entry.Category = &category.String
		}
		if activityType.Valid {
			entry.ActivityType = &activityType.String
		}
		breakdown = append(breakdown, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category breakdown: %w", err)
	}

	return breakdown, nil
}

// heaviestItems returns up to limit items by descending weight. Ties keep the
// order the items were given in.
func heaviestItems(items []models.GearItem, limit int) []models.GearItem {
	sorted := make([]models.GearItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeightOrZero() > sorted[j].WeightOrZero()
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// AnalyzePackList computes the weight breakdown of a pack list from its current
// contents.
func AnalyzePackList(ctx context.Context, db *sql.DB, owner models.Identity, packListID string) (*models.KitAnalysis, error) {
	packList, err := GetPackListWithItems(ctx, db, owner, packListID)
	if err != nil {
		return nil, err
	}

	total, err := packListWeight(ctx, db, packListID)
	if err != nil {
		return nil, err
	}

	breakdown, err := getCategoryBreakdown(ctx, db, packListID)
	if err != nil {
		return nil, err
	}

	analysis := &models.KitAnalysis{
		PackList:          packList,
		TotalWeight:       total,
		CategoryBreakdown: breakdown,
		ItemCount:         len(packList.Items),
		HeaviestItems:     heaviestItems(packList.Items, heaviestItemsLimit),
	}

	return analysis, nil
}
