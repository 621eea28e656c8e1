package database

import (
	"context"
	"database/sql"
	"fmt"

	"gearshed/internal/models"
)

const gearItemColumns = `
	gi.id, gi.user_id, gi.category_id, gi.name, gi.weight, gi.notes, gi.in_wishlist,
	gi.created_at, gi.updated_at,
	c.name, c.activity_type
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// queryExecer is satisfied by both *sql.DB and *sql.Tx.
type queryExecer interface {
	execer
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanGearItem(row scanner) (*models.GearItem, error) {
	var item models.GearItem
	var categoryID sql.NullInt64
	var weight sql.NullFloat64
	var notes, categoryName, activityType sql.NullString

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&categoryID,
		&item.Name,
		&weight,
		&notes,
		&item.InWishlist,
		&item.CreatedAt,
		&item.UpdatedAt,
		&categoryName,
		&activityType,
	)
	if err != nil {
		return nil, err
	}

	// Convert nullable fields to pointer types
	if categoryID.Valid {
		id := int(categoryID.Int64)
		item.CategoryID = &id
	}
	if weight.Valid {
		item.Weight = &weight.Float64
	}
	if notes.Valid {
		item.Notes = &notes.String
	}
	if categoryName.Valid {
		item.CategoryName = &categoryName.String
	}
	if activityType.Valid {
		item.ActivityType = &activityType.String
	}

	return &item, nil
}

func queryGearItems(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.GearItem, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query gear items: %w", err)
	}
	defer rows.Close()

	items := []models.GearItem{}
	for rows.Next() {
		item, err := scanGearItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gear item: %w", err)
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gear items: %w", err)
	}

	return items, nil
}

func GetGearItems(ctx context.Context, db *sql.DB, owner models.Identity) ([]models.GearItem, error) {
	query := `
		SELECT ` + gearItemColumns + `
		FROM gear_items gi
		LEFT JOIN categories c ON gi.category_id = c.id
		WHERE gi.user_id = ?
		ORDER BY gi.created_at DESC, gi.id DESC
	`

	return queryGearItems(ctx, db, query, owner.UserID)
}

// GetGearItem returns ErrNotFound both for missing ids and for items that
// belong to another user.
func GetGearItem(ctx context.Context, db *sql.DB, owner models.Identity, itemID int) (*models.GearItem, error) {
	query := `
		SELECT ` + gearItemColumns + `
		FROM gear_items gi
		LEFT JOIN categories c ON gi.category_id = c.id
		WHERE gi.id = ? AND gi.user_id = ?
	`

	item, err := scanGearItem(db.QueryRowContext(ctx, query, itemID, owner.UserID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrGearItemNotFound
		}
		return nil, fmt.Errorf("failed to query gear item: %w", err)
	}

	return item, nil
}

func insertGearItem(ctx context.Context, ex execer, owner models.Identity, input models.GearItemInput) (int, error) {
	query := `
		INSERT INTO gear_items (user_id, name, weight, category_id, notes, in_wishlist)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := ex.ExecContext(ctx, query, owner.UserID, input.Name, input.Weight, input.CategoryID, input.Notes, input.InWishlist)
	if err != nil {
		return 0, fmt.Errorf("failed to create gear item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get gear item ID: %w", err)
	}

	return int(id), nil
}

func CreateGearItem(ctx context.Context, db *sql.DB, owner models.Identity, input models.GearItemInput) (*models.GearItem, error) {
	id, err := insertGearItem(ctx, db, owner, input)
	if err != nil {
		return nil, err
	}

	return GetGearItem(ctx, db, owner, id)
}

// UpdateGearItem changes only the fields set in update; the rest keep their
// stored values.
func UpdateGearItem(ctx context.Context, db *sql.DB, owner models.Identity, itemID int, update models.GearItemUpdate) (*models.GearItem, error) {
	query := `
		UPDATE gear_items
		SET name = COALESCE(?, name),
		    weight = COALESCE(?, weight),
		    category_id = COALESCE(?, category_id),
		    notes = COALESCE(?, notes),
		    in_wishlist = COALESCE(?, in_wishlist),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`

	result, err := db.ExecContext(ctx, query,
		update.Name, update.Weight, update.CategoryID, update.Notes, update.InWishlist,
		itemID, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update gear item: %w", err)
	}

	updated, err := rowsAffected(result)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrGearItemNotFound
	}

	return GetGearItem(ctx, db, owner, itemID)
}

// DeleteGearItem reports whether a row was removed. Pack list memberships go
// with it through the foreign key cascade.
func DeleteGearItem(ctx context.Context, db *sql.DB, owner models.Identity, itemID int) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM gear_items WHERE id = ? AND user_id = ?`, itemID, owner.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to delete gear item: %w", err)
	}

	return rowsAffected(result)
}

func ToggleWishlist(ctx context.Context, db *sql.DB, owner models.Identity, itemID int) (*models.GearItem, error) {
	query := `
		UPDATE gear_items
		SET in_wishlist = NOT in_wishlist, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`

	result, err := db.ExecContext(ctx, query, itemID, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle wishlist: %w", err)
	}

	updated, err := rowsAffected(result)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrGearItemNotFound
	}

	return GetGearItem(ctx, db, owner, itemID)
}

func GetWishlist(ctx context.Context, db *sql.DB, owner models.Identity) ([]models.GearItem, error) {
	query := `
		SELECT ` + gearItemColumns + `
		FROM gear_items gi
		LEFT JOIN categories c ON gi.category_id = c.id
		WHERE gi.user_id = ? AND gi.in_wishlist = TRUE
		ORDER BY gi.created_at DESC, gi.id DESC
	`

	return queryGearItems(ctx, db, query, owner.UserID)
}

// GetPackListsUsingGearItem names the owner's pack lists that contain the item.
func GetPackListsUsingGearItem(ctx context.Context, db *sql.DB, owner models.Identity, itemID int) ([]string, error) {
	query := `
		SELECT pl.name
		FROM pack_lists pl
		JOIN pack_list_items pli ON pl.id = pli.pack_list_id
		WHERE pli.gear_item_id = ? AND pl.user_id = ?
		ORDER BY pl.name
	`

	rows, err := db.QueryContext(ctx, query, itemID, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pack lists using gear item: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan pack list name: %w", err)
		}
		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pack list names: %w", err)
	}

	return names, nil
}

// ImportGearItems inserts every row or none of them. Categories named by the
// rows are looked up, or created, in the same transaction.
func ImportGearItems(ctx context.Context, db *sql.DB, owner models.Identity, rows []models.GearImportRow) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, row := range rows {
		item := row.GearItemInput
		if row.CategoryName != "" {
			category, err := getOrCreateCategory(ctx, tx, row.CategoryName, row.ActivityType)
			if err != nil {
				return 0, err
			}
			item.CategoryID = &category.ID
		}

		if _, err := insertGearItem(ctx, tx, owner, item); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return len(rows), nil
}
