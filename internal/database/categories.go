package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gearshed/internal/models"
)

// Categories are a catalog shared by every user, so none of these functions
// take an owner.

func CreateCategory(ctx context.Context, db *sql.DB, name, activityType string) (*models.Category, error) {
	return createCategory(ctx, db, name, activityType)
}

func createCategory(ctx context.Context, ex execer, name, activityType string) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, activity_type)
		VALUES (?, ?)
	`

	result, err := ex.ExecContext(ctx, query, name, activityType)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	category := &models.Category{
		ID:           int(id),
		Name:         name,
		ActivityType: activityType,
		CreatedAt:    time.Now(),
	}

	return category, nil
}

func queryCategories(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.Category, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.ActivityType,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func GetCategories(ctx context.Context, db *sql.DB) ([]models.Category, error) {
	return queryCategories(ctx, db, `
		SELECT id, name, activity_type, created_at
		FROM categories
		ORDER BY activity_type, name
	`)
}

func GetCategoriesByActivityType(ctx context.Context, db *sql.DB, activityType string) ([]models.Category, error) {
	return queryCategories(ctx, db, `
		SELECT id, name, activity_type, created_at
		FROM categories
		WHERE activity_type = ?
		ORDER BY name
	`, activityType)
}

func GetCategory(ctx context.Context, db *sql.DB, categoryID int) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, name, activity_type, created_at
		FROM categories
		WHERE id = ?
	`

	err := db.QueryRowContext(ctx, query, categoryID).Scan(
		&category.ID,
		&category.Name,
		&category.ActivityType,
		&category.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return category, nil
}

// UpdateCategory changes only the fields set in update.
func UpdateCategory(ctx context.Context, db *sql.DB, categoryID int, update models.CategoryUpdate) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = COALESCE(?, name),
		    activity_type = COALESCE(?, activity_type)
		WHERE id = ?
	`

	result, err := db.ExecContext(ctx, query, update.Name, update.ActivityType, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	updated, err := rowsAffected(result)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("category %w", ErrNotFound)
	}

	return GetCategory(ctx, db, categoryID)
}

// DeleteCategory reports whether a row was removed. Gear items that referenced
// the category become uncategorized.
func DeleteCategory(ctx context.Context, db *sql.DB, categoryID int) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, categoryID)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	return rowsAffected(result)
}

func GetActivityTypes(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT activity_type FROM categories ORDER BY activity_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity types: %w", err)
	}
	defer rows.Close()

	activityTypes := []string{}
	for rows.Next() {
		var activityType string
		if err := rows.Scan(&activityType); err != nil {
			return nil, fmt.Errorf("failed to scan activity type: %w", err)
		}
		activityTypes = append(activityTypes, activityType)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity types: %w", err)
	}

	return activityTypes, nil
}

// GetOrCreateCategory looks a category up by its unique (name, activity_type)
// pair and creates it when missing.
func GetOrCreateCategory(ctx context.Context, db *sql.DB, name, activityType string) (*models.Category, error) {
	return getOrCreateCategory(ctx, db, name, activityType)
}

func getOrCreateCategory(ctx context.Context, q queryExecer, name, activityType string) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, name, activity_type, created_at
		FROM categories
		WHERE name = ? AND activity_type = ?
	`

	err := q.QueryRowContext(ctx, query, name, activityType).Scan(
		&category.ID,
		&category.Name,
		&category.ActivityType,
		&category.CreatedAt,
	)
	if err == nil {
		return category, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return createCategory(ctx, q, name, activityType)
}
