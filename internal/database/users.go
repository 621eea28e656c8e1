package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gearshed/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var bcryptCost = 12

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func CreateUser(ctx context.Context, db *sql.DB, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (email, password_hash)
		VALUES (?, ?)
	`

	result, err := db.ExecContext(ctx, query, normalizeEmail(email), string(hashedPassword))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user ID: %w", err)
	}

	user := &models.User{
		ID:           int(id),
		Email:        normalizeEmail(email),
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	return user, nil
}

func GetUserByID(ctx context.Context, db *sql.DB, userID int) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	user, err := scanUser(db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}

func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = ?
	`

	user, err := scanUser(db.QueryRowContext(ctx, query, normalizeEmail(email)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}

// AuthenticateUser returns ErrInvalidCredentials for both an unknown email and
// a wrong password.
func AuthenticateUser(ctx context.Context, db *sql.DB, email, password string) (*models.User, error) {
	user, err := GetUserByEmail(ctx, db, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
