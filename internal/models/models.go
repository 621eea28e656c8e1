package models

import (
	"time"
)

// Identity is the authenticated user a request acts on behalf of. Every
// owner-scoped store call receives one explicitly.
type Identity struct {
	UserID int
	Email  string
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email}
}

type Category struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ActivityType string    `json:"activity_type" db:"activity_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type GearItem struct {
	ID           int       `json:"id" db:"id"`
	UserID       int       `json:"user_id" db:"user_id"`
	CategoryID   *int      `json:"category_id" db:"category_id"`
	Name         string    `json:"name" db:"name"`
	Weight       *float64  `json:"weight" db:"weight"`
	Notes        *string   `json:"notes" db:"notes"`
	InWishlist   bool      `json:"in_wishlist" db:"in_wishlist"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	CategoryName *string   `json:"category_name" db:"category_name"`
	ActivityType *string   `json:"activity_type" db:"activity_type"`
}

// WeightOrZero treats an unset weight as weightless.
func (g *GearItem) WeightOrZero() float64 {
	if g.Weight == nil {
		return 0
	}
	return *g.Weight
}

type PackList struct {
	ID           string     `json:"id" db:"id"`
	UserID       int        `json:"user_id" db:"user_id"`
	Name         string     `json:"name" db:"name"`
	ActivityType *string    `json:"activity_type" db:"activity_type"`
	Date         *string    `json:"date" db:"date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	Items        []GearItem `json:"items"`
}

// PackListSummary is a pack list row as listed, with its live item count and weight.
type PackListSummary struct {
	PackList
	ItemCount   int     `json:"item_count" db:"item_count"`
	TotalWeight float64 `json:"total_weight" db:"total_weight"`
}

type PackListItem struct {
	ID         int       `json:"id" db:"id"`
	PackListID string    `json:"pack_list_id" db:"pack_list_id"`
	GearItemID int       `json:"gear_item_id" db:"gear_item_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type CategoryWeight struct {
	Category       *string `json:"category"`
	ActivityType   *string `json:"activity_type"`
	ItemCount      int     `json:"item_count"`
	CategoryWeight float64 `json:"category_weight"`
}

type KitAnalysis struct {
	PackList          *PackList        `json:"packList"`
	TotalWeight       float64          `json:"totalWeight"`
	CategoryBreakdown []CategoryWeight `json:"categoryBreakdown"`
	ItemCount         int              `json:"itemCount"`
	HeaviestItems     []GearItem       `json:"heaviestItems"`
}

type UserStats struct {
	TotalGear        int               `json:"totalGear"`
	TotalWeight      float64           `json:"totalWeight"`
	PackLists        int               `json:"packLists"`
	WishlistItems    int               `json:"wishlistItems"`
	RecentPackLists  []PackListSummary `json:"recentPacklists"`
	LightestPackList *PackListSummary  `json:"lightestPacklist,omitempty"`
}
