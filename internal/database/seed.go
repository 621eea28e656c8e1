package database

import (
	"context"
	"database/sql"
	"fmt"

	"gearshed/internal/logger"
	"gearshed/internal/models"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo1234"
)

var seedCategories = []models.CategoryInput{
	{Name: "Climbing Hardware", ActivityType: "climbing"},
	{Name: "Rope & Cord", ActivityType: "climbing"},
	{Name: "Protection", ActivityType: "climbing"},
	{Name: "Climbing Clothing", ActivityType: "climbing"},

	{Name: "Skis & Bindings", ActivityType: "skiing"},
	{Name: "Avalanche Safety", ActivityType: "skiing"},
	{Name: "Ski Clothing", ActivityType: "skiing"},
	{Name: "Ski Accessories", ActivityType: "skiing"},

	{Name: "Running Footwear", ActivityType: "trail_running"},
	{Name: "Hydration", ActivityType: "trail_running"},
	{Name: "Running Apparel", ActivityType: "trail_running"},
	{Name: "Nutrition", ActivityType: "trail_running"},

	{Name: "Shelter", ActivityType: "general"},
	{Name: "Sleep System", ActivityType: "general"},
	{Name: "Cooking", ActivityType: "general"},
	{Name: "Navigation", ActivityType: "general"},
	{Name: "First Aid", ActivityType: "general"},
	{Name: "Lighting", ActivityType: "general"},
	{Name: "Electronics", ActivityType: "general"},
	{Name: "Miscellaneous", ActivityType: "general"},
}

type seedGearItem struct {
	name       string
	weight     float64
	category   string
	notes      string
	inWishlist bool
}

var seedGear = []seedGearItem{
	{"Black Diamond Camalot C4 #0.5", 82, "Protection", "Great for finger cracks", false},
	{"Black Diamond Camalot C4 #1", 109, "Protection", "", false},
	{"Black Diamond Camalot C4 #2", 136, "Protection", "", false},
	{"Petzl Spirit Express Quickdraw", 104, "Climbing Hardware", "Set of 6", false},
	{"Sterling Rope 9.8mm x 70m", 4200, "Rope & Cord", "Dry treated", false},
	{"Petzl Sirocco Helmet", 165, "Climbing Hardware", "", false},

	{"Black Diamond Recon BT Beacon", 220, "Avalanche Safety", "", true},
	{"BCA B-1 EXT Shovel", 680, "Avalanche Safety", "", false},
	{"BCA Stealth 270 Probe", 255, "Avalanche Safety", "", false},

	{"Salomon S/Lab Ultra 3", 520, "Running Footwear", "Size 10", false},
	{"Salomon Soft Flask 500ml", 32, "Hydration", "Set of 2", false},

	{"MSR Hubba Hubba NX", 1540, "Shelter", "2-person tent", false},
	{"Therm-a-Rest NeoAir XLite", 340, "Sleep System", "Regular size", false},
	{"Western Mountaineering UltraLite", 850, "Sleep System", "20°F rating", true},
	{"MSR PocketRocket 2", 73, "Cooking", "", false},
	{"Garmin inReach Mini 2", 100, "Electronics", "", false},
	{"Petzl Actik Core", 88, "Lighting", "With rechargeable battery", false},
	{"Adventure Medical Kit Ultralight", 196, "First Aid", ".5 size", false},
}

// Categories whose demo gear goes on the sample pack list.
var seedPackListCategories = map[string]bool{
	"Protection":        true,
	"Climbing Hardware": true,
	"Rope & Cord":       true,
	"Shelter":           true,
	"Sleep System":      true,
	"Cooking":           true,
	"Lighting":          true,
	"First Aid":         true,
}

// Seed loads the category catalog and a demo account with gear and a sample
// pack list. Running it again only adds categories that are missing; the demo
// gear and pack list are created once.
func Seed(ctx context.Context, db *sql.DB) error {
	categoryIDs := make(map[string]int, len(seedCategories))
	for _, input := range seedCategories {
		category, err := GetOrCreateCategory(ctx, db, input.Name, input.ActivityType)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", input.Name, err)
		}
		categoryIDs[category.Name] = category.ID
	}
	logger.Info("Seeded categories", "count", len(categoryIDs))

	user, err := GetUserByEmail(ctx, db, DemoEmail)
	if err != nil && !isNotFound(err) {
		return err
	}
	if user == nil {
		user, err = CreateUser(ctx, db, DemoEmail, DemoPassword)
		if err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
		logger.Info("Created demo user", "email", DemoEmail)
	}
	owner := user.Identity()

	existing, err := GetGearItems(ctx, db, owner)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("Demo gear already present, skipping", "items", len(existing))
		return nil
	}

	var packListGear []int
	for _, g := range seedGear {
		weight := g.weight
		categoryID := categoryIDs[g.category]
		notes := g.notes

		item, err := CreateGearItem(ctx, db, owner, models.GearItemInput{
			Name:       g.name,
			Weight:     &weight,
			CategoryID: &categoryID,
			Notes:      &notes,
			InWishlist: g.inWishlist,
		})
		if err != nil {
			return fmt.Errorf("failed to seed gear item %q: %w", g.name, err)
		}
		if seedPackListCategories[g.category] {
			packListGear = append(packListGear, item.ID)
		}
	}
	logger.Info("Seeded gear items", "count", len(seedGear))

	activityType := "climbing"
	date := "2024-03-15"
	packList, err := CreatePackList(ctx, db, owner, models.PackListInput{
		Name:         "Red Rocks Weekend Trip",
		ActivityType: &activityType,
		Date:         &date,
	})
	if err != nil {
		return fmt.Errorf("failed to create sample pack list: %w", err)
	}

	for _, gearItemID := range packListGear {
		if _, err := AddItemToPackList(ctx, db, owner, packList.ID, gearItemID); err != nil {
			return fmt.Errorf("failed to fill sample pack list: %w", err)
		}
	}
	logger.Info("Created sample pack list", "items", len(packListGear))

	return nil
}
