package models

// Request payloads. Pointer fields distinguish "absent" from a zero value so
// that updates only touch the columns the client sent.

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CategoryInput struct {
	Name         string `json:"name"`
	ActivityType string `json:"activityType"`
}

type CategoryUpdate struct {
	Name         *string `json:"name"`
	ActivityType *string `json:"activityType"`
}

type GearItemInput struct {
	Name       string   `json:"name"`
	Weight     *float64 `json:"weight"`
	CategoryID *int     `json:"categoryId"`
	Notes      *string  `json:"notes"`
	InWishlist bool     `json:"inWishlist"`
}

type GearItemUpdate struct {
	Name       *string  `json:"name"`
	Weight     *float64 `json:"weight"`
	CategoryID *int     `json:"categoryId"`
	Notes      *string  `json:"notes"`
	InWishlist *bool    `json:"inWishlist"`
}

type PackListInput struct {
	Name         string  `json:"name"`
	ActivityType *string `json:"activityType"`
	Date         *string `json:"date"`
}

type PackListUpdate struct {
	Name         *string `json:"name"`
	ActivityType *string `json:"activityType"`
	Date         *string `json:"date"`
}

type AddPackListItem struct {
	GearItemID int `json:"gearItemId"`
}

// GearImportRow is one imported gear item. A non-empty CategoryName is
// resolved to a category, created when missing, as part of the import.
type GearImportRow struct {
	GearItemInput
	CategoryName string
	ActivityType string
}
