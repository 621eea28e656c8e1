package handlers

import (
	"database/sql"
	"net/http"

	"gearshed/internal/database"
	"gearshed/internal/middleware"
	"gearshed/internal/models"

	"github.com/gin-gonic/gin"
)

const gearItemNotFound = "Gear item not found"

func handleGearItems(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	items, err := database.GetGearItems(c.Request.Context(), db, identity)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func handleGetGearItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	itemID, ok := intParam(c, "id")
	if !ok {
		return
	}

	item, err := database.GetGearItem(c.Request.Context(), db, identity, itemID)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// handleGearItemPackLists names the pack lists an item is on, so the client
// can warn before deleting it.
func handleGearItemPackLists(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	itemID, ok := intParam(c, "id")
	if !ok {
		return
	}

	if _, err := database.GetGearItem(c.Request.Context(), db, identity, itemID); err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	names, err := database.GetPackListsUsingGearItem(c.Request.Context(), db, identity, itemID)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"packlists": names})
}

func handleCreateGearItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	var req models.GearItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	item, err := database.CreateGearItem(c.Request.Context(), db, identity, req)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func handleUpdateGearItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	itemID, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req models.GearItemUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	item, err := database.UpdateGearItem(c.Request.Context(), db, identity, itemID, req)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

func handleDeleteGearItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	itemID, ok := intParam(c, "id")
	if !ok {
		return
	}

	deleted, err := database.DeleteGearItem(c.Request.Context(), db, identity, itemID)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": gearItemNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gear item deleted successfully"})
}

func handleToggleWishlist(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	itemID, ok := intParam(c, "id")
	if !ok {
		return
	}

	item, err := database.ToggleWishlist(c.Request.Context(), db, identity, itemID)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

func handleWishlist(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	items, err := database.GetWishlist(c.Request.Context(), db, identity)
	if err != nil {
		respondError(c, err, gearItemNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
