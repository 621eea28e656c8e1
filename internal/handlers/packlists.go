package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"gearshed/internal/database"
	"gearshed/internal/middleware"
	"gearshed/internal/models"

	"github.com/gin-gonic/gin"
)

const packListNotFound = "Pack list not found"

func handlePackLists(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	packLists, err := database.GetPackLists(c.Request.Context(), db, identity)
	if err != nil {
		respondError(c, err, packListNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"packlists": packLists})
}

func handleGetPackList(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	packList, err := database.GetPackListWithItems(c.Request.Context(), db, identity, c.Param("id"))
	if err != nil {
		respondError(c, err, packListNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"packlist": packList})
}

func handleCreatePackList(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	var req models.PackListInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	packList, err := database.CreatePackList(c.Request.Context(), db, identity, req)
	if err != nil {
		respondError(c, err, packListNotFound)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"packlist": packList})
}

func handleUpdatePackList(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	var req models.PackListUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	packList, err := database.UpdatePackList(c.Request.Context(), db, identity, c.Param("id"), req)
	if err != nil {
		respondError(c, err, packListNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"packlist": packList})
}

func handleDeletePackList(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	deleted, err := database.DeletePackList(c.Request.Context(), db, identity, c.Param("id"))
	if err != nil {
		respondError(c, err, packListNotFound)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": packListNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pack list deleted successfully"})
}

func handleAddPackListItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	var req models.AddPackListItem
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	item, err := database.AddItemToPackList(c.Request.Context(), db, identity, c.Param("id"), req.GearItemID)
	if err != nil {
		if errors.Is(err, database.ErrGearItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": gearItemNotFound})
			return
		}
		respondError(c, err, packListNotFound)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to pack list",
		"item":    item,
	})
}

func handleRemovePackListItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	itemID, ok := intParam(c, "itemId")
	if !ok {
		return
	}

	removed, err := database.RemoveItemFromPackList(c.Request.Context(), db, identity, c.Param("id"), itemID)
	if err != nil {
		respondError(c, err, "Pack list or item not found")
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pack list or item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from pack list"})
}

func handlePackListWeight(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	totalWeight, err := database.GetPackListWeight(c.Request.Context(), db, identity, c.Param("id"))
	if err != nil {
		respondError(c, err, packListNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalWeight": totalWeight})
}

func handleAnalyzePackList(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	analysis, err := database.AnalyzePackList(c.Request.Context(), db, identity, c.Param("id"))
	if err != nil {
		respondError(c, err, packListNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
