package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"gearshed/internal/database"
	"gearshed/internal/models"

	"github.com/gin-gonic/gin"
)

const categoryNotFound = "Category not found"

func handleCategories(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	var categories []models.Category
	var err error
	if activityType := strings.TrimSpace(c.Query("activityType")); activityType != "" {
		categories, err = database.GetCategoriesByActivityType(c.Request.Context(), db, activityType)
	} else {
		categories, err = database.GetCategories(c.Request.Context(), db)
	}
	if err != nil {
		respondError(c, err, categoryNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func handleActivityTypes(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	activityTypes, err := database.GetActivityTypes(c.Request.Context(), db)
	if err != nil {
		respondError(c, err, categoryNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activityTypes": activityTypes})
}

func handleGetCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	categoryID, ok := intParam(c, "id")
	if !ok {
		return
	}

	category, err := database.GetCategory(c.Request.Context(), db, categoryID)
	if err != nil {
		respondError(c, err, categoryNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

func handleCreateCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	var req models.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	category, err := database.CreateCategory(c.Request.Context(), db, req.Name, req.ActivityType)
	if err != nil {
		respondError(c, err, categoryNotFound)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func handleUpdateCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	categoryID, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req models.CategoryUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	category, err := database.UpdateCategory(c.Request.Context(), db, categoryID, req)
	if err != nil {
		respondError(c, err, categoryNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

func handleDeleteCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	categoryID, ok := intParam(c, "id")
	if !ok {
		return
	}

	deleted, err := database.DeleteCategory(c.Request.Context(), db, categoryID)
	if err != nil {
		respondError(c, err, categoryNotFound)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": categoryNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
