package handlers

import (
	"database/sql"
	"net/http"

	"gearshed/internal/database"
	"gearshed/internal/middleware"

	"github.com/gin-gonic/gin"
)

func handleStats(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	stats, err := database.GetUserStats(c.Request.Context(), db, identity)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
