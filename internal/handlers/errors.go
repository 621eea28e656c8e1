package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gearshed/internal/database"
	"gearshed/internal/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps store errors onto HTTP responses. notFound is the message
// used when the entity is missing or belongs to someone else.
func respondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case database.IsUniqueViolation(err):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Duplicate entry",
			"details": "A record with this value already exists",
		})
	case database.IsForeignKeyViolation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Reference error",
			"details": "Referenced record does not exist",
		})
	default:
		logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// intParam parses a positive integer path parameter. It writes a 400 and
// returns false when the parameter is malformed.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
