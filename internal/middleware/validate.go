package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"gearshed/internal/validate"

	"github.com/gin-gonic/gin"
)

// Validate checks the JSON body against schema before the handler runs. The
// body is restored so the handler can bind it again.
func Validate(schema validate.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not read request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		input := map[string]any{}
		if len(bytes.TrimSpace(body)) > 0 {
			decoder := json.NewDecoder(bytes.NewReader(body))
			decoder.UseNumber()
			if err := decoder.Decode(&input); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
				return
			}
		}

		if errs := validate.Check(schema, input); len(errs) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": errs,
			})
			return
		}

		c.Next()
	}
}
