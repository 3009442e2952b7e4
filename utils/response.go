// utils/response.go
package utils

import "github.com/gin-gonic/gin"

// RespondWithError sends a user-facing error notification. Nothing that
// reaches this helper is fatal; the caller's state is unchanged.
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// RespondWithFieldErrors sends a field-keyed validation error map so the
// client can surface each message next to the offending field.
func RespondWithFieldErrors(c *gin.Context, status int, fields map[string]string) {
	c.JSON(status, gin.H{"error": "validation failed", "fields": fields})
}
