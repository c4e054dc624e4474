package httpx

import "github.com/gin-gonic/gin"

// Pagination mirrors the envelope every list endpoint carries.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Data(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func Message(c *gin.Context, code int, msg string, extra gin.H) {
	body := gin.H{"success": true, "message": msg}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(code, body)
}

func Paged(c *gin.Context, data any, p Pagination) {
	c.JSON(200, gin.H{"success": true, "data": data, "pagination": p})
}

func Error(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "error": msg})
}
