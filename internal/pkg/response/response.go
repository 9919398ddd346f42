package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Internal logs err and answers with a generic 500. The error text never reaches the client.
func Internal(c *gin.Context, err error) {
	_ = c.Error(err)
	log.Printf("internal_error method=%s path=%s user_id=%d error=%q",
		c.Request.Method, c.Request.URL.Path, c.GetInt64("user_id"), err.Error())
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
