package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondPage wraps a list with its pagination metadata
func RespondPage(c *gin.Context, message string, items interface{}, page, limit int, total int64) {
	RespondJSON(c, "success", http.StatusOK, message, PagedData{
		Items: items,
		Meta:  NewPageMeta(page, limit, total),
	}, nil)
}

// RespondFile streams a generated document as an attachment
func RespondFile(c *gin.Context, contentType, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}
