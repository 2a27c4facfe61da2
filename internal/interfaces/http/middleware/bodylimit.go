package middleware

import (
	"net/http"
	"strconv"

	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over
// the cap is refused with 413 before the handler runs; chunked bodies fail
// on the read that crosses it. Non-positive maxBytes disables the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	tooLarge := "Request body exceeds the " + strconv.FormatInt(maxBytes>>20, 10) + " MB limit"
	if maxBytes < 1<<20 {
		tooLarge = "Request body exceeds the " + strconv.FormatInt(maxBytes, 10) + " byte limit"
	}

	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.Header("Connection", "close")
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, tooLarge, GetRequestID(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
