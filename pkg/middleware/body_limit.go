package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit 限制请求体大小. 声明的 Content-Length 超限时直接返回 413，
// 未声明长度的请求在读取超限时由绑定报错. n <= 0 时不限制.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
