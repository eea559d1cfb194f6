package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/videocatalog/pkg/internal/service"
)

// Stats 返回各资源的有效与已删除数量以及关联表行数.
//
//	@Summary	目录统计
//	@Tags		统计
//	@Produce	json
//	@Success	200	{object}	types.StatsSummary
//	@Failure	500	{object}	types.ErrorResponse
//	@Router		/api/v1/stats [get]
func Stats(cat *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := cat.Stats(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, sum)
	}
}
