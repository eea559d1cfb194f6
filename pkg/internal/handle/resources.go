package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/videocatalog/pkg/internal/crud"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/internal/types"
)

// Resource 单个资源的 REST 处理器，全部逻辑委托给通用控制器.
type Resource[T model.Entity] struct {
	ctl *crud.Controller[T]
}

// NewResource 创建资源处理器.
func NewResource[T model.Entity](ctl *crud.Controller[T]) *Resource[T] {
	return &Resource[T]{ctl: ctl}
}

// Name 资源名，同时是路由段.
func (h *Resource[T]) Name() string { return h.ctl.Resource().Name() }

// Index 分页列表.
//
//	@Summary		资源列表
//	@Description	支持 search、page、per_page、sort、dir、all、with_trashed、only_trashed 及各资源的额外过滤参数
//	@Tags			资源
//	@Produce		json
//	@Param			resource		path		string	true	"categories | genres | cast_members | videos"
//	@Param			search			query		string	false	"模糊搜索"
//	@Param			page			query		int		false	"页码(默认1)"
//	@Param			per_page		query		int		false	"每页条数(默认15)"
//	@Param			sort			query		string	false	"排序字段"
//	@Param			dir				query		string	false	"asc | desc"
//	@Param			all				query		bool	false	"返回全部匹配行"
//	@Param			with_trashed	query		bool	false	"包含已删除"
//	@Param			only_trashed	query		bool	false	"只看已删除"
//	@Success		200				{object}	types.ListResponse
//	@Failure		500				{object}	types.ErrorResponse
//	@Router			/api/v1/{resource} [get]
func (h *Resource[T]) Index(c *gin.Context) {
	q := c.Request.URL.Query()

	resp, err := h.ctl.List(c.Request.Context(), crud.ParseListParams(h.ctl.FilterConfig(), c.Request.URL.Path, q))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Store 创建实体. videos 支持 multipart 上传文件字段.
//
//	@Summary	创建资源
//	@Tags		资源
//	@Accept		json,mpfd
//	@Produce	json
//	@Param		resource	path		string	true	"categories | genres | cast_members | videos"
//	@Success	201			{object}	types.DataResponse
//	@Failure	400			{object}	types.ErrorResponse
//	@Failure	422			{object}	types.ValidationResponse
//	@Failure	500			{object}	types.ErrorResponse
//	@Router		/api/v1/{resource} [post]
func (h *Resource[T]) Store(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	out, err := h.ctl.Create(c.Request.Context(), payload)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.DataResponse{Data: out})
}

// Show 读取单个实体，with_trashed=true 时可读取已删除实体.
//
//	@Summary	资源详情
//	@Tags		资源
//	@Produce	json
//	@Param		resource		path		string	true	"categories | genres | cast_members | videos"
//	@Param		id				path		string	true	"实体ID"
//	@Param		with_trashed	query		bool	false	"允许读取已删除"
//	@Success	200				{object}	types.DataResponse
//	@Failure	404				{object}	types.NotFoundResponse
//	@Router		/api/v1/{resource}/{id} [get]
func (h *Resource[T]) Show(c *gin.Context) {
	var (
		out any
		err error
	)

	if trashed, _ := strconv.ParseBool(c.Query("with_trashed")); trashed {
		out, err = h.ctl.ReadWithTrashed(c.Request.Context(), c.Param("id"))
	} else {
		out, err = h.ctl.Read(c.Request.Context(), c.Param("id"))
	}

	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{Data: out})
}

// Update 更新实体，PUT 与 PATCH 语义相同：按新增规则整体校验，必填字段必须全部提交，关联字段整体替换.
//
//	@Summary	更新资源
//	@Tags		资源
//	@Accept		json,mpfd
//	@Produce	json
//	@Param		resource	path		string	true	"categories | genres | cast_members | videos"
//	@Param		id			path		string	true	"实体ID"
//	@Success	200			{object}	types.DataResponse
//	@Failure	404			{object}	types.NotFoundResponse
//	@Failure	422			{object}	types.ValidationResponse
//	@Router		/api/v1/{resource}/{id} [put]
func (h *Resource[T]) Update(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	out, err := h.ctl.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{Data: out})
}

// Destroy 软删除单个实体.
//
//	@Summary	删除资源
//	@Tags		资源
//	@Param		resource	path	string	true	"categories | genres | cast_members | videos"
//	@Param		id			path	string	true	"实体ID"
//	@Success	204
//	@Failure	404	{object}	types.NotFoundResponse
//	@Router		/api/v1/{resource}/{id} [delete]
func (h *Resource[T]) Destroy(c *gin.Context) {
	if err := h.ctl.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DestroyCollection 批量软删除，任一标识符缺失时不删除任何实体.
//
//	@Summary	批量删除资源
//	@Tags		资源
//	@Accept		json
//	@Param		resource	path	string					true	"categories | genres | cast_members | videos"
//	@Param		ids			query	string					false	"逗号分隔的ID"
//	@Param		body		body	types.BulkDeleteRequest	false	"ID 列表"
//	@Success	204
//	@Failure	404	{object}	types.NotFoundResponse
//	@Failure	422	{object}	types.ValidationResponse
//	@Router		/api/v1/{resource} [delete]
func (h *Resource[T]) DestroyCollection(c *gin.Context) {
	ids, err := bulkIDs(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.ctl.BulkDelete(c.Request.Context(), ids); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
