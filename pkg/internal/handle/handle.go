// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/videocatalog/pkg/context"
	"github.com/yeisme/videocatalog/pkg/internal/crud"
	"github.com/yeisme/videocatalog/pkg/internal/relation"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/internal/types"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// abortWithError 把服务层错误映射为状态码并写出响应.
func abortWithError(c *gin.Context, err error) {
	l := ctxPkg.Logger(c.Request.Context(), "handle")

	var (
		verr *rule.ValidationError
		nerr *crud.NotFoundError
		ierr *relation.IntegrityError
	)

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, validationResponse(verr))
	case errors.As(err, &nerr):
		c.AbortWithStatusJSON(http.StatusNotFound, types.NotFoundResponse{Error: nerr.Error(), Missing: nerr.IDs})
	case errors.As(err, &ierr):
		l.Error().Err(err).Str("relation", ierr.Relation).Strs("ids", ierr.IDs).Msg("relation integrity violated")
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrFileStorageDisabled):
		l.Error().Err(err).Msg("file storage not configured")
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	default:
		l.Error().Err(err).Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	}
}

func validationResponse(verr *rule.ValidationError) types.ValidationResponse {
	out := types.ValidationResponse{
		Message: "The given data was invalid.",
		Errors:  make(map[string][]types.FieldViolation, len(verr.Errors)),
	}

	for field, vs := range verr.Errors {
		for _, v := range vs {
			out.Errors[field] = append(out.Errors[field], types.FieldViolation{Kind: v.Kind, Params: v.Params, Message: v.Message})
		}
	}

	return out
}

func badRequest(c *gin.Context, err error) {
	l := ctxPkg.Logger(c.Request.Context(), "handle")
	l.Warn().Err(err).Msg("invalid request")
	c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
}

// bindPayload 读取 JSON 或表单请求体.
// 表单中以 [] 结尾或出现多次的键解析为数组，文件字段取第一个文件.
func bindPayload(c *gin.Context) (rule.Payload, error) {
	if c.Request.ContentLength == 0 && c.Request.Header.Get("Transfer-Encoding") == "" {
		return rule.Payload{}, nil
	}

	mediaType, _, _ := mime.ParseMediaType(c.ContentType())

	switch mediaType {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}

		payload := formValues(form.Value)

		for key, files := range form.File {
			if len(files) > 0 {
				payload[strings.TrimSuffix(key, "[]")] = files[0]
			}
		}

		return payload, nil
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}

		return formValues(c.Request.PostForm), nil
	default:
		payload := rule.Payload{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}

		return payload, nil
	}
}

func formValues(values map[string][]string) rule.Payload {
	payload := make(rule.Payload, len(values))

	for key, vals := range values {
		name, isList := strings.CutSuffix(key, "[]")
		if !isList && len(vals) == 1 {
			payload[name] = vals[0]
			continue
		}

		list := make([]any, 0, len(vals))
		for _, v := range vals {
			list = append(list, v)
		}

		payload[name] = list
	}

	return payload
}

// bulkIDs 从请求体 {"ids": [...]} 或查询参数 ids=a,b 读取标识符.
func bulkIDs(c *gin.Context) ([]string, error) {
	if raw := c.Query("ids"); raw != "" {
		var ids []string

		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}

		return ids, nil
	}

	if c.Request.ContentLength == 0 {
		return nil, nil
	}

	var req types.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("decode json body: %w", err)
	}

	return req.IDs, nil
}
