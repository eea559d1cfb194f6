package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/videocatalog/pkg/api"
	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/internal/storage/db/dbtest"
	"github.com/yeisme/videocatalog/pkg/internal/storage/kv"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memFiles struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (m *memFiles) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.keys[key] = true

	return nil
}

func (m *memFiles) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keys, key)

	return nil
}

func (m *memFiles) URL(key string) string { return "http://cdn.test/" + key }

type server struct {
	t      *testing.T
	engine *gin.Engine
	files  *memFiles
}

func newServer(t *testing.T) *server {
	t.Helper()

	cfg := configs.Defaults()
	cfg.Server.Swagger = false
	cfg.Cache.TTL = time.Minute

	store, err := kv.NewMemoryKV(context.Background(), nil)
	require.NoError(t, err)

	files := &memFiles{keys: map[string]bool{}}
	cat := service.Build(service.Deps{DB: dbtest.Open(t), Files: files, Config: &cfg})

	e := api.RegisterGroup(gin.New(), api.Options{
		Catalog:    cat,
		Config:     &cfg,
		StatsCache: cache.NewCache(store, "test"),
	})

	return &server{t: t, engine: e, files: files}
}

func (s *server) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)

		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())

	return out
}

func (s *server) create(path string, body map[string]any) string {
	s.t.Helper()

	w := s.do(http.MethodPost, path, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	return decode(s.t, w)["data"].(map[string]any)["id"].(string)
}

func TestCategoryLifecycle(t *testing.T) {
	s := newServer(t)

	id := s.create("/api/v1/categories", map[string]any{"name": "Movies", "description": "long ones"})

	w := s.do(http.MethodGet, "/api/v1/categories/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "Movies", data["name"])
	assert.Equal(t, true, data["is_active"])
	assert.Nil(t, data["deleted_at"])

	w = s.do(http.MethodPatch, "/api/v1/categories/"+id, map[string]any{"name": "Films", "is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Films", decode(t, w)["data"].(map[string]any)["name"])

	// PATCH 与 PUT 同样整体校验，缺少必填字段返回 422 且不修改数据
	w = s.do(http.MethodPatch, "/api/v1/categories/"+id, map[string]any{"is_active": true})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["errors"], "name")

	w = s.do(http.MethodGet, "/api/v1/categories/"+id, nil)
	assert.Equal(t, false, decode(t, w)["data"].(map[string]any)["is_active"])

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/categories/"+id, nil).Code)

	w = s.do(http.MethodGet, "/api/v1/categories/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []any{id}, decode(t, w)["missing"])

	w = s.do(http.MethodGet, "/api/v1/categories/"+id+"?with_trashed=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode(t, w)["data"].(map[string]any)["deleted_at"])
}

func TestValidationResponse(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/v1/categories", map[string]any{"name": ""})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode(t, w)
	assert.NotEmpty(t, body["message"])

	errs := body["errors"].(map[string]any)
	name := errs["name"].([]any)
	require.Len(t, name, 1)
	assert.Equal(t, "required", name[0].(map[string]any)["kind"])

	w = s.do(http.MethodPost, "/api/v1/categories", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "empty body validates as an empty payload")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkDelete(t *testing.T) {
	s := newServer(t)

	a := s.create("/api/v1/cast_members", map[string]any{"name": "Jane", "type": 1})
	b := s.create("/api/v1/cast_members", map[string]any{"name": "John", "type": 2})

	w := s.do(http.MethodDelete, "/api/v1/cast_members?ids="+a+",missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []any{"missing"}, decode(t, w)["missing"])

	w = s.do(http.MethodDelete, "/api/v1/cast_members", map[string]any{"ids": []string{}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/cast_members", map[string]any{"ids": []string{a, b}})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/v1/cast_members?only_trashed=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)
}

func TestListEnvelope(t *testing.T) {
	s := newServer(t)

	for _, name := range []string{"a", "b", "c"} {
		s.create("/api/v1/categories", map[string]any{"name": name})
	}

	w := s.do(http.MethodGet, "/api/v1/categories?per_page=2&sort=name&dir=desc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	rows := body["data"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "c", rows[0].(map[string]any)["name"])

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(2), meta["last_page"])
	assert.Equal(t, "/api/v1/categories", meta["path"])

	links := body["links"].(map[string]any)
	assert.Nil(t, links["prev"])
	assert.Contains(t, links["next"], "page=2")
}

func TestVideoMultipartUpload(t *testing.T) {
	s := newServer(t)

	cat := s.create("/api/v1/categories", map[string]any{"name": "Movies"})
	gen := s.create("/api/v1/genres", map[string]any{"name": "Drama", "categories_id": []string{cat}})
	cast := s.create("/api/v1/cast_members", map[string]any{"name": "Jane", "type": 1})

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"title":             "Title",
		"description":       "Description",
		"year_launched":     "2010",
		"opened":            "true",
		"rating":            "L",
		"duration":          "90",
		"categories_id[]":   cat,
		"genres_id[]":       gen,
		"cast_members_id[]": cast,
	} {
		require.NoError(t, mw.WriteField(k, v))
	}

	part, err := mw.CreateFormFile("thumb_file", "thumb.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	assert.Len(t, data["categories"], 1)
	assert.Len(t, data["genres"], 1)
	assert.Equal(t, float64(2010), data["year_launched"])

	thumb, ok := data["thumb_file"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(thumb, ".png"))
	assert.Equal(t, "http://cdn.test/"+data["id"].(string)+"/"+thumb, data["thumb_file_url"])
	assert.Len(t, s.files.keys, 1)
}

func TestStatsIsCached(t *testing.T) {
	s := newServer(t)

	s.create("/api/v1/categories", map[string]any{"name": "Movies"})

	w := s.do(http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	resources := decode(t, w)["resources"].([]any)
	assert.Equal(t, float64(1), resources[0].(map[string]any)["active"])

	s.create("/api/v1/categories", map[string]any{"name": "Series"})

	w = s.do(http.MethodGet, "/api/v1/stats", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	resources = decode(t, w)["resources"].([]any)
	assert.Equal(t, float64(1), resources[0].(map[string]any)["active"], "served from cache within the ttl")
}

func TestHealthWithoutStorage(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decode(t, w)
	assert.Equal(t, "unhealthy", body["status"])

	components := body["components"].(map[string]any)
	assert.Equal(t, "disabled", components["s3"].(map[string]any)["status"])
}

func TestVersion(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/version", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, configs.AppName, decode(t, w)["name"])
}
