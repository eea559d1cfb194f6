package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/videocatalog/pkg/api"
	"github.com/yeisme/videocatalog/pkg/client"
	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/internal/storage/db/dbtest"
	"github.com/yeisme/videocatalog/pkg/rule"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCatalogServer(t *testing.T) (*httptest.Server, *service.Catalog) {
	t.Helper()

	cfg := configs.Defaults()
	cfg.Server.Swagger = false

	cat := service.Build(service.Deps{DB: dbtest.Open(t), Config: &cfg})
	srv := httptest.NewServer(api.RegisterGroup(gin.New(), api.Options{Catalog: cat, Config: &cfg}))
	t.Cleanup(srv.Close)

	return srv, cat
}

func TestListFollowsFilterState(t *testing.T) {
	ctx := context.Background()
	srv, cat := newCatalogServer(t)

	for _, name := range []string{"Drama", "Action", "Documentary"} {
		_, err := cat.Categories.Create(ctx, rule.Payload{"name": name})
		require.NoError(t, err)
	}

	c := client.New(srv.URL)
	cfg, ok := c.FilterConfig("categories")
	require.True(t, ok)

	s := cfg.Reduce(cfg.Initial(), filter.ChangeColumnSort{Sort: "name", Dir: filter.DirDesc})
	s = cfg.Reduce(s, filter.ChangeSearch{Search: "d"})

	resp, err := c.List(ctx, "categories", s)
	require.NoError(t, err)

	rows, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "Drama", rows[0].(map[string]any)["name"])
	assert.Equal(t, "Documentary", rows[1].(map[string]any)["name"])
	assert.EqualValues(t, 2, resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.CurrentPage)
}

func TestListUnknownResource(t *testing.T) {
	c := client.New("http://127.0.0.1:1")

	_, err := c.List(context.Background(), "users", filter.State{})
	require.Error(t, err)
}

func TestTransportErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := client.New(srv.URL)

	_, err := c.List(context.Background(), "genres", filter.DefaultConfig().Initial())

	var terr *client.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusInternalServerError, terr.Status)
	assert.Contains(t, terr.Body, "boom")
}

// 慢请求在返回前被新的 Load 取代，只有后一次结果生效.
func TestLoaderDropsSupersededResponse(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "" {
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[],"links":{"first":"","last":""},"meta":{"current_page":2,"per_page":15,"total":0}}`))
	}))
	defer srv.Close()
	defer close(release)

	c := client.New(srv.URL)
	cfg, _ := c.FilterConfig("videos")

	var (
		errs   []error
		errsMu sync.Mutex
	)

	loader := filter.NewLoader(c.Fetcher("videos"), func(err error) {
		errsMu.Lock()
		errs = append(errs, err)
		errsMu.Unlock()
	})
	defer loader.Close()

	first := make(chan error, 1)

	go func() {
		_, err := loader.Load(context.Background(), cfg.Initial())
		first <- err
	}()

	time.Sleep(50 * time.Millisecond)

	second := cfg.Reduce(cfg.Initial(), filter.ChangePage{Page: 2})
	resp, err := loader.Load(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Meta.CurrentPage)

	select {
	case err := <-first:
		assert.True(t, errors.Is(err, filter.ErrCancelledRequest), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded request did not return")
	}

	errsMu.Lock()
	defer errsMu.Unlock()

	assert.Empty(t, errs)
}
