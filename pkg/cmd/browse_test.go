package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

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

func TestBrowseAppliesPendingSearchAtEOF(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	cfg := configs.Defaults()
	cfg.Server.Swagger = false

	cat := service.Build(service.Deps{DB: dbtest.Open(t), Config: &cfg})
	for _, name := range []string{"Drama", "Action", "Documentary"} {
		_, err := cat.Categories.Create(ctx, rule.Payload{"name": name})
		require.NoError(t, err)
	}

	srv := httptest.NewServer(api.RegisterGroup(gin.New(), api.Options{Catalog: cat, Config: &cfg}))
	defer srv.Close()

	var out bytes.Buffer

	in := strings.NewReader("sort name desc\n/dr\n")
	require.NoError(t, browse(ctx, in, &out, client.New(srv.URL), "categories", ""))

	got := out.String()
	assert.Contains(t, got, "> /categories?dir=desc&sort=name")
	assert.Contains(t, got, "> /categories?dir=desc&search=dr&sort=name")
	assert.True(t, strings.HasSuffix(got, "categories page 1/1, 1 total\n"), got)
}

func TestBrowseUnknownResource(t *testing.T) {
	err := browse(context.Background(), strings.NewReader(""), &bytes.Buffer{}, client.New("http://127.0.0.1:1"), "users", "")
	require.Error(t, err)
}

func TestBrowseParse(t *testing.T) {
	b := &browser{lastPage: 3}
	s := filter.DefaultConfig().Initial()

	cases := []struct {
		line string
		want filter.Action
	}{
		{"/ star wars", filter.ChangeSearch{Search: " star wars"}},
		{"n", filter.ChangePage{Page: 2}},
		{"p", filter.ChangePage{Page: 1}},
		{"page 3", filter.ChangePage{Page: 3}},
		{"per 25", filter.ChangeRowsPerPage{PerPage: 25}},
		{"sort title desc", filter.ChangeColumnSort{Sort: "title", Dir: "desc"}},
		{"set rating = 18", filter.ChangeExtraFilter{Values: map[string]string{"rating": "18"}}},
		{"set opened=", filter.ChangeExtraFilter{Values: map[string]string{"opened": ""}}},
		{"reset", filter.ResetFilter{}},
	}

	for _, tc := range cases {
		a, quit, err := b.parse(s, tc.line)
		require.NoError(t, err, tc.line)
		assert.False(t, quit)
		assert.Equal(t, tc.want, a, tc.line)
	}

	_, quit, err := b.parse(s, "q")
	require.NoError(t, err)
	assert.True(t, quit)

	_, _, err = b.parse(s, "page x")
	require.Error(t, err)

	_, _, err = b.parse(s, "frobnicate")
	require.Error(t, err)
}
