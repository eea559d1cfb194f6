package service_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/crud"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/internal/service"
	"github.com/yeisme/videocatalog/pkg/internal/types"
	"github.com/yeisme/videocatalog/pkg/rule"
)

func TestCastMemberFilterKeepsDisplayName(t *testing.T) {
	cfg := service.FilterConfigs(filter.DefaultConfig())["cast_members"]

	s := filter.State{
		Search:      "x",
		Pagination:  filter.Pagination{Page: 2, PerPage: 25},
		Order:       filter.Order{Sort: "name", Dir: filter.DirDesc},
		ExtraFilter: map[string]string{"type": "Director"},
	}

	u := cfg.Encode(s)
	assert.Equal(t, "dir=desc&page=2&per_page=25&search=x&sort=name&type=Director", u)
	assert.True(t, cfg.Decode(u).Equal(s), "decoded %+v", cfg.Decode(u))

	// 编码形式的 type 归一为展示名
	assert.Equal(t, map[string]string{"type": "Actor"}, cfg.Decode("type=2").ExtraFilter)
	assert.Nil(t, cfg.Decode("type=Producer").ExtraFilter)
}

// extraValues 每类资源用于生成状态的额外筛选取值，包含非法值.
var extraValues = map[string]map[string][]string{
	"categories":   {"is_active": {"", "true", "false", "1", "maybe"}},
	"genres":       {"is_active": {"", "true", "0"}, "categories": {"", "Movies", "a,b", " , "}},
	"cast_members": {"type": {"", "Director", "Actor", "1", "2", "Extra"}},
	"videos":       {"rating": {"", "L", "18", "99"}, "opened": {"", "true", "no"}, "genres": {"", "Drama"}},
}

func TestProperty_ResourceFilterURLRoundTrip(t *testing.T) {
	for name, cfg := range service.FilterConfigs(filter.DefaultConfig()) {
		t.Run(name, func(t *testing.T) {
			parameters := gopter.DefaultTestParameters()
			parameters.MinSuccessfulTests = 200
			properties := gopter.NewProperties(parameters)

			sortable := append([]string{"", "bogus"}, cfg.Sortable...)
			extra := extraValues[name]
			require.NotEmpty(t, extra)

			genState := func(search string, page, perPage int, sort, dir string, picks []int) filter.State {
				s := filter.State{
					Search:     search,
					Pagination: filter.Pagination{Page: page, PerPage: perPage},
					Order:      filter.Order{Sort: sort, Dir: dir},
				}

				i := 0
				for key, values := range extra {
					if v := values[picks[i]%len(values)]; v != "" {
						if s.ExtraFilter == nil {
							s.ExtraFilter = map[string]string{}
						}

						s.ExtraFilter[key] = v
					}
					i++
				}

				return s
			}

			anyOf := func(values []string) gopter.Gen {
				items := make([]any, len(values))
				for i, v := range values {
					items[i] = v
				}

				return gen.OneConstOf(items...)
			}

			gens := []gopter.Gen{
				gen.AlphaString(),
				gen.IntRange(-5, 500),
				gen.OneConstOf(0, 15, 25, 50, 99),
				anyOf(sortable),
				gen.OneConstOf("", "asc", "desc", "DESC", "sideways"),
				gen.SliceOfN(len(extra), gen.IntRange(0, 10)),
			}

			properties.Property("decode(encode(s)) == s for normalized states", prop.ForAll(
				func(search string, page, perPage int, sort, dir string, picks []int) bool {
					s := cfg.Normalize(genState(search, page, perPage, sort, dir, picks))
					return cfg.Decode(cfg.Encode(s)).Equal(s)
				},
				gens...,
			))

			properties.Property("encode(decode(u)) == u for encoded urls", prop.ForAll(
				func(search string, page, perPage int, sort, dir string, picks []int) bool {
					u := cfg.Encode(genState(search, page, perPage, sort, dir, picks))
					return cfg.Encode(cfg.Decode(u)) == u
				},
				gens...,
			))

			properties.TestingRun(t)
		})
	}
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	plain := f.category(t, "Movies")
	percent := f.category(t, "100% Drama")
	underscore := f.category(t, "snake_case")

	cats := f.catalog.Categories
	search := func(text string) []string {
		resp, err := cats.List(ctx, crud.ParseListParams(cats.FilterConfig(), "/categories", url.Values{"search": {text}}))
		require.NoError(t, err)

		return listIDs(t, resp)
	}

	assert.Equal(t, []string{percent}, search("%"))
	assert.Equal(t, []string{underscore}, search("_"))
	assert.Equal(t, []string{percent}, search("0% d"))
	assert.Empty(t, search("!"))
	assert.Equal(t, []string{plain}, search("MOV"))
}

func TestVideoRequiresCastMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cat := f.category(t, "Movies")
	genre := f.genre(t, "Drama", cat)
	jane := f.castMember(t, "Jane", model.TypeDirector)

	payload := videoPayload(cat, genre, jane)
	delete(payload, "cast_members_id")

	_, err := f.catalog.Videos.Create(ctx, payload)

	var verr *rule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("cast_members_id", "required"))

	payload["cast_members_id"] = []any{}
	_, err = f.catalog.Videos.Create(ctx, payload)
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("cast_members_id", "required"))

	out, err := f.catalog.Videos.Create(ctx, videoPayload(cat, genre, jane))
	require.NoError(t, err)

	video := out.(types.Video)
	require.Len(t, video.CastMembers, 1)

	// 更新同样要求提交演职人员，原有关联不变
	update := videoPayload(cat, genre, jane)
	delete(update, "cast_members_id")

	_, err = f.catalog.Videos.Update(ctx, video.ID, update)
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("cast_members_id", "required"))

	john := f.castMember(t, "John", model.TypeActor)

	out, err = f.catalog.Videos.Update(ctx, video.ID, videoPayload(cat, genre, john))
	require.NoError(t, err)

	updated := out.(types.Video)
	require.Len(t, updated.CastMembers, 1)
	assert.Equal(t, john, updated.CastMembers[0].ID)
}
