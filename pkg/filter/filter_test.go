package filter_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/yeisme/videocatalog/pkg/filter"
)

func castMemberConfig() filter.Config {
	cfg := filter.DefaultConfig()
	cfg.Sortable = []string{"name", "type", "created_at"}
	cfg.Extra = filter.ExtraFilter{
		Keys: []string{"type"},
		Normalize: func(_, v string) (string, bool) {
			return v, v == "Director" || v == "Actor"
		},
	}

	return cfg
}

func TestReduceTransitions(t *testing.T) {
	cfg := castMemberConfig()
	s := cfg.Initial()

	s = cfg.Reduce(s, filter.ChangePage{Page: 3})
	assert.Equal(t, 3, s.Pagination.Page)

	s = cfg.Reduce(s, filter.ChangeSearch{Search: "  john   doe "})
	assert.Equal(t, "john doe", s.Search)
	assert.Equal(t, 1, s.Pagination.Page, "search resets page")

	s = cfg.Reduce(s, filter.ChangePage{Page: 2})
	s = cfg.Reduce(s, filter.ChangeRowsPerPage{PerPage: 25})
	assert.Equal(t, filter.Pagination{Page: 1, PerPage: 25}, s.Pagination)

	s = cfg.Reduce(s, filter.ChangeRowsPerPage{PerPage: 7})
	assert.Equal(t, 15, s.Pagination.PerPage, "unknown page size falls back to default")

	s = cfg.Reduce(s, filter.ChangeColumnSort{Sort: "name", Dir: "DESC"})
	assert.Equal(t, filter.Order{Sort: "name", Dir: "desc"}, s.Order)

	s = cfg.Reduce(s, filter.ChangeColumnSort{Sort: "password", Dir: "asc"})
	assert.Equal(t, filter.Order{}, s.Order, "non sortable column is dropped")

	s = cfg.Reduce(s, filter.ChangePage{Page: 4})
	s = cfg.Reduce(s, filter.ChangeExtraFilter{Values: map[string]string{"type": "Director"}})
	assert.Equal(t, map[string]string{"type": "Director"}, s.ExtraFilter)
	assert.Equal(t, 1, s.Pagination.Page)

	s = cfg.Reduce(s, filter.ChangeExtraFilter{Values: map[string]string{"type": "Producer"}})
	assert.Nil(t, s.ExtraFilter, "invalid extra filter values are dropped")

	s = cfg.Reduce(s, filter.ChangeExtraFilter{Values: map[string]string{"type": "Actor"}})
	s = cfg.Reduce(s, filter.ChangeExtraFilter{Values: map[string]string{"type": ""}})
	assert.Nil(t, s.ExtraFilter, "empty value removes the key")

	s = cfg.Reduce(s, filter.ResetFilter{})
	assert.True(t, s.Equal(cfg.Initial()))
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	cfg := castMemberConfig()
	s := cfg.Reduce(cfg.Initial(), filter.ChangeExtraFilter{Values: map[string]string{"type": "Actor"}})

	_ = cfg.Reduce(s, filter.ChangeExtraFilter{Values: map[string]string{"type": ""}})
	assert.Equal(t, "Actor", s.ExtraFilter["type"])
}

func TestEncodeDecodeExample(t *testing.T) {
	cfg := castMemberConfig()
	s := filter.State{
		Search:      "john",
		Pagination:  filter.Pagination{Page: 2, PerPage: 25},
		Order:       filter.Order{Sort: "name", Dir: "desc"},
		ExtraFilter: map[string]string{"type": "Director"},
	}

	u := cfg.Encode(s)
	assert.Equal(t, "dir=desc&page=2&per_page=25&search=john&sort=name&type=Director", u)
	assert.True(t, cfg.Decode(u).Equal(s))
	assert.Equal(t, u, cfg.Encode(cfg.Decode(u)))
}

func TestDecodeNormalizes(t *testing.T) {
	cfg := castMemberConfig()

	s := cfg.Decode("page=-4&per_page=1000&sort=secret&type=Nobody&unknown=1")
	assert.True(t, s.Equal(cfg.Initial()))

	s = cfg.Decode("%zz")
	assert.True(t, s.Equal(cfg.Initial()))
}

func TestDecodeWithoutOptionsUsesMax(t *testing.T) {
	cfg := filter.Config{RowsPerPage: 15, MaxPerPage: 100}

	assert.Equal(t, 80, cfg.Decode("per_page=80").Pagination.PerPage)
	assert.Equal(t, 15, cfg.Decode("per_page=101").Pagination.PerPage)
}

func TestProperty_URLRoundTrip(t *testing.T) {
	cfg := castMemberConfig()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genState := func(word1, word2 string, page, perPage int, sort, dir, typ string) filter.State {
		s := filter.State{
			Search:     word1 + " " + word2,
			Pagination: filter.Pagination{Page: page, PerPage: perPage},
			Order:      filter.Order{Sort: sort, Dir: dir},
		}
		if typ != "" {
			s.ExtraFilter = map[string]string{"type": typ}
		}

		return s
	}

	gens := []gopter.Gen{
		gen.AlphaString(),
		gen.AlphaString(),
		gen.IntRange(-5, 500),
		gen.OneConstOf(0, 15, 25, 50, 99),
		gen.OneConstOf("", "name", "type", "created_at", "bogus"),
		gen.OneConstOf("", "asc", "desc", "DESC", "sideways"),
		gen.OneConstOf("", "Director", "Actor", "Extra"),
	}

	properties.Property("decode(encode(s)) == s for normalized states", prop.ForAll(
		func(w1, w2 string, page, perPage int, sort, dir, typ string) bool {
			s := cfg.Normalize(genState(w1, w2, page, perPage, sort, dir, typ))
			return cfg.Decode(cfg.Encode(s)).Equal(s)
		},
		gens...,
	))

	properties.Property("encode(decode(u)) == u for encoded urls", prop.ForAll(
		func(w1, w2 string, page, perPage int, sort, dir, typ string) bool {
			u := cfg.Encode(genState(w1, w2, page, perPage, sort, dir, typ))
			return cfg.Encode(cfg.Decode(u)) == u
		},
		gens...,
	))

	properties.TestingRun(t)
}
