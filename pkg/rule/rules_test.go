package rule_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/rule"
)

func categoryRules() rule.Rules {
	return rule.Rules{
		"name":        {rule.Required(), rule.String(), rule.Max(255)},
		"description": {rule.Nullable(), rule.String()},
		"is_active":   {rule.Boolean()},
	}
}

func TestValidateRequiredName(t *testing.T) {
	vc := rule.NewContext(context.Background(), nil, rule.Payload{"name": ""})

	_, err := rule.Validate(vc, categoryRules())

	var verr *rule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name", "required"))
	assert.Equal(t, []string{"name"}, verr.Fields())
	assert.Equal(t, "The name field is required.", verr.Errors["name"][0].Message)
}

func TestValidateReportsEveryField(t *testing.T) {
	vc := rule.NewContext(context.Background(), nil, rule.Payload{
		"name":      string(bytes.Repeat([]byte("a"), 256)),
		"is_active": "maybe",
	})

	_, err := rule.Validate(vc, categoryRules())

	var verr *rule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name", "max.string"))
	assert.Equal(t, int64(255), verr.Errors["name"][0].Params["max"])
	assert.True(t, verr.Has("is_active", "boolean"))
}

func TestValidateSanitizes(t *testing.T) {
	vc := rule.NewContext(context.Background(), nil, rule.Payload{
		"name":        "  Drama ",
		"description": "",
		"is_active":   "0",
		"unknown":     "dropped",
	})

	values, err := rule.Validate(vc, categoryRules())
	require.NoError(t, err)

	assert.Equal(t, "Drama", values.String("name"))
	assert.True(t, values.Has("description"))
	assert.Nil(t, values.StringPtr("description"))
	assert.False(t, values.Bool("is_active"))
	assert.True(t, values.Has("is_active"))
	assert.False(t, values.Has("unknown"))
}

func TestIntegerYearAndIn(t *testing.T) {
	rules := rule.Rules{
		"year_launched": {rule.Required(), rule.Integer(), rule.DateFormat("2006"), rule.Min(1)},
		"rating":        {rule.Required(), rule.In("L", "10", "12", "14", "16", "18")},
		"type":          {rule.Required(), rule.Integer(), rule.In("1", "2")},
	}

	ok := rule.NewContext(context.Background(), nil, rule.Payload{
		"year_launched": float64(2010),
		"rating":        float64(14),
		"type":          "2",
	})

	values, err := rule.Validate(ok, rules)
	require.NoError(t, err)
	assert.Equal(t, 2010, values.Int("year_launched"))
	assert.Equal(t, "14", values.String("rating"))
	assert.Equal(t, 2, values.Int("type"))

	bad := rule.NewContext(context.Background(), nil, rule.Payload{
		"year_launched": "20",
		"rating":        "13",
		"type":          3.5,
	})

	_, err = rule.Validate(bad, rules)

	var verr *rule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("year_launched", "date_format"))
	assert.True(t, verr.Has("rating", "in"))
	assert.True(t, verr.Has("type", "integer"))
}

func TestArrayRequiredAndExists(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:rule_exists?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE categories (id TEXT PRIMARY KEY, deleted_at DATETIME)").Error)
	require.NoError(t, db.Exec("INSERT INTO categories (id, deleted_at) VALUES ('a', NULL), ('b', NULL), ('gone', CURRENT_TIMESTAMP)").Error)

	rules := rule.Rules{"categories_id": {rule.Required(), rule.Array(), rule.Exists("categories")}}

	empty := rule.NewContext(context.Background(), db, rule.Payload{"categories_id": []any{}})
	_, err = rule.Validate(empty, rules)

	var verr *rule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("categories_id", "required"))

	notArray := rule.NewContext(context.Background(), db, rule.Payload{"categories_id": "a"})
	_, err = rule.Validate(notArray, rules)
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("categories_id", "array"))

	trashed := rule.NewContext(context.Background(), db, rule.Payload{"categories_id": []any{"a", "gone", "nope"}})
	_, err = rule.Validate(trashed, rules)
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has("categories_id", "exists"))
	assert.Equal(t, []string{"gone", "nope"}, verr.Errors["categories_id"][0].Params["missing"])

	valid := rule.NewContext(context.Background(), db, rule.Payload{"categories_id": []any{"a", "b", "a"}})
	values, err := rule.Validate(valid, rules)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, values.Strings("categories_id"))
}

func TestCrossFieldRuleSeesSiblings(t *testing.T) {
	sameAsName := rule.Func(func(vc *rule.Context, _ string, value any) (any, error) {
		name, _ := vc.Raw("name")
		if name != value {
			return nil, rule.Violate("same", map[string]any{"other": "name"})
		}

		return value, nil
	})

	vc := rule.NewContext(context.Background(), nil, rule.Payload{"name": "a", "confirm": "b"})
	_, err := rule.Validate(vc, rule.Rules{"name": {rule.Required()}, "confirm": {sameAsName}})

	var verr *rule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("confirm", "same"))
	assert.Equal(t, "The confirm is invalid.", verr.Errors["confirm"][0].Message)
}

func TestExistsWithoutDatabaseFails(t *testing.T) {
	vc := rule.NewContext(context.Background(), nil, rule.Payload{"genres_id": []any{"x"}})

	_, err := rule.Validate(vc, rule.Rules{"genres_id": {rule.Array(), rule.Exists("genres")}})
	require.Error(t, err)

	var verr *rule.ValidationError
	assert.False(t, errors.As(err, &verr), "infrastructure errors are not validation errors")
}

func formFile(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)

	return form.File[field][0]
}

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom\x00\x00\x00\x08free")
)

func TestFileRules(t *testing.T) {
	rules := rule.Rules{
		"thumb_file":   {rule.Image(), rule.Max(5)},
		"trailer_file": {rule.MimeTypes("video/mp4"), rule.MaxFileSize(1024)},
	}

	good := rule.NewContext(context.Background(), nil, rule.Payload{
		"thumb_file":   formFile(t, "thumb_file", "thumb.png", pngHeader),
		"trailer_file": formFile(t, "trailer_file", "trailer.mp4", mp4Header),
	})

	values, err := rule.Validate(good, rules)
	require.NoError(t, err)
	assert.Equal(t, "thumb.png", values.File("thumb_file").Filename)

	bad := rule.NewContext(context.Background(), nil, rule.Payload{
		"thumb_file":   formFile(t, "thumb_file", "thumb.png", mp4Header),
		"trailer_file": formFile(t, "trailer_file", "trailer.mp4", append(mp4Header, bytes.Repeat([]byte{0}, 2<<20)...)),
	})

	_, err = rule.Validate(bad, rules)

	var verr *rule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("thumb_file", "image"))
	assert.True(t, verr.Has("trailer_file", "max.file"))

	notFile := rule.NewContext(context.Background(), nil, rule.Payload{"thumb_file": "thumb.png"})
	_, err = rule.Validate(notFile, rules)
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("thumb_file", "file"))
}

func TestGenresHasCategories(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:rule_genres_categories?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE category_genre (genre_id TEXT, category_id TEXT)").Error)
	// g1 -> c1, g2 -> c2, g3 -> (none)
	require.NoError(t, db.Exec("INSERT INTO category_genre (genre_id, category_id) VALUES ('g1', 'c1'), ('g2', 'c2')").Error)

	rules := rule.Rules{"genres_id": {rule.Required(), rule.Array(), rule.GenresHasCategories("categories_id")}}

	cases := []struct {
		name       string
		categories []any
		genres     []any
		ok         bool
	}{
		{name: "each side covered", categories: []any{"c1", "c2"}, genres: []any{"g1", "g2"}, ok: true},
		{name: "genre without selected category", categories: []any{"c1"}, genres: []any{"g1", "g2"}},
		{name: "category without selected genre", categories: []any{"c1", "c2"}, genres: []any{"g1"}},
		{name: "unlinked genre", categories: []any{"c1"}, genres: []any{"g1", "g3"}},
		{name: "no categories", categories: []any{}, genres: []any{"g1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vc := rule.NewContext(context.Background(), db, rule.Payload{
				"categories_id": tc.categories,
				"genres_id":     tc.genres,
			})

			_, err := rule.Validate(vc, rules)
			if tc.ok {
				require.NoError(t, err)
				return
			}

			var verr *rule.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.Has("genres_id", "genres_has_categories"))
		})
	}
}
