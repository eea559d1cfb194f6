package crud_test

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/crud"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/internal/relation"
	"github.com/yeisme/videocatalog/pkg/internal/storage/db/dbtest"
	"github.com/yeisme/videocatalog/pkg/internal/storage/kv"
	"github.com/yeisme/videocatalog/pkg/queue"
	"github.com/yeisme/videocatalog/pkg/rule"
)

type categories struct{}

func (categories) Name() string                             { return "categories" }
func (categories) New() *model.Category                     { return &model.Category{IsActive: true} }
func (categories) Preloads() []string                       { return nil }
func (categories) Sortable() []string                       { return []string{"name", "created_at"} }
func (categories) Extra() filter.ExtraFilter                { return filter.ExtraFilter{} }
func (c categories) RulesStore() rule.Rules                 { return c.rules(true) }
func (c categories) RulesUpdate(*model.Category) rule.Rules { return c.rules(true) }

func (categories) rules(required bool) rule.Rules {
	name := []rule.Rule{rule.String(), rule.Max(255)}
	if required {
		name = append([]rule.Rule{rule.Required()}, name...)
	}

	return rule.Rules{"name": name, "is_active": {rule.Boolean()}}
}

func (categories) Apply(e *model.Category, v rule.Values) {
	if v.Has("name") {
		e.Name = v.String("name")
	}

	if v.Has("is_active") {
		e.IsActive = v.Bool("is_active")
	}
}

func (categories) Transform(e *model.Category) any {
	return map[string]any{"id": e.ID, "name": e.Name}
}

func (categories) Filter(db *gorm.DB, s filter.State) *gorm.DB {
	if s.Search != "" {
		db = db.Where("name LIKE ?", "%"+s.Search+"%")
	}

	return db
}

var categoryLinks = relation.Declaration{
	Name:        "categories_id",
	Association: "Categories",
	Table:       "category_genre",
	OwnerKey:    "genre_id",
	ForeignKey:  "category_id",
	Target:      "categories",
}

// genres 的 categories_id 规则可替换，用于绕过 exists 校验触发事务内的关系失败.
type genres struct {
	categoriesRules []rule.Rule
}

func (genres) Name() string                          { return "genres" }
func (genres) New() *model.Genre                     { return &model.Genre{IsActive: true} }
func (genres) Preloads() []string                    { return []string{"Categories"} }
func (genres) Relations() []relation.Declaration     { return []relation.Declaration{categoryLinks} }
func (g genres) RulesUpdate(*model.Genre) rule.Rules { return g.RulesStore() }

func (g genres) RulesStore() rule.Rules {
	return rule.Rules{
		"name":          {rule.Required(), rule.String()},
		"categories_id": g.categoriesRules,
	}
}

func (genres) Apply(e *model.Genre, v rule.Values) {
	if v.Has("name") {
		e.Name = v.String("name")
	}
}

func (genres) Transform(e *model.Genre) any {
	ids := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		ids = append(ids, c.ID)
	}

	return map[string]any{"id": e.ID, "name": e.Name, "categories": ids}
}

type recorder struct {
	mu     sync.Mutex
	topics []string
}

func (r *recorder) Publish(_ context.Context, topic string, _ ...*message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.topics = append(r.topics, topic)

	return nil
}

func newCategory(t *testing.T, c *crud.Controller[*model.Category], name string) string {
	t.Helper()

	out, err := c.Create(context.Background(), rule.Payload{"name": name})
	require.NoError(t, err)

	return out.(map[string]any)["id"].(string)
}

func TestCreateRequiresName(t *testing.T) {
	db := dbtest.Open(t)
	c := crud.NewController(db, categories{})

	_, err := c.Create(context.Background(), rule.Payload{"name": ""})

	var verr *rule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name", "required"))

	var n int64
	require.NoError(t, db.Model(&model.Category{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRelationReplaceSemantics(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	cats := crud.NewController(db, categories{})
	gens := crud.NewController(db, genres{categoriesRules: []rule.Rule{rule.Required(), rule.Array(), rule.Exists("categories")}})

	c1, c2, c3 := newCategory(t, cats, "c1"), newCategory(t, cats, "c2"), newCategory(t, cats, "c3")

	out, err := gens.Create(ctx, rule.Payload{"name": "Drama", "categories_id": []any{c1, c2}})
	require.NoError(t, err)

	id := out.(map[string]any)["id"].(string)
	assert.ElementsMatch(t, []string{c1, c2}, out.(map[string]any)["categories"])

	_, err = gens.Update(ctx, id, rule.Payload{"name": "Drama", "categories_id": []any{c2, c3, c3}})
	require.NoError(t, err)

	linked, err := relation.Linked(ctx, db, categoryLinks, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c2, c3}, linked)
}

func TestRelationFailureRollsBackRootWrite(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	cats := crud.NewController(db, categories{})
	gens := crud.NewController(db, genres{categoriesRules: []rule.Rule{rule.Array()}})

	live := newCategory(t, cats, "live")
	gone := newCategory(t, cats, "gone")
	require.NoError(t, cats.Delete(ctx, gone))

	_, err := gens.Create(ctx, rule.Payload{"name": "Orphan", "categories_id": []any{live, gone}})

	var ierr *relation.IntegrityError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, []string{gone}, ierr.IDs)

	var n int64
	require.NoError(t, db.Unscoped().Model(&model.Genre{}).Count(&n).Error)
	assert.Zero(t, n, "root row must roll back with the relation")

	require.NoError(t, db.Table("category_genre").Count(&n).Error)
	assert.Zero(t, n)
}

func TestSoftDeleteVisibility(t *testing.T) {
	ctx := context.Background()
	c := crud.NewController(dbtest.Open(t), categories{})

	keep := newCategory(t, c, "keep")
	drop := newCategory(t, c, "drop")
	require.NoError(t, c.Delete(ctx, drop))

	_, err := c.Read(ctx, drop)

	var nerr *crud.NotFoundError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, []string{drop}, nerr.IDs)

	_, err = c.ReadWithTrashed(ctx, drop)
	require.NoError(t, err)

	err = c.Delete(ctx, drop)
	require.ErrorAs(t, err, &nerr, "deleting twice reports not found")

	ids := func(p crud.ListParams) []string {
		p.State = c.FilterConfig().Initial()

		resp, err := c.List(ctx, p)
		require.NoError(t, err)

		var out []string
		for _, row := range resp.Data.([]any) {
			out = append(out, row.(map[string]any)["id"].(string))
		}

		return out
	}

	assert.Equal(t, []string{keep}, ids(crud.ListParams{}))
	assert.ElementsMatch(t, []string{keep, drop}, ids(crud.ListParams{WithTrashed: true}))
	assert.Equal(t, []string{drop}, ids(crud.ListParams{OnlyTrashed: true}))
}

func TestBulkDeleteAllOrNothing(t *testing.T) {
	ctx := context.Background()
	c := crud.NewController(dbtest.Open(t), categories{})

	id1 := newCategory(t, c, "one")

	err := c.BulkDelete(ctx, []string{id1, "id2"})

	var nerr *crud.NotFoundError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, []string{"id2"}, nerr.IDs)

	_, err = c.Read(ctx, id1)
	require.NoError(t, err, "nothing is deleted when one id is missing")

	err = c.BulkDelete(ctx, nil)

	var verr *rule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("ids", "required"))

	id2 := newCategory(t, c, "two")
	require.NoError(t, c.BulkDelete(ctx, []string{id1, id2, id1}))

	_, err = c.Read(ctx, id2)
	require.ErrorAs(t, err, &nerr)
}

func TestListEnvelope(t *testing.T) {
	ctx := context.Background()
	c := crud.NewController(dbtest.Open(t), categories{}, crud.WithPaging(2, 10))

	for _, name := range []string{"b", "a", "c"} {
		newCategory(t, c, name)
	}

	q := url.Values{"sort": {"name"}, "page": {"2"}, "per_page": {"2"}}
	resp, err := c.List(ctx, crud.ParseListParams(c.FilterConfig(), "/api/v1/categories", q))
	require.NoError(t, err)

	rows := resp.Data.([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "c", rows[0].(map[string]any)["name"])

	assert.Equal(t, 2, resp.Meta.CurrentPage)
	assert.Equal(t, 2, resp.Meta.LastPage)
	assert.Equal(t, int64(3), resp.Meta.Total)
	require.NotNil(t, resp.Meta.From)
	assert.Equal(t, 3, *resp.Meta.From)
	assert.Equal(t, 3, *resp.Meta.To)
	assert.Nil(t, resp.Links.Next)
	require.NotNil(t, resp.Links.Prev)
	assert.True(t, strings.HasPrefix(*resp.Links.Prev, "/api/v1/categories?"))
	assert.Contains(t, *resp.Links.Prev, "page=1")
	assert.Contains(t, *resp.Links.Prev, "sort=name")

	q.Set("page", "5")
	resp, err = c.List(ctx, crud.ParseListParams(c.FilterConfig(), "/api/v1/categories", q))
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Nil(t, resp.Meta.From)
	assert.Nil(t, resp.Meta.To)

	all, err := c.List(ctx, crud.ParseListParams(c.FilterConfig(), "/api/v1/categories", url.Values{"all": {"1"}, "search": {"a"}}))
	require.NoError(t, err)
	assert.Len(t, all.Data, 1)
	assert.Equal(t, 1, all.Meta.LastPage)
}

func TestCacheAndEvents(t *testing.T) {
	ctx := context.Background()

	store, err := kv.NewMemoryKV(ctx, nil)
	require.NoError(t, err)

	rec := &recorder{}
	c := crud.NewController(dbtest.Open(t), categories{},
		crud.WithCache(cache.NewCache(store, "test"), time.Minute),
		crud.WithEvents(rec, configs.EntityEventsConfig{Created: true, Updated: true, Deleted: true}),
	)

	id := newCategory(t, c, "before")

	out, err := c.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "before", out.(map[string]any)["name"])

	_, err = c.Update(ctx, id, rule.Payload{"name": "after"})
	require.NoError(t, err)

	out, err = c.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "after", out.(map[string]any)["name"], "update invalidates the cached entity")

	require.NoError(t, c.Delete(ctx, id))

	assert.Equal(t, []string{
		queue.Topic("categories", queue.ActionCreated),
		queue.Topic("categories", queue.ActionUpdated),
		queue.Topic("categories", queue.ActionDeleted),
	}, rec.topics)
}
