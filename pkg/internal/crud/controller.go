package crud

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/internal/relation"
	"github.com/yeisme/videocatalog/pkg/internal/types"
	nlog "github.com/yeisme/videocatalog/pkg/log"
	"github.com/yeisme/videocatalog/pkg/metrics"
	"github.com/yeisme/videocatalog/pkg/queue"
	"github.com/yeisme/videocatalog/pkg/rule"
	"github.com/yeisme/videocatalog/pkg/tracing"
)

// 指标中的操作结果.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Controller 通用资源控制器.
type Controller[T model.Entity] struct {
	db   *gorm.DB
	res  Resource[T]
	repo *Repository[T]
	sync relation.Synchronizer
	opts options
	log  zerolog.Logger
}

// NewController 创建控制器.
func NewController[T model.Entity](db *gorm.DB, res Resource[T], opts ...Option) *Controller[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := nlog.Component("crud")
	if o.logger != nil {
		logger = *o.logger
	}

	return &Controller[T]{
		db:   db,
		res:  res,
		repo: NewRepository(db, res.Name(), res.New, res.Preloads()...),
		opts: o,
		log:  logger.With().Str("resource", res.Name()).Logger(),
	}
}

// Resource 返回资源钩子.
func (c *Controller[T]) Resource() Resource[T] { return c.res }

// Repository 返回仓储.
func (c *Controller[T]) Repository() *Repository[T] { return c.repo }

// FilterConfig 返回该资源列表接口使用的筛选配置.
func (c *Controller[T]) FilterConfig() filter.Config {
	cfg := filter.Config{RowsPerPage: c.opts.perPage, MaxPerPage: c.opts.maxPerPage}

	if f, ok := any(c.res).(Filterable); ok {
		cfg.Sortable = f.Sortable()
		cfg.Extra = f.Extra()
	}

	return cfg
}

func (c *Controller[T]) relations() []relation.Declaration {
	if r, ok := any(c.res).(Relational); ok {
		return r.Relations()
	}

	return nil
}

// begin 开启 span，返回的函数记录指标并结束 span.
func (c *Controller[T]) begin(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := tracing.StartSpan(ctx, "crud."+op,
		trace.WithAttributes(attribute.String("resource", c.res.Name())))

	return ctx, func(err error) {
		metrics.ObserveEntityOp(c.res.Name(), op, outcome(err))
		tracing.SpanError(span, err)
		span.End()
	}
}

func outcome(err error) string {
	var (
		verr *rule.ValidationError
		nerr *NotFoundError
	)

	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &verr):
		return OutcomeInvalid
	case errors.As(err, &nerr):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// List 返回分页后的列表信封.
func (c *Controller[T]) List(ctx context.Context, p ListParams) (resp types.ListResponse, err error) {
	ctx, end := c.begin(ctx, "list")
	defer func() { end(err) }()

	cfg := c.FilterConfig()
	s := cfg.Normalize(p.State)

	q := c.repo.Query(ctx)
	if p.WithTrashed || p.OnlyTrashed {
		q = q.Unscoped()
	}

	if p.OnlyTrashed {
		q = q.Where("deleted_at IS NOT NULL")
	}

	if f, ok := any(c.res).(Filterable); ok {
		q = f.Filter(q, s)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return resp, fmt.Errorf("count %s: %w", c.res.Name(), err)
	}

	page, perPage := s.Pagination.Page, s.Pagination.PerPage
	if p.All {
		page, perPage = 1, int(max(total, 1))
	}

	rowsQ := q
	if s.Order.Sort != "" && slices.Contains(cfg.Sortable, s.Order.Sort) {
		rowsQ = rowsQ.Order(clause.OrderByColumn{
			Column: clause.Column{Name: s.Order.Sort},
			Desc:   s.Order.Dir == filter.DirDesc,
		})
	} else {
		rowsQ = rowsQ.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	}

	rowsQ = rowsQ.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})

	if !p.All {
		rowsQ = rowsQ.Offset((page - 1) * perPage).Limit(perPage)
	}

	for _, preload := range c.res.Preloads() {
		rowsQ = rowsQ.Preload(preload)
	}

	var rows []T
	if err := rowsQ.Find(&rows).Error; err != nil {
		return resp, fmt.Errorf("list %s: %w", c.res.Name(), err)
	}

	data := make([]any, 0, len(rows))
	for _, row := range rows {
		data = append(data, c.res.Transform(row))
	}

	return envelope(p, data, total, page, perPage), nil
}

// Read 返回未软删除实体的对外表示.
func (c *Controller[T]) Read(ctx context.Context, id string) (out any, err error) {
	ctx, end := c.begin(ctx, "read")
	defer func() { end(err) }()

	var entity T
	if c.opts.cache != nil {
		entity, err = cache.GetOrSet(ctx, c.opts.cache, c.cacheKey(id), func() (T, error) {
			return c.repo.FindOrFail(ctx, id)
		}, c.opts.cacheTTL)
	} else {
		entity, err = c.repo.FindOrFail(ctx, id)
	}

	if err != nil {
		return nil, err
	}

	return c.res.Transform(entity), nil
}

// ReadWithTrashed 返回实体的对外表示，包括已软删除的.
func (c *Controller[T]) ReadWithTrashed(ctx context.Context, id string) (out any, err error) {
	ctx, end := c.begin(ctx, "read")
	defer func() { end(err) }()

	entity, err := c.repo.FindWithTrashed(ctx, id)
	if err != nil {
		return nil, err
	}

	return c.res.Transform(entity), nil
}

// Create 校验载荷并新增实体. 根实体、关系与文件在同一事务内写入.
func (c *Controller[T]) Create(ctx context.Context, payload rule.Payload) (out any, err error) {
	ctx, end := c.begin(ctx, "create")
	defer func() { end(err) }()

	values, err := rule.Validate(rule.NewContext(ctx, c.db, payload), c.res.RulesStore())
	if err != nil {
		return nil, err
	}

	entity := c.res.New()
	c.res.Apply(entity, values)

	if err := c.persist(ctx, entity, values, true); err != nil {
		return nil, err
	}

	return c.committed(ctx, entity.GetID(), queue.ActionCreated)
}

// Update 校验载荷并更新实体. 载荷中未出现的关系保持不变.
func (c *Controller[T]) Update(ctx context.Context, id string, payload rule.Payload) (out any, err error) {
	ctx, end := c.begin(ctx, "update")
	defer func() { end(err) }()

	entity, err := c.repo.FindOrFail(ctx, id)
	if err != nil {
		return nil, err
	}

	values, err := rule.Validate(rule.NewContext(ctx, c.db, payload), c.res.RulesUpdate(entity))
	if err != nil {
		return nil, err
	}

	c.res.Apply(entity, values)

	if err := c.persist(ctx, entity, values, false); err != nil {
		return nil, err
	}

	return c.committed(ctx, id, queue.ActionUpdated)
}

// persist 在一个事务里写根实体、同步关系并上传文件.
func (c *Controller[T]) persist(ctx context.Context, entity T, values rule.Values, create bool) error {
	holder, hasFiles := any(c.res).(FileHolder[T])

	var staged []*StagedFile

	if hasFiles {
		var err error
		if staged, err = holder.StageFiles(entity, values); err != nil {
			return err
		}
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		write := tx.Omit(clause.Associations)

		var err error
		if create {
			err = write.Create(entity).Error
		} else {
			err = write.Save(entity).Error
		}

		if err != nil {
			return fmt.Errorf("save %s: %w", c.res.Name(), err)
		}

		for _, d := range c.relations() {
			if !values.Has(d.Name) {
				continue
			}

			if err := c.sync.Sync(ctx, tx, d, entity.GetID(), values.Strings(d.Name)); err != nil {
				return err
			}
		}

		if hasFiles && len(staged) > 0 {
			return holder.UploadFiles(ctx, entity, staged)
		}

		return nil
	})
	if err != nil {
		if hasFiles && len(staged) > 0 {
			holder.DiscardFiles(context.WithoutCancel(ctx), entity, staged)
		}

		return err
	}

	if hasFiles && len(staged) > 0 {
		holder.DeleteReplaced(context.WithoutCancel(ctx), entity, staged)
	}

	return nil
}

// committed 重新读取已提交的实体，刷新缓存并发布事件.
func (c *Controller[T]) committed(ctx context.Context, id, action string) (any, error) {
	saved, err := c.repo.FindOrFail(ctx, id)
	if err != nil {
		return nil, err
	}

	c.forget(ctx, id)

	out := c.res.Transform(saved)
	c.publish(ctx, action, []string{id}, out)

	return out, nil
}

// Delete 软删除单个实体.
func (c *Controller[T]) Delete(ctx context.Context, id string) (err error) {
	ctx, end := c.begin(ctx, "delete")
	defer func() { end(err) }()

	if err := c.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	c.forget(ctx, id)
	c.publish(ctx, queue.ActionDeleted, []string{id}, nil)

	return nil
}

// BulkDelete 软删除多个实体，全部成功或全部不删除.
func (c *Controller[T]) BulkDelete(ctx context.Context, ids []string) (err error) {
	ctx, end := c.begin(ctx, "bulk_delete")
	defer func() { end(err) }()

	vc := rule.NewContext(ctx, nil, rule.Payload{"ids": ids})
	values, err := rule.Validate(vc, rule.Rules{"ids": {rule.Required(), rule.Array()}})
	if err != nil {
		return err
	}

	ids = rule.Unique(values.Strings("ids"))
	if err := c.repo.BulkSoftDelete(ctx, ids); err != nil {
		return err
	}

	c.forget(ctx, ids...)
	c.publish(ctx, queue.ActionDeleted, ids, nil)

	return nil
}

func (c *Controller[T]) cacheKey(id string) string {
	return CacheKey(c.opts.cache, c.res.Name(), id)
}

// CacheKey 单个实体在读缓存中的键，事件消费者据此失效其他实例写入的缓存.
func CacheKey(c *cache.Cache, resource, id string) string {
	return c.Key(resource, id)
}

func (c *Controller[T]) forget(ctx context.Context, ids ...string) {
	if c.opts.cache == nil {
		return
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.cacheKey(id)
	}

	if err := c.opts.cache.DeleteMany(ctx, keys...); err != nil {
		c.log.Warn().Err(err).Strs("ids", ids).Msg("cache delete failed")
	}
}

func (c *Controller[T]) publish(ctx context.Context, action string, ids []string, data any) {
	if c.opts.events == nil || !c.actionEnabled(action) {
		return
	}

	opts := []queue.Option{queue.WithProducer(configs.AppName)}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		opts = append(opts, queue.WithTraceID(sc.TraceID().String()))
	}

	payload := queue.EntityPayload{Resource: c.res.Name(), Action: action, IDs: ids, Data: data}
	if err := queue.PublishEntity(ctx, c.opts.events, c.res.Name(), payload, opts...); err != nil {
		c.log.Error().Err(err).Str("action", action).Strs("ids", ids).Msg("publish entity event failed")
	}
}

func (c *Controller[T]) actionEnabled(action string) bool {
	switch action {
	case queue.ActionCreated:
		return c.opts.eventCfg.Created
	case queue.ActionUpdated:
		return c.opts.eventCfg.Updated
	case queue.ActionDeleted:
		return c.opts.eventCfg.Deleted
	case queue.ActionPurged:
		return c.opts.eventCfg.Purged
	}

	return false
}
