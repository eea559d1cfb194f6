// Package crud 提供通用的资源控制器：列表、新增、读取、更新、删除与批量删除.
//
// 具体实体通过实现 Resource 提供校验规则、字段赋值与对外表示；
// 需要多对多关系、筛选或文件上传的实体再额外实现 Relational、Filterable、FileHolder.
// 所有写操作先完成校验，再在一个事务里写根实体、同步关系、上传文件，任一步失败整体回滚.
package crud

import (
	"context"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/yeisme/videocatalog/pkg/filter"
	"github.com/yeisme/videocatalog/pkg/internal/model"
	"github.com/yeisme/videocatalog/pkg/internal/relation"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// Resource 实体相关的钩子.
type Resource[T model.Entity] interface {
	// Name 资源名，同时也是表名，如 "categories".
	Name() string
	// New 返回带默认值的新实体.
	New() T
	RulesStore() rule.Rules
	RulesUpdate(entity T) rule.Rules
	// Apply 把净化后的值写入实体，只处理 values 中出现的字段.
	Apply(entity T, values rule.Values)
	Transform(entity T) any
	// Preloads 读取时预加载的关联.
	Preloads() []string
}

// Relational 实体声明的多对多关系.
type Relational interface {
	Relations() []relation.Declaration
}

// Filterable 实体特有的搜索与筛选.
type Filterable interface {
	Filter(db *gorm.DB, s filter.State) *gorm.DB
	// Sortable 允许排序的列.
	Sortable() []string
	// Extra 资源特有的筛选字段，如演职人员的 type.
	Extra() filter.ExtraFilter
}

// StagedFile 一个待上传的文件，Name 为生成的存储名，Previous 为被替换的旧文件名.
type StagedFile struct {
	Field    string
	Name     string
	Header   *multipart.FileHeader
	Previous string

	Uploaded bool
}

// FileHolder 带文件字段的实体.
type FileHolder[T model.Entity] interface {
	// StageFiles 为 values 中的上传文件生成存储名并写入实体字段.
	StageFiles(entity T, values rule.Values) ([]*StagedFile, error)
	// UploadFiles 在事务内、根实体写入之后执行.
	UploadFiles(ctx context.Context, entity T, files []*StagedFile) error
	// DiscardFiles 事务回滚后删除已上传的文件.
	DiscardFiles(ctx context.Context, entity T, files []*StagedFile)
	// DeleteReplaced 事务提交后删除被替换的旧文件.
	DeleteReplaced(ctx context.Context, entity T, files []*StagedFile)
}
