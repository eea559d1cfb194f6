// Package rule 是请求载荷的校验引擎.
//
// 单值约束（长度、枚举、日期格式）委托给 go-playground/validator，
// 标签名为 "rule"，与 gin 绑定共用同一个引擎实例；
// 字段规则集、跨字段规则与类型转换由 Rules/Validate 实现.
package rule

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	inst *validator.Validate
	once sync.Once
)

// initValidator 尝试复用 gin 的 validator 引擎；若不可用则新建.
func initValidator() {
	if engine := binding.Validator.Engine(); engine != nil {
		if v, ok := engine.(*validator.Validate); ok {
			inst = v
			inst.SetTagName("rule")

			return
		}
	}

	inst = validator.New()
	inst.SetTagName("rule")
}

func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// RegisterValidation 注册自定义标签.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	lazyInit()

	return inst.RegisterValidation(tag, fn, opts...)
}

// ValidationErrors 字段名到失败标签的映射，用于配置校验的可读输出.
type ValidationErrors map[string]string

// ValidateStruct 对结构体执行完整校验（配置、请求体等）.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// StructErrors 将 ValidateStruct 的错误展开为 ValidationErrors，非校验错误返回 nil.
func StructErrors(err error) ValidationErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(ValidationErrors, len(verrs))
	for _, fe := range verrs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag += "=" + fe.Param()
		}

		out[fe.Namespace()] = tag
	}

	return out
}

// ValidateVar 按规则对单个变量校验，例如: ValidateVar("abc", "required,max=255").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// RegisterAlias 注册别名规则.
func RegisterAlias(alias, rules string) {
	lazyInit()

	inst.RegisterAlias(alias, rules)
}
