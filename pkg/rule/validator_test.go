package rule_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/rule"
)

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	if rule.Engine() == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateDefaultConfig 默认配置必须通过 rule 标签校验.
func TestValidateDefaultConfig(t *testing.T) {
	cfg := configs.Defaults()

	if err := rule.ValidateStruct(cfg); err != nil {
		t.Fatalf("default config invalid: %v (%v)", err, rule.StructErrors(err))
	}
}

// TestStructErrors 无效配置应展开为字段到标签的映射.
func TestStructErrors(t *testing.T) {
	cfg := configs.Defaults()
	cfg.Server.Port = 0
	cfg.Log.Format = "xml"

	errs := rule.StructErrors(rule.ValidateStruct(cfg))
	if errs["AppConfig.Server.Port"] != "min=1" {
		t.Errorf("port error = %q", errs["AppConfig.Server.Port"])
	}

	if errs["AppConfig.Log.Format"] == "" {
		t.Errorf("expected log format error, got %v", errs)
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	if err := rule.ValidateVar("2020", "datetime=2006"); err != nil {
		t.Errorf("Expected no error for valid year, got %v", err)
	}

	if err := rule.ValidateVar("20", "datetime=2006"); err == nil {
		t.Error("Expected error for short year, got nil")
	}

	if err := rule.ValidateVar("ação", "max=4"); err != nil {
		t.Errorf("max should count characters, got %v", err)
	}
}

// TestRegisterValidation 测试注册自定义验证.
func TestRegisterValidation(t *testing.T) {
	err := rule.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "L", "10", "12", "14", "16", "18":
			return true
		}

		return false
	})
	if err != nil {
		t.Fatalf("Failed to register validation: %v", err)
	}

	if err := rule.ValidateVar("14", "rating"); err != nil {
		t.Errorf("Expected no error for rating 14, got %v", err)
	}

	if err := rule.ValidateVar("13", "rating"); err == nil {
		t.Error("Expected error for rating 13, got nil")
	}
}

// TestRegisterAlias 测试注册别名.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("catalog_name", "required,max=255")

	if err := rule.ValidateVar("Drama", "catalog_name"); err != nil {
		t.Errorf("Expected no error with alias, got %v", err)
	}

	if err := rule.ValidateVar("", "catalog_name"); err == nil {
		t.Error("Expected error for empty name with alias, got nil")
	}
}
