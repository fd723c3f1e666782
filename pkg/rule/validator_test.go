package rule_test

import (
	"testing"

	"github.com/yeisme/filevault/pkg/rule"
)

// TestStruct 用于测试 ValidateStruct.
type TestStruct struct {
	Name string `rule:"required"`
	Age  int    `rule:"gte=18"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	// 有效结构体
	validStruct := TestStruct{Name: "John", Age: 25}

	err := rule.ValidateStruct(validStruct)
	if err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// 无效结构体：缺少 Name
	invalidStruct1 := TestStruct{Name: "", Age: 25}

	err = rule.ValidateStruct(invalidStruct1)
	if err == nil {
		t.Error("Expected error for invalid struct (missing name), got nil")
	}

	// 无效结构体：Age 小于 18
	invalidStruct2 := TestStruct{Name: "Jane", Age: 16}

	err = rule.ValidateStruct(invalidStruct2)
	if err == nil {
		t.Error("Expected error for invalid struct (age < 18), got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	// 有效目录名
	err := rule.ValidateVar("documents", "required")
	if err != nil {
		t.Errorf("Expected no error for valid var, got %v", err)
	}

	// 空值
	err = rule.ValidateVar("", "required")
	if err == nil {
		t.Error("Expected error for empty var, got nil")
	}
}
