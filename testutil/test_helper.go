/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用数据工厂
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 测试数据创建 -> 测试执行 -> 结果断言
 * @rules 提供可重用的报表行工厂，确保测试数据形态一致
 * @dependencies gorm, sqlite, testify
 * @refs service/validation, service/rules
 */

package testutil

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ibs-validation-service/service/dataset"
	"ibs-validation-service/service/validation"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建内存sqlite测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}
	return &TestDB{DB: db}
}

// Close 关闭测试数据库连接
func (t *TestDB) Close() {
	sqlDB, err := t.DB.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// TestContext 测试用校验上下文
func TestContext() validation.ValidationContext {
	return validation.ValidationContext{
		ReportingCountry: "CA",
		CurrencyCode:     "CAD",
		Quarter:          "2025-Q3",
	}
}

// LBSRow 构建标准维度的LBS报表行，overrides覆盖默认维度取值
func LBSRow(value float64, overrides map[string]interface{}) dataset.Row {
	row := dataset.Row{
		"POSITION":      "C",
		"INSTRUMENT":    "A",
		"DENOM":         "TO1",
		"CURR_TYPE":     "A",
		"PARENT_CTY":    "5J",
		"REP_BANK_TYPE": "A",
		"REP_CTY":       "CA",
		"CP_SECTOR":     "A",
		"CP_COUNTRY":    "US",
		"VALUE":         value,
	}
	for col, val := range overrides {
		row[col] = val
	}
	return row
}

// CBSRow 构建标准维度的CBS报表行，overrides覆盖默认维度取值
func CBSRow(value float64, overrides map[string]interface{}) dataset.Row {
	row := dataset.Row{
		"MEASURE":            "A",
		"REP_COUNTRY":        "CA",
		"BANK_TYPE":          "CA",
		"REPORTING_BASIS":    "F",
		"POSITION":           "I",
		"INSTRUMENT":         "A",
		"REMAINING_MATURITY": "A",
		"CP_CURRENCY":        "TO1",
		"CP_SECTOR":          "A",
		"CP_COUNTRY":         "US",
		"VALUE":              value,
	}
	for col, val := range overrides {
		row[col] = val
	}
	return row
}

// FindFailure 按规则ID查找首条失败记录
func FindFailure(failures []validation.FailureRecord, ruleID string) *validation.FailureRecord {
	for i := range failures {
		if failures[i].RuleID == ruleID {
			return &failures[i]
		}
	}
	return nil
}

// FindRuleError 按规则ID查找求值错误
func FindRuleError(ruleErrors []validation.RuleError, ruleID string) *validation.RuleError {
	for i := range ruleErrors {
		if ruleErrors[i].RuleID == ruleID {
			return &ruleErrors[i]
		}
	}
	return nil
}
