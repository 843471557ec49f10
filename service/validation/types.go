/*
 * @module service/validation/types
 * @description 规则引擎核心数据类型：校验上下文、规则定义、失败记录与错误分类
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 规则定义 -> 聚合比较 -> 失败记录
 * @rules 规则为不可变数据值，按kind区分内部一致性与跨报表一致性；容差必须非负
 * @dependencies service/dataset
 * @refs service/rules, service/enrichment
 */

package validation

import (
	"fmt"

	"ibs-validation-service/service/dataset"
)

// DefaultTolerance 未显式指定容差时的默认值，用于吸收浮点舍入误差
const DefaultTolerance = 1e-6

// AggregationSum 目前唯一支持的聚合方式
const AggregationSum = "sum"

// RuleKind 规则类别
type RuleKind string

const (
	// KindInternal 内部一致性规则：左右两侧在同一数据集上求值
	KindInternal RuleKind = "internal"
	// KindCross 跨报表一致性规则：左侧在主数据集、右侧在对侧数据集上求值
	KindCross RuleKind = "cross"
)

// Relation 左右聚合值之间的比较关系
type Relation string

const (
	// RelationEq 容差内相等：|lhs-rhs| > tolerance 时失败
	RelationEq Relation = "eq"
	// RelationGte 左不小于右：lhs-rhs < -tolerance 时失败
	RelationGte Relation = "gte"
	// RelationLte 左不大于右：lhs-rhs > tolerance 时失败
	RelationLte Relation = "lte"
)

// Symbol 返回比较关系的展示符号
func (r Relation) Symbol() string {
	switch r {
	case RelationGte:
		return ">="
	case RelationLte:
		return "<="
	default:
		return "="
	}
}

// ValidationContext 校验上下文：报告机构、本币、报告期
// 仅用于结果溯源，不参与计算逻辑
type ValidationContext struct {
	ReportingCountry string `json:"reporting_country" example:"CA"`
	CurrencyCode     string `json:"currency_code" example:"CAD"`
	Quarter          string `json:"quarter" example:"2025-Q3"`
}

// AggregationSpec 规则单侧的聚合定义
type AggregationSpec struct {
	Filter      dataset.Filter `json:"filter"`
	ValueColumn string         `json:"value_column"`
	Aggregation string         `json:"aggregation,omitempty"`
}

// RuleSpec 一条一致性规则的声明式定义
type RuleSpec struct {
	RuleID      string          `json:"rule_id"`
	Description string          `json:"description"`
	Kind        RuleKind        `json:"kind"`
	GroupBy     []string        `json:"group_by"`
	LHS         AggregationSpec `json:"lhs"`
	RHS         AggregationSpec `json:"rhs"`
	Relation    Relation        `json:"relation,omitempty"`
	Tolerance   float64         `json:"tolerance"`
}

// FailureRecord 一个分组键上的规则失败记录，构建后只读
// 跨报表规则中仅单侧存在的键，缺失侧取值与差值为nil（缺席标记，绝不折算为0）
type FailureRecord struct {
	RuleID          string            `json:"rule_id"`
	Description     string            `json:"description"`
	Relation        Relation          `json:"relation"`
	GroupKey        map[string]string `json:"group_key"`
	LhsValue        *float64          `json:"lhs_value"`
	RhsValue        *float64          `json:"rhs_value"`
	Difference      *float64          `json:"difference"`
	WithinTolerance bool              `json:"within_tolerance"`
	Context         ValidationContext `json:"context"`
}

// Unmatched 判断是否为跨报表规则的单侧未匹配记录
func (f FailureRecord) Unmatched() bool {
	return f.LhsValue == nil || f.RhsValue == nil
}

// RuleError 单条规则的求值错误（SchemaError或SpecificationError）
// 仅中止该条规则，其余规则继续求值
type RuleError struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// SpecificationError 规则定义自身不一致（与数据无关），在聚合开始前抛出
type SpecificationError struct {
	RuleID string
	Reason string
}

func (e *SpecificationError) Error() string {
	return fmt.Sprintf("规则 %s 定义不合法: %s", e.RuleID, e.Reason)
}

// validateSpec 在任何聚合工作开始前校验规则定义
func validateSpec(rule RuleSpec, hasRight bool) error {
	fail := func(reason string) error {
		return &SpecificationError{RuleID: rule.RuleID, Reason: reason}
	}
	if rule.RuleID == "" {
		return fail("rule_id不能为空")
	}
	switch rule.Kind {
	case KindInternal:
	case KindCross:
		if !hasRight {
			return fail("跨报表规则缺少右侧数据集")
		}
		if len(rule.GroupBy) == 0 {
			return fail("跨报表规则必须指定分组列")
		}
	default:
		return fail(fmt.Sprintf("未知规则类别: %s", rule.Kind))
	}
	switch rule.Relation {
	case "", RelationEq, RelationGte, RelationLte:
	default:
		return fail(fmt.Sprintf("未知比较关系: %s", rule.Relation))
	}
	if rule.Tolerance < 0 {
		return fail(fmt.Sprintf("容差不能为负: %v", rule.Tolerance))
	}
	for side, spec := range map[string]AggregationSpec{"lhs": rule.LHS, "rhs": rule.RHS} {
		if spec.ValueColumn == "" {
			return fail(fmt.Sprintf("%s缺少value_column", side))
		}
		if spec.Aggregation != "" && spec.Aggregation != AggregationSum {
			return fail(fmt.Sprintf("%s聚合方式不支持: %s", side, spec.Aggregation))
		}
		if err := spec.Filter.Validate(); err != nil {
			return fail(fmt.Sprintf("%s过滤器不合法: %v", side, err))
		}
	}
	return nil
}
