/*
 * @module service/validation/evaluator
 * @description 单条规则求值：两侧分组聚合、按键对齐、容差比较，产出失败记录
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 规则校验 -> 两侧GroupSum -> 键对齐(并集/交集) -> 容差比较 -> 失败记录
 * @rules 内部规则取键并集（缺失侧按0）；跨报表规则取交集，单侧键以缺席标记单独报告；
 *        求值是纯函数，无副作用
 * @dependencies service/dataset
 * @refs service/validation/validator.go
 */

package validation

import (
	"fmt"
	"math"
	"sort"

	"ibs-validation-service/service/dataset"
)

// EvaluateRule 对一条规则求值，返回容差外分组的失败记录（按组合键升序）
// 内部规则时right可为nil；跨报表规则缺右侧数据集属于SpecificationError
func EvaluateRule(rule RuleSpec, left, right *dataset.Dataset, ctx ValidationContext) ([]FailureRecord, error) {
	if err := validateSpec(rule, right != nil); err != nil {
		return nil, err
	}
	if left == nil {
		return nil, &SpecificationError{RuleID: rule.RuleID, Reason: "缺少主数据集"}
	}

	relation := rule.Relation
	if relation == "" {
		relation = RelationEq
	}

	lhsAgg, err := left.GroupSum(rule.LHS.Filter, rule.GroupBy, rule.LHS.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("规则 %s 左侧聚合失败: %w", rule.RuleID, err)
	}
	rhsTarget := left
	if rule.Kind == KindCross {
		rhsTarget = right
	}
	rhsAgg, err := rhsTarget.GroupSum(rule.RHS.Filter, rule.GroupBy, rule.RHS.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("规则 %s 右侧聚合失败: %w", rule.RuleID, err)
	}

	var failures []FailureRecord
	switch rule.Kind {
	case KindInternal:
		failures = compareUnion(rule, relation, lhsAgg, rhsAgg, ctx)
	case KindCross:
		failures = compareIntersection(rule, relation, lhsAgg, rhsAgg, ctx)
	}
	return failures, nil
}

// compareUnion 内部规则：键并集比较，缺失侧按0参与
// 典型场景是"合计恒等式"的分项类别未全部出现
func compareUnion(rule RuleSpec, relation Relation, lhs, rhs *dataset.Aggregate, ctx ValidationContext) []FailureRecord {
	var failures []FailureRecord
	for _, key := range dataset.UnionKeys(lhs, rhs) {
		lv, _ := lhs.Value(key)
		rv, _ := rhs.Value(key)
		diff := lv - rv
		if !outsideTolerance(relation, diff, rule.Tolerance) {
			continue
		}
		failures = append(failures, FailureRecord{
			RuleID:      rule.RuleID,
			Description: rule.Description,
			Relation:    relation,
			GroupKey:    keyLabels(key, lhs, rhs),
			LhsValue:    floatPtr(lv),
			RhsValue:    floatPtr(rv),
			Difference:  floatPtr(diff),
			Context:     ctx,
		})
	}
	return failures
}

// compareIntersection 跨报表规则：键交集比较；单侧键产出未匹配记录，缺失侧为nil
func compareIntersection(rule RuleSpec, relation Relation, lhs, rhs *dataset.Aggregate, ctx ValidationContext) []FailureRecord {
	matched := make(map[string]bool)
	for _, key := range dataset.IntersectKeys(lhs, rhs) {
		matched[key] = true
	}

	records := make(map[string]FailureRecord)
	for _, key := range dataset.UnionKeys(lhs, rhs) {
		record := FailureRecord{
			RuleID:      rule.RuleID,
			Description: rule.Description,
			Relation:    relation,
			GroupKey:    keyLabels(key, lhs, rhs),
			Context:     ctx,
		}
		if matched[key] {
			lv, _ := lhs.Value(key)
			rv, _ := rhs.Value(key)
			diff := lv - rv
			if !outsideTolerance(relation, diff, rule.Tolerance) {
				continue
			}
			record.LhsValue = floatPtr(lv)
			record.RhsValue = floatPtr(rv)
			record.Difference = floatPtr(diff)
		} else if lv, ok := lhs.Value(key); ok {
			// 仅左侧存在：右侧保持缺席标记，不得折算为0造成假通过
			record.LhsValue = floatPtr(lv)
		} else {
			rv, _ := rhs.Value(key)
			record.RhsValue = floatPtr(rv)
		}
		records[key] = record
	}

	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	failures := make([]FailureRecord, 0, len(keys))
	for _, key := range keys {
		failures = append(failures, records[key])
	}
	return failures
}

// outsideTolerance 按比较关系判断差值是否超出容差
func outsideTolerance(relation Relation, diff, tolerance float64) bool {
	switch relation {
	case RelationGte:
		return diff < -tolerance
	case RelationLte:
		return diff > tolerance
	default:
		return math.Abs(diff) > tolerance
	}
}

// keyLabels 取组合键的分组列标签，优先左侧聚合
func keyLabels(key string, lhs, rhs *dataset.Aggregate) map[string]string {
	if labels := lhs.Labels(key); labels != nil {
		return labels
	}
	if labels := rhs.Labels(key); labels != nil {
		return labels
	}
	return map[string]string{}
}

func floatPtr(v float64) *float64 {
	return &v
}
