/*
 * @module service/enrichment/annotate
 * @description 标注驱动：在不丢行、不重排的前提下为数据集附加质量与保密状态列
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 规则求值 -> 失败分组回标 -> 支配度计算 -> 状态列写入新数据集
 * @rules 业务失败是正常输出，绝不作为错误抛出；只有SchemaError/SpecificationError
 *        按单规则错误收集；状态列覆盖写入，重复标注结果幂等
 * @dependencies service/dataset, service/validation, service/confidentiality
 * @refs service/validation_service.go, api/controllers/enrichment_controller.go
 */

package enrichment

import (
	"fmt"

	"ibs-validation-service/service/confidentiality"
	"ibs-validation-service/service/dataset"
	"ibs-validation-service/service/validation"
)

const (
	// QualityStatusColumn 质量状态列名
	QualityStatusColumn = "QUALITY_STATUS"
	// ConfidentialityStatusColumn 保密状态列名
	ConfidentialityStatusColumn = "CONFIDENTIALITY_STATUS"

	// StatusPass 行未参与任何失败分组
	StatusPass = "PASS"
	// StatusFail 行参与至少一个失败分组
	StatusFail = "FAIL"
)

// Options 标注参数
type Options struct {
	Context          validation.ValidationContext     `json:"context"`
	Rules            []validation.RuleSpec            `json:"rules"`
	Right            *dataset.Dataset                 `json:"-"`
	Dominance        *confidentiality.DominanceParams `json:"dominance,omitempty"`
	AbortOnRuleError bool                             `json:"abort_on_rule_error,omitempty"`
}

// Result 标注结果：附加状态列的新数据集及其来源明细
type Result struct {
	Dataset    *dataset.Dataset
	Failures   []validation.FailureRecord
	RuleErrors []validation.RuleError
	Dominance  []confidentiality.DominanceResult
}

// Annotate 对数据集执行规则求值与支配度计算，返回附加两个状态列的新数据集
// 原数据集不被修改；行数与行序保持不变
func Annotate(ds *dataset.Dataset, opts Options) (*Result, error) {
	if ds == nil {
		return nil, fmt.Errorf("标注需要非空数据集")
	}

	validator := validation.New(opts.Context)
	validator.Validate(ds, opts.Right, opts.Rules)
	failures := validator.Failures()
	ruleErrors := validator.RuleErrors()
	if opts.AbortOnRuleError && len(ruleErrors) > 0 {
		return nil, fmt.Errorf("规则求值存在错误: %s", ruleErrors[0].Message)
	}

	qualityValues, err := qualityColumn(ds, opts.Rules, failures)
	if err != nil {
		return nil, err
	}

	confidentialityValues := make([]interface{}, ds.Len())
	var dominance []confidentiality.DominanceResult
	if opts.Dominance != nil {
		dominance, err = confidentiality.Assess(ds, *opts.Dominance)
		if err != nil {
			return nil, err
		}
		tags := make(map[string]string, len(dominance))
		for _, result := range dominance {
			tags[result.Key(opts.Dominance.GroupBy)] = result.Tag
		}
		for i, row := range ds.Rows() {
			key, ok := confidentiality.RowKey(row, opts.Dominance.GroupBy)
			if tag, found := tags[key]; ok && found {
				confidentialityValues[i] = tag
			} else {
				confidentialityValues[i] = confidentiality.TagUnset
			}
		}
	} else {
		for i := range confidentialityValues {
			confidentialityValues[i] = confidentiality.TagUnset
		}
	}

	annotated, err := ds.WithColumn(QualityStatusColumn, qualityValues)
	if err != nil {
		return nil, err
	}
	annotated, err = annotated.WithColumn(ConfidentialityStatusColumn, confidentialityValues)
	if err != nil {
		return nil, err
	}

	return &Result{
		Dataset:    annotated,
		Failures:   failures,
		RuleErrors: ruleErrors,
		Dominance:  dominance,
	}, nil
}

// qualityColumn 按失败记录回标行级质量状态
// 行判定为FAIL：命中某条失败规则的过滤器（内部规则看两侧，跨报表规则看左侧），
// 且该行的分组列取值与失败记录的分组键一致
func qualityColumn(ds *dataset.Dataset, rules []validation.RuleSpec, failures []validation.FailureRecord) ([]interface{}, error) {
	ruleByID := make(map[string]validation.RuleSpec, len(rules))
	for _, rule := range rules {
		ruleByID[rule.RuleID] = rule
	}

	values := make([]interface{}, ds.Len())
	for i := range values {
		values[i] = StatusPass
	}

	for _, failure := range failures {
		rule, ok := ruleByID[failure.RuleID]
		if !ok {
			continue
		}
		filters := []dataset.Filter{rule.LHS.Filter}
		if rule.Kind == validation.KindInternal {
			filters = append(filters, rule.RHS.Filter)
		}
		for i, row := range ds.Rows() {
			if !rowInGroup(row, rule.GroupBy, failure.GroupKey) {
				continue
			}
			for _, filter := range filters {
				if filter.Matches(row) {
					values[i] = StatusFail
					break
				}
			}
		}
	}
	return values, nil
}

// rowInGroup 判断行的分组列取值与失败记录的分组键是否一致
func rowInGroup(row dataset.Row, groupBy []string, groupKey map[string]string) bool {
	for _, col := range groupBy {
		canonical := dataset.CanonicalColumn(col)
		val, ok := row[canonical]
		if !ok || val == nil {
			return false
		}
		if dataset.ValueString(val) != groupKey[canonical] {
			return false
		}
	}
	return true
}
