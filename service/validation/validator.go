/*
 * @module service/validation/validator
 * @description 校验器：按规则批次驱动求值，累积失败记录与单规则错误
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 规则批次 -> 并发求值 -> 按规则顺序归并 -> 追加累积
 * @rules 规则间无顺序依赖，可在有界工作池内并行求值；
 *        累积集合是校验器唯一可变状态，跨协程共享实例需调用方自行同步
 * @dependencies service/dataset
 * @refs service/validation_service.go, service/enrichment
 */

package validation

import (
	"log/slog"
	"sync"

	"ibs-validation-service/service/dataset"
)

// DefaultMaxConcurrentRules 单次validate内并行求值的默认规则数上限
const DefaultMaxConcurrentRules = 4

// Validator 规则校验器
// 多次Validate调用的失败记录追加到同一集合，Reset清空
type Validator struct {
	context       ValidationContext
	maxConcurrent int
	failures      []FailureRecord
	ruleErrors    []RuleError
}

// New 创建校验器
func New(ctx ValidationContext) *Validator {
	return &Validator{
		context:       ctx,
		maxConcurrent: DefaultMaxConcurrentRules,
	}
}

// SetMaxConcurrent 设置单次Validate内的并行规则数上限
func (v *Validator) SetMaxConcurrent(n int) {
	if n > 0 {
		v.maxConcurrent = n
	}
}

// Context 返回校验上下文
func (v *Validator) Context() ValidationContext {
	return v.context
}

// Validate 对一批规则求值并累积结果
// 内部规则两侧均在left上求值；跨报表规则右侧在right上求值
// 单条规则的SchemaError/SpecificationError只中止该条规则，其余规则继续
func (v *Validator) Validate(left, right *dataset.Dataset, rules []RuleSpec) {
	type ruleResult struct {
		failures []FailureRecord
		err      error
	}

	results := make([]ruleResult, len(rules))
	sem := make(chan struct{}, v.maxConcurrent)
	var wg sync.WaitGroup

	for i, rule := range rules {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rule RuleSpec) {
			defer wg.Done()
			defer func() { <-sem }()
			failures, err := EvaluateRule(rule, left, right, v.context)
			results[i] = ruleResult{failures: failures, err: err}
		}(i, rule)
	}
	wg.Wait()

	// 按规则声明顺序归并，保证输出确定性
	for i, rule := range rules {
		if err := results[i].err; err != nil {
			slog.Warn("规则求值失败", "rule_id", rule.RuleID, "error", err)
			v.ruleErrors = append(v.ruleErrors, RuleError{
				RuleID:  rule.RuleID,
				Message: err.Error(),
				Err:     err,
			})
			continue
		}
		v.failures = append(v.failures, results[i].failures...)
	}
}

// Failures 返回累积的失败记录
func (v *Validator) Failures() []FailureRecord {
	return v.failures
}

// RuleErrors 返回累积的单规则错误
func (v *Validator) RuleErrors() []RuleError {
	return v.ruleErrors
}

// Reset 清空累积状态
func (v *Validator) Reset() {
	v.failures = nil
	v.ruleErrors = nil
}
