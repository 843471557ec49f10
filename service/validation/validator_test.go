/*
 * @module service/validation/validator_test
 * @description 规则引擎单元测试：求值语义、键对齐策略、容差比较、错误隔离与累积
 * @architecture 单元测试
 */

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ibs-validation-service/service/dataset"
)

func testContext() ValidationContext {
	return ValidationContext{ReportingCountry: "CA", CurrencyCode: "CAD", Quarter: "2025-Q3"}
}

// sumEqualsTotal 分项之和等于合计的内部规则
func sumEqualsTotal(tolerance float64) RuleSpec {
	return RuleSpec{
		RuleID:      "TEST_SUM_TOTAL",
		Description: "分项之和应等于合计",
		Kind:        KindInternal,
		LHS: AggregationSpec{
			Filter:      dataset.Where(dataset.In("CAT", "A", "B")),
			ValueColumn: "VALUE",
		},
		RHS: AggregationSpec{
			Filter:      dataset.Where(dataset.Eq("CAT", "TOTAL")),
			ValueColumn: "VALUE",
		},
		Relation:  RelationEq,
		Tolerance: tolerance,
	}
}

func TestEvaluateRuleConsistentData(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"CAT": "A", "VALUE": 30.0},
		{"CAT": "B", "VALUE": 70.0},
		{"CAT": "TOTAL", "VALUE": 100.0},
	})

	failures, err := EvaluateRule(sumEqualsTotal(0), ds, nil, testContext())
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestEvaluateRuleInconsistentData(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"CAT": "A", "VALUE": 30.0},
		{"CAT": "B", "VALUE": 71.0},
		{"CAT": "TOTAL", "VALUE": 100.0},
	})

	failures, err := EvaluateRule(sumEqualsTotal(0), ds, nil, testContext())
	require.NoError(t, err)
	require.Len(t, failures, 1)

	f := failures[0]
	assert.Equal(t, "TEST_SUM_TOTAL", f.RuleID)
	require.NotNil(t, f.LhsValue)
	require.NotNil(t, f.RhsValue)
	require.NotNil(t, f.Difference)
	assert.Equal(t, 101.0, *f.LhsValue)
	assert.Equal(t, 100.0, *f.RhsValue)
	assert.Equal(t, 1.0, *f.Difference)
	assert.False(t, f.Unmatched())
	assert.Equal(t, testContext(), f.Context)
}

// TestEvaluateRuleExactness 精确性：失败记录中的取值必须与直接聚合一致
func TestEvaluateRuleExactness(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"CAT": "A", "VALUE": 12.5},
		{"CAT": "A", "VALUE": 7.5},
		{"CAT": "TOTAL", "VALUE": 100.0},
	})

	failures, err := EvaluateRule(sumEqualsTotal(0), ds, nil, testContext())
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, 20.0, *failures[0].LhsValue)
	assert.Equal(t, -80.0, *failures[0].Difference)
}

func TestEvaluateRuleTolerance(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"CAT": "A", "VALUE": 100.5},
		{"CAT": "TOTAL", "VALUE": 100.0},
	})

	rule := sumEqualsTotal(0.5)
	failures, err := EvaluateRule(rule, ds, nil, testContext())
	require.NoError(t, err)
	assert.Empty(t, failures, "差值恰好等于容差应通过")

	rule.Tolerance = 0.4
	failures, err = EvaluateRule(rule, ds, nil, testContext())
	require.NoError(t, err)
	assert.Len(t, failures, 1)
}

func TestEvaluateRuleRelations(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"CAT": "A", "VALUE": 40.0},
		{"CAT": "TOTAL", "VALUE": 100.0},
	})

	rule := sumEqualsTotal(0)
	rule.Relation = RelationLte
	failures, err := EvaluateRule(rule, ds, nil, testContext())
	require.NoError(t, err)
	assert.Empty(t, failures, "lhs<=rhs时lte应通过")

	rule.Relation = RelationGte
	failures, err = EvaluateRule(rule, ds, nil, testContext())
	require.NoError(t, err)
	assert.Len(t, failures, 1, "lhs<rhs时gte应失败")
}

// TestEvaluateRuleInternalUnion 内部规则取键并集，缺失侧按0参与比较
func TestEvaluateRuleInternalUnion(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"CAT": "A", "REGION": "X", "VALUE": 10.0},
		{"CAT": "TOTAL", "REGION": "Y", "VALUE": 20.0},
	})

	rule := sumEqualsTotal(0)
	rule.GroupBy = []string{"REGION"}
	failures, err := EvaluateRule(rule, ds, nil, testContext())
	require.NoError(t, err)
	require.Len(t, failures, 2)

	byRegion := make(map[string]FailureRecord)
	for _, f := range failures {
		byRegion[f.GroupKey["REGION"]] = f
	}
	assert.Equal(t, 10.0, *byRegion["X"].LhsValue)
	assert.Equal(t, 0.0, *byRegion["X"].RhsValue)
	assert.Equal(t, 0.0, *byRegion["Y"].LhsValue)
	assert.Equal(t, 20.0, *byRegion["Y"].RhsValue)
}

// TestEvaluateRuleCrossIntersection 跨报表规则只比较两侧共有键
func TestEvaluateRuleCrossIntersection(t *testing.T) {
	left := dataset.New([]dataset.Row{
		{"COUNTRY": "US", "VALUE": 100.0},
		{"COUNTRY": "GB", "VALUE": 50.0},
	})
	right := dataset.New([]dataset.Row{
		{"COUNTRY": "US", "VALUE": 100.0},
		{"COUNTRY": "JP", "VALUE": 30.0},
	})

	rule := RuleSpec{
		RuleID:  "TEST_CROSS",
		Kind:    KindCross,
		GroupBy: []string{"COUNTRY"},
		LHS:     AggregationSpec{ValueColumn: "VALUE"},
		RHS:     AggregationSpec{ValueColumn: "VALUE"},
	}

	failures, err := EvaluateRule(rule, left, right, testContext())
	require.NoError(t, err)
	require.Len(t, failures, 2)

	byCountry := make(map[string]FailureRecord)
	for _, f := range failures {
		byCountry[f.GroupKey["COUNTRY"]] = f
	}

	// US两侧一致：不出现在失败记录中
	_, ok := byCountry["US"]
	assert.False(t, ok)

	// 单侧键作为未匹配记录报告，缺失侧保持nil缺席标记，绝不折算为0
	gb := byCountry["GB"]
	assert.True(t, gb.Unmatched())
	require.NotNil(t, gb.LhsValue)
	assert.Equal(t, 50.0, *gb.LhsValue)
	assert.Nil(t, gb.RhsValue)
	assert.Nil(t, gb.Difference)

	jp := byCountry["JP"]
	assert.True(t, jp.Unmatched())
	assert.Nil(t, jp.LhsValue)
	require.NotNil(t, jp.RhsValue)
	assert.Equal(t, 30.0, *jp.RhsValue)
}

func TestEvaluateRuleCrossMismatchOnSharedKey(t *testing.T) {
	left := dataset.New([]dataset.Row{{"COUNTRY": "US", "VALUE": 100.0}})
	right := dataset.New([]dataset.Row{{"COUNTRY": "US", "VALUE": 90.0}})

	rule := RuleSpec{
		RuleID:    "TEST_CROSS",
		Kind:      KindCross,
		GroupBy:   []string{"COUNTRY"},
		LHS:       AggregationSpec{ValueColumn: "VALUE"},
		RHS:       AggregationSpec{ValueColumn: "VALUE"},
		Tolerance: 5,
	}

	failures, err := EvaluateRule(rule, left, right, testContext())
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.False(t, failures[0].Unmatched())
	assert.Equal(t, 10.0, *failures[0].Difference)
}

func TestEvaluateRuleSpecificationErrors(t *testing.T) {
	ds := dataset.New([]dataset.Row{{"CAT": "A", "VALUE": 1.0}})

	cases := []struct {
		name string
		rule RuleSpec
	}{
		{"负容差", RuleSpec{RuleID: "R", Kind: KindInternal, Tolerance: -1,
			LHS: AggregationSpec{ValueColumn: "VALUE"}, RHS: AggregationSpec{ValueColumn: "VALUE"}}},
		{"未知类别", RuleSpec{RuleID: "R", Kind: "fuzzy",
			LHS: AggregationSpec{ValueColumn: "VALUE"}, RHS: AggregationSpec{ValueColumn: "VALUE"}}},
		{"未知比较关系", RuleSpec{RuleID: "R", Kind: KindInternal, Relation: "approx",
			LHS: AggregationSpec{ValueColumn: "VALUE"}, RHS: AggregationSpec{ValueColumn: "VALUE"}}},
		{"缺少value_column", RuleSpec{RuleID: "R", Kind: KindInternal,
			LHS: AggregationSpec{ValueColumn: "VALUE"}}},
		{"跨报表规则无分组列", RuleSpec{RuleID: "R", Kind: KindCross,
			LHS: AggregationSpec{ValueColumn: "VALUE"}, RHS: AggregationSpec{ValueColumn: "VALUE"}}},
		{"不支持的聚合方式", RuleSpec{RuleID: "R", Kind: KindInternal,
			LHS: AggregationSpec{ValueColumn: "VALUE", Aggregation: "avg"},
			RHS: AggregationSpec{ValueColumn: "VALUE"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateRule(tc.rule, ds, ds, testContext())
			var specErr *SpecificationError
			require.ErrorAs(t, err, &specErr)
			assert.Equal(t, "R", specErr.RuleID)
		})
	}
}

func TestEvaluateRuleCrossWithoutRightDataset(t *testing.T) {
	ds := dataset.New([]dataset.Row{{"CAT": "A", "VALUE": 1.0}})
	rule := RuleSpec{
		RuleID:  "R",
		Kind:    KindCross,
		GroupBy: []string{"CAT"},
		LHS:     AggregationSpec{ValueColumn: "VALUE"},
		RHS:     AggregationSpec{ValueColumn: "VALUE"},
	}

	_, err := EvaluateRule(rule, ds, nil, testContext())
	var specErr *SpecificationError
	require.ErrorAs(t, err, &specErr)
}

func TestEvaluateRuleMissingColumn(t *testing.T) {
	ds := dataset.New([]dataset.Row{{"CAT": "A", "VALUE": 1.0}})
	rule := sumEqualsTotal(0)
	rule.LHS.ValueColumn = "AMOUNT"

	_, err := EvaluateRule(rule, ds, nil, testContext())
	var schemaErr *dataset.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "AMOUNT", schemaErr.Column)
}

// TestValidatorRuleIsolation 单条规则错误只中止该条规则，其余规则继续求值
func TestValidatorRuleIsolation(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"CAT": "A", "VALUE": 30.0},
		{"CAT": "B", "VALUE": 71.0},
		{"CAT": "TOTAL", "VALUE": 100.0},
	})

	broken := sumEqualsTotal(0)
	broken.RuleID = "TEST_BROKEN"
	broken.LHS.ValueColumn = "AMOUNT"

	v := New(testContext())
	v.Validate(ds, nil, []RuleSpec{broken, sumEqualsTotal(0)})

	require.Len(t, v.RuleErrors(), 1)
	assert.Equal(t, "TEST_BROKEN", v.RuleErrors()[0].RuleID)
	require.Len(t, v.Failures(), 1)
	assert.Equal(t, "TEST_SUM_TOTAL", v.Failures()[0].RuleID)
}

func TestValidatorAccumulatesAndResets(t *testing.T) {
	bad := dataset.New([]dataset.Row{
		{"CAT": "A", "VALUE": 1.0},
		{"CAT": "TOTAL", "VALUE": 2.0},
	})

	v := New(testContext())
	v.Validate(bad, nil, []RuleSpec{sumEqualsTotal(0)})
	assert.Len(t, v.Failures(), 1)

	v.Validate(bad, nil, []RuleSpec{sumEqualsTotal(0)})
	assert.Len(t, v.Failures(), 2, "多次Validate累积失败记录")

	v.Reset()
	assert.Empty(t, v.Failures())
	assert.Empty(t, v.RuleErrors())
}

// TestValidatorDeterministicOrder 并行求值后输出仍按规则声明顺序
func TestValidatorDeterministicOrder(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"CAT": "A", "VALUE": 1.0},
		{"CAT": "TOTAL", "VALUE": 2.0},
	})

	var rules []RuleSpec
	for _, id := range []string{"TEST_R3", "TEST_R1", "TEST_R2"} {
		r := sumEqualsTotal(0)
		r.RuleID = id
		rules = append(rules, r)
	}

	v := New(testContext())
	v.SetMaxConcurrent(2)
	v.Validate(ds, nil, rules)

	require.Len(t, v.Failures(), 3)
	assert.Equal(t, "TEST_R3", v.Failures()[0].RuleID)
	assert.Equal(t, "TEST_R1", v.Failures()[1].RuleID)
	assert.Equal(t, "TEST_R2", v.Failures()[2].RuleID)
}
