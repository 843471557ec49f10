/*
 * @module service/enrichment/annotate_test
 * @description 标注驱动单元测试：状态列写入、失败回标、支配度标记与幂等性
 * @architecture 单元测试
 */

package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ibs-validation-service/service/confidentiality"
	"ibs-validation-service/service/dataset"
	"ibs-validation-service/service/validation"
)

func testContext() validation.ValidationContext {
	return validation.ValidationContext{ReportingCountry: "CA", CurrencyCode: "CAD", Quarter: "2025-Q3"}
}

func sumEqualsTotal() validation.RuleSpec {
	return validation.RuleSpec{
		RuleID:      "TEST_SUM_TOTAL",
		Description: "分项之和应等于合计",
		Kind:        validation.KindInternal,
		GroupBy:     []string{"REGION"},
		LHS: validation.AggregationSpec{
			Filter:      dataset.Where(dataset.In("CAT", "A", "B")),
			ValueColumn: "VALUE",
		},
		RHS: validation.AggregationSpec{
			Filter:      dataset.Where(dataset.Eq("CAT", "TOTAL")),
			ValueColumn: "VALUE",
		},
	}
}

func TestAnnotateCleanDataset(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"REGION": "X", "CAT": "A", "VALUE": 30.0},
		{"REGION": "X", "CAT": "B", "VALUE": 70.0},
		{"REGION": "X", "CAT": "TOTAL", "VALUE": 100.0},
	})

	result, err := Annotate(ds, Options{Context: testContext(), Rules: []validation.RuleSpec{sumEqualsTotal()}})
	require.NoError(t, err)
	assert.Empty(t, result.Failures)

	annotated := result.Dataset
	require.Equal(t, ds.Len(), annotated.Len(), "标注不得丢行")
	for i := 0; i < annotated.Len(); i++ {
		assert.Equal(t, StatusPass, annotated.Value(i, QualityStatusColumn))
		assert.Equal(t, confidentiality.TagUnset, annotated.Value(i, ConfidentialityStatusColumn))
	}

	// 原数据集不被修改
	assert.False(t, ds.HasColumn(QualityStatusColumn))
}

func TestAnnotateMarksFailingGroup(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"REGION": "X", "CAT": "A", "VALUE": 30.0},
		{"REGION": "X", "CAT": "B", "VALUE": 71.0},
		{"REGION": "X", "CAT": "TOTAL", "VALUE": 100.0},
		{"REGION": "Y", "CAT": "A", "VALUE": 10.0},
		{"REGION": "Y", "CAT": "TOTAL", "VALUE": 10.0},
	})

	result, err := Annotate(ds, Options{Context: testContext(), Rules: []validation.RuleSpec{sumEqualsTotal()}})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)

	annotated := result.Dataset
	// X组所有命中规则过滤器的行标FAIL，Y组保持PASS
	assert.Equal(t, StatusFail, annotated.Value(0, QualityStatusColumn))
	assert.Equal(t, StatusFail, annotated.Value(1, QualityStatusColumn))
	assert.Equal(t, StatusFail, annotated.Value(2, QualityStatusColumn))
	assert.Equal(t, StatusPass, annotated.Value(3, QualityStatusColumn))
	assert.Equal(t, StatusPass, annotated.Value(4, QualityStatusColumn))

	// 行序不变
	assert.Equal(t, "A", annotated.Value(0, "CAT"))
	assert.Equal(t, "TOTAL", annotated.Value(4, "CAT"))
}

func TestAnnotateDominanceTags(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"CP_COUNTRY": "US", "BANK_ID": "B1", "VALUE": 90.0},
		{"CP_COUNTRY": "US", "BANK_ID": "B2", "VALUE": 10.0},
		{"CP_COUNTRY": "GB", "BANK_ID": "B1", "VALUE": 50.0},
		{"CP_COUNTRY": "GB", "BANK_ID": "B2", "VALUE": 50.0},
		{"CP_COUNTRY": nil, "BANK_ID": "B3", "VALUE": 5.0},
	})

	result, err := Annotate(ds, Options{
		Context: testContext(),
		Dominance: &confidentiality.DominanceParams{
			GroupBy:           []string{"CP_COUNTRY"},
			ContributorColumn: "BANK_ID",
			ValueColumn:       "VALUE",
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Dominance, 2)

	annotated := result.Dataset
	assert.Equal(t, confidentiality.TagNotFree, annotated.Value(0, ConfidentialityStatusColumn))
	assert.Equal(t, confidentiality.TagNotFree, annotated.Value(1, ConfidentialityStatusColumn))
	assert.Equal(t, confidentiality.TagFree, annotated.Value(2, ConfidentialityStatusColumn))
	assert.Equal(t, confidentiality.TagFree, annotated.Value(3, ConfidentialityStatusColumn))
	// 无组合键的行标UNSET
	assert.Equal(t, confidentiality.TagUnset, annotated.Value(4, ConfidentialityStatusColumn))
}

// TestAnnotateIdempotent 重复标注已有状态列的数据集，结果不变
func TestAnnotateIdempotent(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"REGION": "X", "CAT": "A", "VALUE": 30.0},
		{"REGION": "X", "CAT": "B", "VALUE": 71.0},
		{"REGION": "X", "CAT": "TOTAL", "VALUE": 100.0},
	})
	opts := Options{Context: testContext(), Rules: []validation.RuleSpec{sumEqualsTotal()}}

	first, err := Annotate(ds, opts)
	require.NoError(t, err)
	second, err := Annotate(first.Dataset, opts)
	require.NoError(t, err)

	require.Equal(t, first.Dataset.Len(), second.Dataset.Len())
	assert.Equal(t, first.Dataset.Columns(), second.Dataset.Columns(), "状态列覆盖写入，不得重复追加")
	for i := 0; i < first.Dataset.Len(); i++ {
		assert.Equal(t, first.Dataset.Value(i, QualityStatusColumn), second.Dataset.Value(i, QualityStatusColumn))
		assert.Equal(t, first.Dataset.Value(i, ConfidentialityStatusColumn), second.Dataset.Value(i, ConfidentialityStatusColumn))
	}
}

func TestAnnotateRuleErrorHandling(t *testing.T) {
	ds := dataset.New([]dataset.Row{
		{"REGION": "X", "CAT": "A", "VALUE": 30.0},
	})

	broken := sumEqualsTotal()
	broken.LHS.ValueColumn = "AMOUNT"

	result, err := Annotate(ds, Options{Context: testContext(), Rules: []validation.RuleSpec{broken}})
	require.NoError(t, err, "默认模式下单规则错误只收集不中止")
	require.Len(t, result.RuleErrors, 1)
	assert.Equal(t, StatusPass, result.Dataset.Value(0, QualityStatusColumn))

	_, err = Annotate(ds, Options{
		Context:          testContext(),
		Rules:            []validation.RuleSpec{broken},
		AbortOnRuleError: true,
	})
	assert.Error(t, err)
}

func TestAnnotateNilDataset(t *testing.T) {
	_, err := Annotate(nil, Options{Context: testContext()})
	assert.Error(t, err)
}
