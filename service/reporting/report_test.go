/*
 * @module service/reporting/report_test
 * @description 报告渲染单元测试：规则汇总、失败明细、未匹配缺席标记与支配度表格
 * @architecture 单元测试
 */

package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ibs-validation-service/service/confidentiality"
	"ibs-validation-service/service/validation"
)

func floatPtr(v float64) *float64 {
	return &v
}

func sampleContext() validation.ValidationContext {
	return validation.ValidationContext{ReportingCountry: "CA", CurrencyCode: "CAD", Quarter: "2025-Q3"}
}

func TestBuildSummary(t *testing.T) {
	failures := []validation.FailureRecord{
		{RuleID: "LBSR_CC04", Description: "部门合计", Relation: validation.RelationEq},
		{RuleID: "LBSR_CC01", Description: "货币合计", Relation: validation.RelationEq},
		{RuleID: "LBSR_CC04", Description: "部门合计", Relation: validation.RelationEq},
	}

	summary := BuildSummary(failures)
	require.Len(t, summary, 2)
	assert.Equal(t, "LBSR_CC01", summary[0].RuleID)
	assert.Equal(t, 1, summary[0].FailCount)
	assert.Equal(t, "LBSR_CC04", summary[1].RuleID)
	assert.Equal(t, 2, summary[1].FailCount)
}

func TestRenderHTMLCleanReport(t *testing.T) {
	var buf bytes.Buffer
	err := RenderHTML(&buf, ReportData{Context: sampleContext(), GeneratedAt: time.Now()})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "未发现一致性错误")
	assert.Contains(t, html, "CA")
	assert.Contains(t, html, "2025-Q3")
}

func TestRenderHTMLFailures(t *testing.T) {
	data := ReportData{
		Context:     sampleContext(),
		GeneratedAt: time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC),
		Failures: []validation.FailureRecord{
			{
				RuleID:      "LBSR_CC01",
				Description: "货币合计",
				Relation:    validation.RelationEq,
				GroupKey:    map[string]string{"CP_COUNTRY": "US", "CP_SECTOR": "A"},
				LhsValue:    floatPtr(101),
				RhsValue:    floatPtr(100),
				Difference:  floatPtr(1),
			},
			{
				RuleID:      "LBS_CC24",
				Description: "跨报表对账",
				Relation:    validation.RelationEq,
				GroupKey:    map[string]string{"CP_COUNTRY": "GB"},
				LhsValue:    floatPtr(50),
			},
		},
		RuleErrors: []validation.RuleError{
			{RuleID: "LBSR_CC99", Message: "数据集中缺少列: AMOUNT"},
		},
		Dominance: []confidentiality.DominanceResult{
			{
				GroupKey:             map[string]string{"CP_COUNTRY": "US"},
				DominantContributors: []string{"B1"},
				DominantShare:        0.9,
				Tag:                  confidentiality.TagNotFree,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, data))
	html := buf.String()

	assert.NotContains(t, html, "未发现一致性错误")
	assert.Contains(t, html, "LBSR_CC01")
	assert.Contains(t, html, "CP_COUNTRY=US, CP_SECTOR=A", "分组键按列名升序格式化")
	assert.Contains(t, html, "101.000")
	// 跨报表未匹配键：缺失侧渲染缺席标记，绝不显示0
	assert.Contains(t, html, "—")
	assert.Contains(t, html, `class="unmatched"`)
	assert.Contains(t, html, "数据集中缺少列: AMOUNT")
	assert.Contains(t, html, "90.0%")
	assert.Contains(t, html, `class="tag-n"`)
	assert.Contains(t, html, "2025-08-25 10:00:00")
}

func TestFormatGroupKey(t *testing.T) {
	assert.Equal(t, "", FormatGroupKey(nil))
	assert.Equal(t, "A=1, B=2", FormatGroupKey(map[string]string{"B": "2", "A": "1"}))
}
