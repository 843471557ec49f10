/*
 * @module service/reporting/report
 * @description 校验结果HTML报告渲染，包含规则汇总、失败明细、规则错误与支配度结果
 * @architecture 分层架构 - 报告层
 * @documentReference ai_docs/validation_report_req.md
 * @stateFlow 失败记录 -> 按规则汇总 -> 模板渲染 -> HTML产物
 * @rules 报告是静态产物，核心引擎不负责格式化；无失败时输出"无一致性错误"页面
 * @dependencies html/template
 * @refs service/validation_service.go, service/scheduler
 */

package reporting

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"ibs-validation-service/service/confidentiality"
	"ibs-validation-service/service/validation"
)

// RuleSummary 单条规则的失败汇总
type RuleSummary struct {
	RuleID      string
	Description string
	Relation    string
	FailCount   int
}

// ReportData 报告渲染输入
type ReportData struct {
	Context     validation.ValidationContext
	GeneratedAt time.Time
	Failures    []validation.FailureRecord
	RuleErrors  []validation.RuleError
	Dominance   []confidentiality.DominanceResult
}

// failureView 失败明细的展示行
type failureView struct {
	RuleID      string
	GroupKey    string
	LhsValue    string
	Relation    string
	RhsValue    string
	Difference  string
	Description string
	Unmatched   bool
}

// dominanceView 支配度结果的展示行
type dominanceView struct {
	GroupKey     string
	Contributors string
	Share        string
	Tag          string
	NotFree      bool
}

type reportView struct {
	Context     validation.ValidationContext
	GeneratedAt string
	Clean       bool
	Summary     []RuleSummary
	Failures    []failureView
	RuleErrors  []validation.RuleError
	Dominance   []dominanceView
}

// BuildSummary 按规则汇总失败数，按rule_id升序
func BuildSummary(failures []validation.FailureRecord) []RuleSummary {
	byRule := make(map[string]*RuleSummary)
	var order []string
	for _, failure := range failures {
		summary, ok := byRule[failure.RuleID]
		if !ok {
			summary = &RuleSummary{
				RuleID:      failure.RuleID,
				Description: failure.Description,
				Relation:    failure.Relation.Symbol(),
			}
			byRule[failure.RuleID] = summary
			order = append(order, failure.RuleID)
		}
		summary.FailCount++
	}
	sort.Strings(order)
	summaries := make([]RuleSummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byRule[id])
	}
	return summaries
}

// RenderHTML 渲染校验报告
func RenderHTML(w io.Writer, data ReportData) error {
	view := reportView{
		Context:     data.Context,
		GeneratedAt: data.GeneratedAt.Format("2006-01-02 15:04:05"),
		Clean:       len(data.Failures) == 0 && len(data.RuleErrors) == 0,
		Summary:     BuildSummary(data.Failures),
		RuleErrors:  data.RuleErrors,
	}
	for _, failure := range data.Failures {
		view.Failures = append(view.Failures, failureView{
			RuleID:      failure.RuleID,
			GroupKey:    FormatGroupKey(failure.GroupKey),
			LhsValue:    formatValue(failure.LhsValue),
			Relation:    failure.Relation.Symbol(),
			RhsValue:    formatValue(failure.RhsValue),
			Difference:  formatValue(failure.Difference),
			Description: failure.Description,
			Unmatched:   failure.Unmatched(),
		})
	}
	for _, result := range data.Dominance {
		view.Dominance = append(view.Dominance, dominanceView{
			GroupKey:     FormatGroupKey(result.GroupKey),
			Contributors: strings.Join(result.DominantContributors, ", "),
			Share:        fmt.Sprintf("%.1f%%", result.DominantShare*100),
			Tag:          result.Tag,
			NotFree:      result.Tag == confidentiality.TagNotFree,
		})
	}
	return reportTemplate.Execute(w, view)
}

// FormatGroupKey 将分组键格式化为"列=值"列表，列名升序
func FormatGroupKey(groupKey map[string]string) string {
	cols := make([]string, 0, len(groupKey))
	for col := range groupKey {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col + "=" + groupKey[col]
	}
	return strings.Join(parts, ", ")
}

func formatValue(v *float64) string {
	if v == nil {
		// 跨报表未匹配键的缺席标记
		return "—"
	}
	return fmt.Sprintf("%.3f", *v)
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>IBS校验报告</title>
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 20px; background-color: #f4f4f9; }
        h1 { color: #2c3e50; }
        .container { background: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        table { width: 100%; border-collapse: collapse; margin-top: 10px; font-size: 13px; }
        th { background-color: #34495e; color: white; padding: 10px; text-align: left; }
        td { border-bottom: 1px solid #ddd; padding: 8px; }
        tr:hover { background-color: #f1f1f1; }
        .tag-n { color: #e74c3c; font-weight: bold; }
        .unmatched { color: #e67e22; font-weight: bold; }
        .summary-box { margin-bottom: 30px; border-left: 5px solid #e74c3c; padding-left: 15px; }
        .clean-box { border-left: 5px solid #27ae60; padding-left: 15px; }
    </style>
</head>
<body>
<div class="container">
    <h1>IBS校验报告</h1>
    <p>报告机构: {{.Context.ReportingCountry}} | 本币: {{.Context.CurrencyCode}} | 报告期: {{.Context.Quarter}} | 生成时间: {{.GeneratedAt}}</p>

    {{if .Clean}}
    <div class="clean-box"><h2>未发现一致性错误</h2></div>
    {{else}}
    <div class="summary-box">
        <h2>汇总</h2>
        <table>
            <tr><th>规则</th><th>说明</th><th>关系</th><th>失败数</th></tr>
            {{range .Summary}}
            <tr><td>{{.RuleID}}</td><td>{{.Description}}</td><td>{{.Relation}}</td><td>{{.FailCount}}</td></tr>
            {{end}}
        </table>
    </div>

    {{if .Failures}}
    <h2>失败明细</h2>
    <table>
        <tr><th>规则</th><th>分组键</th><th>LHS</th><th>关系</th><th>RHS</th><th>差值</th><th>说明</th></tr>
        {{range .Failures}}
        <tr{{if .Unmatched}} class="unmatched"{{end}}><td>{{.RuleID}}</td><td>{{.GroupKey}}</td><td>{{.LhsValue}}</td><td>{{.Relation}}</td><td>{{.RhsValue}}</td><td>{{.Difference}}</td><td>{{.Description}}</td></tr>
        {{end}}
    </table>
    {{end}}

    {{if .RuleErrors}}
    <h2>规则错误</h2>
    <table>
        <tr><th>规则</th><th>错误</th></tr>
        {{range .RuleErrors}}
        <tr><td>{{.RuleID}}</td><td>{{.Message}}</td></tr>
        {{end}}
    </table>
    {{end}}
    {{end}}

    {{if .Dominance}}
    <h2>支配度结果</h2>
    <table>
        <tr><th>分组键</th><th>支配贡献方</th><th>最大份额</th><th>标记</th></tr>
        {{range .Dominance}}
        <tr><td>{{.GroupKey}}</td><td>{{.Contributors}}</td><td>{{.Share}}</td><td{{if .NotFree}} class="tag-n"{{end}}>{{.Tag}}</td></tr>
        {{end}}
    </table>
    {{end}}
</div>
</body>
</html>
`))
