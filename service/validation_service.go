/*
 * @module service/validation_service
 * @description 校验服务门面：运行规则目录、管理近期运行记录、生成报告、支配度与标注入口
 * @architecture 分层架构 - 服务门面层
 * @documentReference ai_docs/validation_service_req.md
 * @stateFlow 请求 -> 数据集构建 -> 目录分发 -> 校验器求值 -> 运行记录入环形缓存
 * @rules 运行记录仅保留在内存环形缓存（无持久层）；业务失败是正常输出不报错；
 *        每次运行使用全新校验器实例，互不累积
 * @dependencies github.com/google/uuid, service/validation, service/rules, service/reporting
 * @refs api/controllers, service/scheduler
 */

package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ibs-validation-service/service/confidentiality"
	"ibs-validation-service/service/dataset"
	"ibs-validation-service/service/enrichment"
	"ibs-validation-service/service/ingestion"
	"ibs-validation-service/service/reporting"
	"ibs-validation-service/service/rules"
	"ibs-validation-service/service/validation"
)

// maxRetainedRuns 环形缓存保留的最近运行数
const maxRetainedRuns = 50

// ValidationService 校验服务门面
type ValidationService struct {
	context        validation.ValidationContext
	maxConcurrent  int
	submissionsDir string
	reportsDir     string
	submissionsDB  *gorm.DB

	mu   sync.RWMutex
	runs []*ValidationRun // 最新在前
}

// ValidationRun 一次校验运行的完整记录
type ValidationRun struct {
	ID             string                            `json:"id"`
	Context        validation.ValidationContext      `json:"context"`
	Catalogs       []string                          `json:"catalogs"`
	StartedAt      time.Time                         `json:"started_at"`
	FinishedAt     time.Time                         `json:"finished_at"`
	DurationMs     int64                             `json:"duration_ms"`
	RowCounts      map[string]int                    `json:"row_counts"`
	FailureCount   int                               `json:"failure_count"`
	RuleErrorCount int                               `json:"rule_error_count"`
	Failures       []validation.FailureRecord        `json:"failures"`
	RuleErrors     []validation.RuleError            `json:"rule_errors"`
	Dominance      []confidentiality.DominanceResult `json:"dominance,omitempty"`
}

// RulePayload 外部提交的规则定义，容差缺省时回填DefaultTolerance
type RulePayload struct {
	RuleID      string                     `json:"rule_id"`
	Description string                     `json:"description"`
	Kind        validation.RuleKind        `json:"kind"`
	GroupBy     []string                   `json:"group_by"`
	LHS         validation.AggregationSpec `json:"lhs"`
	RHS         validation.AggregationSpec `json:"rhs"`
	Relation    validation.Relation        `json:"relation,omitempty"`
	Tolerance   *float64                   `json:"tolerance,omitempty"`
}

// ToSpec 转换为引擎规则值
func (p RulePayload) ToSpec() validation.RuleSpec {
	tolerance := validation.DefaultTolerance
	if p.Tolerance != nil {
		tolerance = *p.Tolerance
	}
	return validation.RuleSpec{
		RuleID:      p.RuleID,
		Description: p.Description,
		Kind:        p.Kind,
		GroupBy:     p.GroupBy,
		LHS:         p.LHS,
		RHS:         p.RHS,
		Relation:    p.Relation,
		Tolerance:   tolerance,
	}
}

// DominanceRequest 支配度计算请求：数据集键 + 计算参数
type DominanceRequest struct {
	Dataset string `json:"dataset"`
	confidentiality.DominanceParams
}

// RunRequest 目录校验运行请求
type RunRequest struct {
	Context   *validation.ValidationContext `json:"context,omitempty"`
	Catalogs  []string                      `json:"catalogs"`
	Datasets  map[string][]dataset.Row      `json:"datasets"`
	Dominance *DominanceRequest             `json:"dominance,omitempty"`
}

// NewValidationService 创建校验服务
func NewValidationService(ctx validation.ValidationContext, maxConcurrent int, submissionsDir, reportsDir string) *ValidationService {
	return &ValidationService{
		context:        ctx,
		maxConcurrent:  maxConcurrent,
		submissionsDir: submissionsDir,
		reportsDir:     reportsDir,
	}
}

// Context 返回服务级默认校验上下文
func (s *ValidationService) Context() validation.ValidationContext {
	return s.context
}

// SetSubmissionsDB 设置可选的提交数据库连接
// 配置后定时清扫在提交文件缺失时回落到对应提交表
func (s *ValidationService) SetSubmissionsDB(db *gorm.DB) {
	s.submissionsDB = db
}

// RunCatalogs 对请求中的数据集运行规则目录，返回完整运行记录
// 规则失败是正常输出；仅目录未知、数据集缺失等请求级问题返回错误
func (s *ValidationService) RunCatalogs(req RunRequest) (*ValidationRun, error) {
	if len(req.Catalogs) == 0 {
		return nil, fmt.Errorf("至少需要指定一个规则目录")
	}

	ctx := s.context
	if req.Context != nil {
		ctx = *req.Context
	}

	datasets := make(map[string]*dataset.Dataset, len(req.Datasets))
	rowCounts := make(map[string]int, len(req.Datasets))
	for key, rows := range req.Datasets {
		ds := dataset.New(rows)
		datasets[key] = ds
		rowCounts[key] = ds.Len()
	}

	started := time.Now()
	validator := validation.New(ctx)
	validator.SetMaxConcurrent(s.maxConcurrent)

	for _, catalogID := range req.Catalogs {
		ruleList, err := rules.Catalog(catalogID, ctx)
		if err != nil {
			return nil, err
		}
		binding, err := rules.Binding(catalogID)
		if err != nil {
			return nil, err
		}
		left, ok := datasets[binding.LeftDataset]
		if !ok {
			return nil, fmt.Errorf("目录 %s 需要数据集 %s", catalogID, binding.LeftDataset)
		}
		var right *dataset.Dataset
		if binding.RightDataset != "" {
			right, ok = datasets[binding.RightDataset]
			if !ok {
				return nil, fmt.Errorf("目录 %s 需要数据集 %s", catalogID, binding.RightDataset)
			}
		}
		validator.Validate(left, right, ruleList)
	}

	var dominance []confidentiality.DominanceResult
	if req.Dominance != nil {
		ds, ok := datasets[req.Dominance.Dataset]
		if !ok {
			return nil, fmt.Errorf("支配度计算需要数据集 %s", req.Dominance.Dataset)
		}
		var err error
		dominance, err = confidentiality.Assess(ds, req.Dominance.DominanceParams)
		if err != nil {
			return nil, err
		}
	}

	run := s.recordRun(ctx, req.Catalogs, rowCounts, validator, dominance, started)
	return run, nil
}

// recordRun 构建运行记录、更新指标并入环形缓存
func (s *ValidationService) recordRun(ctx validation.ValidationContext, catalogs []string,
	rowCounts map[string]int, validator *validation.Validator,
	dominance []confidentiality.DominanceResult, started time.Time) *ValidationRun {

	finished := time.Now()
	run := &ValidationRun{
		ID:             uuid.NewString(),
		Context:        ctx,
		Catalogs:       catalogs,
		StartedAt:      started,
		FinishedAt:     finished,
		DurationMs:     finished.Sub(started).Milliseconds(),
		RowCounts:      rowCounts,
		Failures:       validator.Failures(),
		RuleErrors:     validator.RuleErrors(),
		Dominance:      dominance,
		FailureCount:   len(validator.Failures()),
		RuleErrorCount: len(validator.RuleErrors()),
	}

	validationRunsTotal.Inc()
	validationFailuresTotal.Add(float64(run.FailureCount))
	validationRuleErrorsTotal.Add(float64(run.RuleErrorCount))
	validationRunDuration.Observe(finished.Sub(started).Seconds())

	s.mu.Lock()
	s.runs = append([]*ValidationRun{run}, s.runs...)
	if len(s.runs) > maxRetainedRuns {
		s.runs = s.runs[:maxRetainedRuns]
	}
	s.mu.Unlock()

	slog.Info("校验运行完成",
		"run_id", run.ID,
		"catalogs", catalogs,
		"failures", run.FailureCount,
		"rule_errors", run.RuleErrorCount,
		"duration_ms", run.DurationMs)
	return run
}

// GetRun 按ID查询运行记录
func (s *ValidationService) GetRun(id string) (*ValidationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, run := range s.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, fmt.Errorf("运行记录不存在: %s", id)
}

// ListRuns 分页查询运行记录（最新在前）
func (s *ValidationService) ListRuns(page, size int) ([]*ValidationRun, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.runs)
	start := (page - 1) * size
	if start >= total {
		return []*ValidationRun{}, total
	}
	end := start + size
	if end > total {
		end = total
	}
	out := make([]*ValidationRun, end-start)
	copy(out, s.runs[start:end])
	return out, total
}

// RenderReport 渲染某次运行的HTML报告
func (s *ValidationService) RenderReport(id string) (string, error) {
	run, err := s.GetRun(id)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = reporting.RenderHTML(&buf, reporting.ReportData{
		Context:     run.Context,
		GeneratedAt: run.FinishedAt,
		Failures:    run.Failures,
		RuleErrors:  run.RuleErrors,
		Dominance:   run.Dominance,
	})
	if err != nil {
		return "", fmt.Errorf("报告渲染失败: %w", err)
	}
	return buf.String(), nil
}

// EvaluateAdhoc 对调用方自带的规则求值（不经目录）
func (s *ValidationService) EvaluateAdhoc(ctx *validation.ValidationContext,
	left, right []dataset.Row, payloads []RulePayload) ([]validation.FailureRecord, []validation.RuleError) {

	runCtx := s.context
	if ctx != nil {
		runCtx = *ctx
	}
	specs := make([]validation.RuleSpec, len(payloads))
	for i, payload := range payloads {
		specs[i] = payload.ToSpec()
	}
	var rightDS *dataset.Dataset
	if right != nil {
		rightDS = dataset.New(right)
	}
	validator := validation.New(runCtx)
	validator.SetMaxConcurrent(s.maxConcurrent)
	validator.Validate(dataset.New(left), rightDS, specs)
	return validator.Failures(), validator.RuleErrors()
}

// AssessDominance 对贡献方级行集合计算支配度结果
func (s *ValidationService) AssessDominance(rows []dataset.Row, params confidentiality.DominanceParams) ([]confidentiality.DominanceResult, error) {
	return confidentiality.Assess(dataset.New(rows), params)
}

// Annotate 对行集合执行标注，返回附加状态列后的行集合与来源明细
func (s *ValidationService) Annotate(rows []dataset.Row, opts enrichment.Options) (*enrichment.Result, error) {
	return enrichment.Annotate(dataset.New(rows), opts)
}

// sweepSource 清扫时的提交来源与目录绑定：优先提交文件，缺失时回落到提交表
type sweepSource struct {
	file     string
	table    string
	dataset  string
	catalogs []string
}

var sweepSources = []sweepSource{
	{file: "lbsr.csv", table: "lbsr_submissions", dataset: "lbsr", catalogs: []string{rules.CatalogLBSRInternal}},
	{file: "lbsn.csv", table: "lbsn_submissions", dataset: "lbsn", catalogs: []string{rules.CatalogLBSNInternal}},
	{file: "cbs.csv", table: "cbs_submissions", dataset: "cbs", catalogs: []string{rules.CatalogCBSIInternal, rules.CatalogCBSGInternal, rules.CatalogCBSCross}},
}

// loadSweepSource 装载单个提交来源
// 提交文件存在时读取文件；否则在配置了提交库时读取对应提交表，空表视为未提交
func (s *ValidationService) loadSweepSource(source sweepSource) (*dataset.Dataset, error) {
	path := filepath.Join(s.submissionsDir, source.file)
	if _, err := os.Stat(path); err == nil {
		return ingestion.LoadCSV(path, ingestion.CSVOptions{})
	}
	if s.submissionsDB == nil {
		return nil, nil
	}
	ds, err := ingestion.LoadTable(s.submissionsDB, source.table)
	if err != nil {
		// 提交表不存在等同于该报表未提交，不中止整轮清扫
		slog.Warn("提交表读取失败，跳过该来源", "table", source.table, "error", err)
		return nil, nil
	}
	if ds.Len() == 0 {
		return nil, nil
	}
	return ds, nil
}

// RunScheduledSweep 清扫提交来源：装载存在的提交文件或提交表、运行匹配目录、落盘HTML报告
// 供定时调度器调用
func (s *ValidationService) RunScheduledSweep(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	datasets := make(map[string][]dataset.Row)
	var catalogs []string
	for _, source := range sweepSources {
		ds, err := s.loadSweepSource(source)
		if err != nil {
			return err
		}
		if ds == nil {
			continue
		}
		datasets[source.dataset] = ds.Rows()
		catalogs = append(catalogs, source.catalogs...)
	}
	// 居民与国籍口径同时提交时追加跨报表目录
	if _, hasR := datasets["lbsr"]; hasR {
		if _, hasN := datasets["lbsn"]; hasN {
			catalogs = append(catalogs, rules.CatalogLBSCross)
		}
	}
	if len(catalogs) == 0 {
		slog.Info("提交目录为空，跳过本次清扫", "dir", s.submissionsDir)
		return nil
	}

	run, err := s.RunCatalogs(RunRequest{Catalogs: catalogs, Datasets: datasets})
	if err != nil {
		return err
	}

	report, err := s.RenderReport(run.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}
	name := fmt.Sprintf("ibs_validation_%s_%s.html", run.Context.Quarter, run.StartedAt.Format("20060102T150405"))
	path := filepath.Join(s.reportsDir, name)
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	slog.Info("定时清扫报告已生成",
		"run_id", run.ID,
		"report", path,
		"failures", run.FailureCount,
		"rule_errors", run.RuleErrorCount)
	return nil
}
