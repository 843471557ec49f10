/*
 * @module api/controllers/validation_controller
 * @description 校验控制器：运行规则目录、查询运行记录、渲染报告、临时规则求值
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/validation_service_req.md
 * @stateFlow 请求接收 -> 参数解析 -> 服务门面调用 -> 响应返回
 * @rules 规则失败作为正常数据返回；仅请求级问题返回非零状态
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/validation_service.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ibs-validation-service/service"
	"ibs-validation-service/service/dataset"
	"ibs-validation-service/service/validation"
)

// ValidationController 校验控制器
type ValidationController struct {
	service *service.ValidationService
}

// NewValidationController 创建校验控制器实例
func NewValidationController() *ValidationController {
	return &ValidationController{service: service.GlobalValidationService}
}

// RunValidation 运行规则目录校验
// @Summary 运行规则目录校验
// @Description 对内联行集合运行指定规则目录，返回完整运行记录
// @Tags 校验
// @Accept json
// @Produce json
// @Param request body service.RunRequest true "校验运行请求"
// @Success 200 {object} APIResponse{data=service.ValidationRun}
// @Failure 400 {object} APIResponse
// @Router /validation/runs [post]
func (c *ValidationController) RunValidation(w http.ResponseWriter, r *http.Request) {
	var req service.RunRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: 1, Msg: "请求解析失败: " + err.Error()})
		return
	}

	run, err := c.service.RunCatalogs(req)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: 1, Msg: err.Error()})
		return
	}

	render.JSON(w, r, APIResponse{Status: 0, Msg: "校验运行完成", Data: run})
}

// ListRuns 分页查询运行记录
// @Summary 查询校验运行列表
// @Description 分页查询近期校验运行记录，最新在前
// @Tags 校验
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页大小" default(10)
// @Success 200 {object} PaginatedResponse{data=[]service.ValidationRun}
// @Router /validation/runs [get]
func (c *ValidationController) ListRuns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	runs, total := c.service.ListRuns(page, size)
	render.JSON(w, r, PaginatedResponse{
		Status: 0,
		Msg:    "获取运行列表成功",
		Data:   runs,
		Total:  int64(total),
		Page:   page,
		Size:   size,
	})
}

// GetRun 查询单次运行记录
// @Summary 查询校验运行详情
// @Description 按运行ID查询完整运行记录
// @Tags 校验
// @Produce json
// @Param id path string true "运行ID"
// @Success 200 {object} APIResponse{data=service.ValidationRun}
// @Failure 404 {object} APIResponse
// @Router /validation/runs/{id} [get]
func (c *ValidationController) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := c.service.GetRun(id)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, APIResponse{Status: 1, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "获取运行详情成功", Data: run})
}

// GetRunReport 渲染单次运行的HTML报告
// @Summary 获取校验运行报告
// @Description 按运行ID渲染HTML校验报告
// @Tags 校验
// @Produce html
// @Param id path string true "运行ID"
// @Success 200 {string} string "HTML报告"
// @Failure 404 {object} APIResponse
// @Router /validation/runs/{id}/report [get]
func (c *ValidationController) GetRunReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := c.service.RenderReport(id)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, APIResponse{Status: 1, Msg: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report))
}

// EvaluateRequest 临时规则求值请求
type EvaluateRequest struct {
	Context *validation.ValidationContext `json:"context,omitempty"`
	Left    []dataset.Row                 `json:"left"`
	Right   []dataset.Row                 `json:"right,omitempty"`
	Rules   []service.RulePayload         `json:"rules"`
}

// EvaluateResponse 临时规则求值结果
type EvaluateResponse struct {
	Failures   []validation.FailureRecord `json:"failures"`
	RuleErrors []validation.RuleError     `json:"rule_errors"`
}

// EvaluateRules 对调用方自带的规则求值
// @Summary 临时规则求值
// @Description 对内联行集合运行调用方提交的规则定义，不经规则目录
// @Tags 校验
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "求值请求"
// @Success 200 {object} APIResponse{data=EvaluateResponse}
// @Failure 400 {object} APIResponse
// @Router /validation/evaluate [post]
func (c *ValidationController) EvaluateRules(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: 1, Msg: "请求解析失败: " + err.Error()})
		return
	}
	if len(req.Rules) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: 1, Msg: "至少需要一条规则"})
		return
	}

	failures, ruleErrors := c.service.EvaluateAdhoc(req.Context, req.Left, req.Right, req.Rules)
	render.JSON(w, r, APIResponse{
		Status: 0,
		Msg:    "规则求值完成",
		Data: EvaluateResponse{
			Failures:   failures,
			RuleErrors: ruleErrors,
		},
	})
}
