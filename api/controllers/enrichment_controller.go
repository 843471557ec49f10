/*
 * @module api/controllers/enrichment_controller
 * @description 标注控制器：为行集合附加质量与保密状态列后原样返回
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/validation_service_req.md
 * @stateFlow 请求接收 -> 规则求值与支配度计算 -> 状态列写入 -> 响应返回
 * @rules 不丢行、不重排；业务失败体现在状态列而非错误响应
 * @dependencies github.com/go-chi/render
 * @refs service/enrichment
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"ibs-validation-service/service"
	"ibs-validation-service/service/confidentiality"
	"ibs-validation-service/service/dataset"
	"ibs-validation-service/service/enrichment"
	"ibs-validation-service/service/validation"
)

// EnrichmentController 标注控制器
type EnrichmentController struct {
	service *service.ValidationService
}

// NewEnrichmentController 创建标注控制器实例
func NewEnrichmentController() *EnrichmentController {
	return &EnrichmentController{service: service.GlobalValidationService}
}

// AnnotateRequest 标注请求
type AnnotateRequest struct {
	Context   *validation.ValidationContext    `json:"context,omitempty"`
	Rows      []dataset.Row                    `json:"rows"`
	Right     []dataset.Row                    `json:"right,omitempty"`
	Rules     []service.RulePayload            `json:"rules"`
	Dominance *confidentiality.DominanceParams `json:"dominance,omitempty"`
}

// AnnotateResponse 标注结果
type AnnotateResponse struct {
	Rows       []dataset.Row                     `json:"rows"`
	Failures   []validation.FailureRecord        `json:"failures"`
	RuleErrors []validation.RuleError            `json:"rule_errors"`
	Dominance  []confidentiality.DominanceResult `json:"dominance,omitempty"`
}

// AnnotateDataset 为行集合附加状态列
// @Summary 数据集标注
// @Description 运行规则与支配度计算，为每行附加QUALITY_STATUS与CONFIDENTIALITY_STATUS列
// @Tags 标注
// @Accept json
// @Produce json
// @Param request body AnnotateRequest true "标注请求"
// @Success 200 {object} APIResponse{data=AnnotateResponse}
// @Failure 400 {object} APIResponse
// @Router /enrichment/annotate [post]
func (c *EnrichmentController) AnnotateDataset(w http.ResponseWriter, r *http.Request) {
	var req AnnotateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: 1, Msg: "请求解析失败: " + err.Error()})
		return
	}

	ctx := c.service.Context()
	if req.Context != nil {
		ctx = *req.Context
	}
	specs := make([]validation.RuleSpec, len(req.Rules))
	for i, payload := range req.Rules {
		specs[i] = payload.ToSpec()
	}
	opts := enrichment.Options{
		Context:   ctx,
		Rules:     specs,
		Dominance: req.Dominance,
	}
	if req.Right != nil {
		opts.Right = dataset.New(req.Right)
	}

	result, err := c.service.Annotate(req.Rows, opts)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: 1, Msg: err.Error()})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: 0,
		Msg:    "标注完成",
		Data: AnnotateResponse{
			Rows:       result.Dataset.Rows(),
			Failures:   result.Failures,
			RuleErrors: result.RuleErrors,
			Dominance:  result.Dominance,
		},
	})
}
