/*
 * @module api/controllers/confidentiality_controller
 * @description 保密性控制器：对贡献方级行集合计算支配度结果
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/validation_service_req.md
 * @stateFlow 请求接收 -> 参数解析 -> 支配度计算 -> 响应返回
 * @rules 支配标记N是正常输出；仅缺列等模式问题返回非零状态
 * @dependencies github.com/go-chi/render
 * @refs service/confidentiality
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"ibs-validation-service/service"
	"ibs-validation-service/service/confidentiality"
	"ibs-validation-service/service/dataset"
)

// ConfidentialityController 保密性控制器
type ConfidentialityController struct {
	service *service.ValidationService
}

// NewConfidentialityController 创建保密性控制器实例
func NewConfidentialityController() *ConfidentialityController {
	return &ConfidentialityController{service: service.GlobalValidationService}
}

// AssessRequest 支配度计算请求
type AssessRequest struct {
	Rows   []dataset.Row                   `json:"rows"`
	Params confidentiality.DominanceParams `json:"params"`
}

// AssessDominance 计算支配度结果
// @Summary 支配度计算
// @Description 对贡献方级行集合按分组计算最大单一贡献方份额与发布标记
// @Tags 保密性
// @Accept json
// @Produce json
// @Param request body AssessRequest true "支配度计算请求"
// @Success 200 {object} APIResponse{data=[]confidentiality.DominanceResult}
// @Failure 400 {object} APIResponse
// @Router /confidentiality/assess [post]
func (c *ConfidentialityController) AssessDominance(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: 1, Msg: "请求解析失败: " + err.Error()})
		return
	}

	results, err := c.service.AssessDominance(req.Rows, req.Params)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: 1, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "支配度计算完成", Data: results})
}
