/*
 * @module api/controllers/meta_controller
 * @description 元数据控制器，提供规则目录、规则类别、比较关系与状态枚举查询
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow HTTP请求处理流程
 * @rules 元数据为静态常量，直接返回
 * @dependencies github.com/go-chi/render
 * @refs service/meta/validation_meta.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"ibs-validation-service/service/meta"
)

// MetaController 元数据控制器
type MetaController struct{}

// NewMetaController 创建元数据控制器实例
func NewMetaController() *MetaController {
	return &MetaController{}
}

// GetCatalogs 获取规则目录列表
// @Summary 获取规则目录
// @Description 返回全部规则目录及其数据集绑定
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]meta.CatalogInfo}
// @Router /meta/catalogs [get]
func (c *MetaController) GetCatalogs(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{Status: 0, Msg: "获取规则目录成功", Data: meta.Catalogs})
}

// GetRuleKinds 获取规则类别列表
// @Summary 获取规则类别
// @Description 返回内部一致性与跨报表一致性规则类别定义
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]meta.RuleKindInfo}
// @Router /meta/rule-kinds [get]
func (c *MetaController) GetRuleKinds(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{Status: 0, Msg: "获取规则类别成功", Data: meta.RuleKinds})
}

// GetRelations 获取比较关系列表
// @Summary 获取比较关系
// @Description 返回规则支持的左右聚合比较关系
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]meta.RelationInfo}
// @Router /meta/relations [get]
func (c *MetaController) GetRelations(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{Status: 0, Msg: "获取比较关系成功", Data: meta.Relations})
}

// GetStatuses 获取状态枚举列表
// @Summary 获取状态枚举
// @Description 返回标注状态列的取值定义
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]meta.StatusInfo}
// @Router /meta/statuses [get]
func (c *MetaController) GetStatuses(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{Status: 0, Msg: "获取状态枚举成功", Data: meta.Statuses})
}

// GetReportTypes 获取报告类型列表
// @Summary 获取报告类型
// @Description 返回校验结果支持的报告输出类型
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]meta.ReportTypeInfo}
// @Router /meta/report-types [get]
func (c *MetaController) GetReportTypes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{Status: 0, Msg: "获取报告类型成功", Data: meta.ReportTypes})
}
