/*
 * @module service/rules/registry
 * @description 规则目录注册表：按目录编码分发规则工厂，并声明各目录的数据集绑定
 * @architecture 分层架构 - 规则目录层
 * @documentReference ai_docs/ibs_rule_catalog_req.md
 * @stateFlow 目录编码 -> 工厂分发 -> 规则序列
 * @rules 未知目录编码返回错误；目录顺序固定以保证批量校验输出可复现
 * @dependencies service/validation
 * @refs service/validation_service.go, api/controllers/meta_controller.go
 */

package rules

import (
	"fmt"

	"ibs-validation-service/service/validation"
)

// 目录编码
const (
	CatalogLBSRInternal = "lbsr_internal"
	CatalogLBSNInternal = "lbsn_internal"
	CatalogLBSCross     = "lbs_cross"
	CatalogCBSIInternal = "cbsi_internal"
	CatalogCBSGInternal = "cbsg_internal"
	CatalogCBSCross     = "cbs_cross"
)

// CatalogBinding 目录与数据集键的绑定关系
// 跨报表目录需要左右两个数据集键；CBS跨口径规则左右取同一合并数据集
type CatalogBinding struct {
	LeftDataset  string
	RightDataset string
}

var catalogBindings = map[string]CatalogBinding{
	CatalogLBSRInternal: {LeftDataset: "lbsr"},
	CatalogLBSNInternal: {LeftDataset: "lbsn"},
	CatalogLBSCross:     {LeftDataset: "lbsr", RightDataset: "lbsn"},
	CatalogCBSIInternal: {LeftDataset: "cbs"},
	CatalogCBSGInternal: {LeftDataset: "cbs"},
	CatalogCBSCross:     {LeftDataset: "cbs", RightDataset: "cbs"},
}

var catalogOrder = []string{
	CatalogLBSRInternal,
	CatalogLBSNInternal,
	CatalogLBSCross,
	CatalogCBSIInternal,
	CatalogCBSGInternal,
	CatalogCBSCross,
}

// Catalog 按目录编码返回规则序列
func Catalog(id string, ctx validation.ValidationContext) ([]validation.RuleSpec, error) {
	switch id {
	case CatalogLBSRInternal:
		return LBSRInternalRules(ctx), nil
	case CatalogLBSNInternal:
		return LBSNInternalRules(ctx), nil
	case CatalogLBSCross:
		return LBSCrossReportRules(ctx), nil
	case CatalogCBSIInternal:
		return CBSInternalRules(), nil
	case CatalogCBSGInternal:
		return CBSGInternalRules(), nil
	case CatalogCBSCross:
		return CBSCrossReportRules(), nil
	default:
		return nil, fmt.Errorf("未知规则目录: %s", id)
	}
}

// Binding 返回目录的数据集绑定，未知目录返回错误
func Binding(id string) (CatalogBinding, error) {
	binding, ok := catalogBindings[id]
	if !ok {
		return CatalogBinding{}, fmt.Errorf("未知规则目录: %s", id)
	}
	return binding, nil
}

// CatalogIDs 返回全部目录编码（固定顺序）
func CatalogIDs() []string {
	ids := make([]string, len(catalogOrder))
	copy(ids, catalogOrder)
	return ids
}
