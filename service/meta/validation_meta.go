/*
 * @module service/meta/validation_meta
 * @description 校验相关元数据定义，包括规则类别、比较关系、状态枚举与规则目录
 * @architecture 元数据层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 静态元数据定义
 * @rules 提供标准化的校验元数据定义，供meta API与前端下拉使用
 * @dependencies 无
 * @refs api/controllers/meta_controller.go
 */

package meta

// RuleKindInfo 规则类别定义
type RuleKindInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RuleKinds 规则类别元数据
var RuleKinds = []RuleKindInfo{
	{
		Code:        "internal",
		Name:        "内部一致性",
		Description: "左右两侧聚合在同一数据集上求值，典型为分项与合计的恒等式",
	},
	{
		Code:        "cross",
		Name:        "跨报表一致性",
		Description: "左右两侧聚合分别在两个数据集上求值，按共享维度对齐比较",
	},
}

// RelationInfo 比较关系定义
type RelationInfo struct {
	Code        string `json:"code"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// Relations 比较关系元数据
var Relations = []RelationInfo{
	{
		Code:        "eq",
		Symbol:      "=",
		Description: "容差内相等：|lhs-rhs|超过容差即失败",
	},
	{
		Code:        "gte",
		Symbol:      ">=",
		Description: "左不小于右：lhs-rhs低于负容差即失败",
	},
	{
		Code:        "lte",
		Symbol:      "<=",
		Description: "左不大于右：lhs-rhs超过容差即失败",
	},
}

// StatusInfo 状态枚举定义
type StatusInfo struct {
	Code        string `json:"code"`
	Column      string `json:"column"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Statuses 标注状态元数据
var Statuses = []StatusInfo{
	{
		Code:        "PASS",
		Column:      "QUALITY_STATUS",
		Name:        "通过",
		Description: "该行未参与任何规则的失败分组",
	},
	{
		Code:        "FAIL",
		Column:      "QUALITY_STATUS",
		Name:        "失败",
		Description: "该行参与至少一个规则的失败分组",
	},
	{
		Code:        "N",
		Column:      "CONFIDENTIALITY_STATUS",
		Name:        "不可自由发布",
		Description: "所在聚合组存在份额超过阈值的单一贡献方",
	},
	{
		Code:        "F",
		Column:      "CONFIDENTIALITY_STATUS",
		Name:        "可自由发布",
		Description: "所在聚合组无支配贡献方",
	},
	{
		Code:        "UNSET",
		Column:      "CONFIDENTIALITY_STATUS",
		Name:        "未标注",
		Description: "该行不属于任何请求的支配度分组",
	},
}

// CatalogInfo 规则目录定义
type CatalogInfo struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	LeftDataset  string `json:"left_dataset"`
	RightDataset string `json:"right_dataset,omitempty"`
}

// Catalogs 规则目录元数据
var Catalogs = []CatalogInfo{
	{
		Code:        "lbsr_internal",
		Name:        "LBS居民口径内部规则",
		Description: "属地银行统计居民口径的货币/部门/工具/银行类型分解恒等式",
		LeftDataset: "lbsr",
	},
	{
		Code:        "lbsn_internal",
		Name:        "LBS国籍口径内部规则",
		Description: "属地银行统计国籍口径的分解恒等式与母行国别规则",
		LeftDataset: "lbsn",
	},
	{
		Code:         "lbs_cross",
		Name:         "LBS跨报表规则",
		Description:  "居民口径与国籍口径之间的一致性比较",
		LeftDataset:  "lbsr",
		RightDataset: "lbsn",
	},
	{
		Code:        "cbsi_internal",
		Name:        "CBS直接交易对手口径内部规则",
		Description: "并表银行统计直接交易对手口径(F)的聚合恒等式",
		LeftDataset: "cbs",
	},
	{
		Code:        "cbsg_internal",
		Name:        "CBS最终担保人口径内部规则",
		Description: "并表银行统计最终担保人口径(G)的聚合恒等式",
		LeftDataset: "cbs",
	},
	{
		Code:         "cbs_cross",
		Name:         "CBS跨口径规则",
		Description:  "直接交易对手口径与最终担保人口径之间的一致性比较",
		LeftDataset:  "cbs",
		RightDataset: "cbs",
	},
}

// ReportTypeInfo 报告类型定义
type ReportTypeInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
}

// ReportTypes 报告类型元数据
var ReportTypes = []ReportTypeInfo{
	{
		Code:        "html",
		Name:        "HTML校验报告",
		ContentType: "text/html",
	},
	{
		Code:        "json",
		Name:        "JSON结果明细",
		ContentType: "application/json",
	},
}
