/*
 * @module service/rules/cbs
 * @description CBS（并表银行统计）规则目录：直接交易对手/最终担保人口径内部规则与跨口径规则
 * @architecture 分层架构 - 规则目录层
 * @documentReference ai_docs/ibs_rule_catalog_req.md
 * @stateFlow 口径参数 -> 规则工厂 -> 有序规则序列
 * @rules 两种报告口径(F=直接交易对手, G=最终担保人)共用同一套聚合恒等式，
 *        口径取值在构建时固化进过滤器；含一条不等式规则(债权<=资产)
 * @dependencies service/dataset, service/validation
 * @refs service/rules/registry.go
 */

package rules

import (
	"ibs-validation-service/service/dataset"
	"ibs-validation-service/service/validation"
)

// cbsDims 除去excluded后的标准CBS维度集合，定义数据中的唯一数据格
func cbsDims(excluded ...string) []string {
	all := []string{
		"MEASURE", "REP_COUNTRY", "BANK_TYPE", "REPORTING_BASIS",
		"POSITION", "INSTRUMENT", "REMAINING_MATURITY",
		"CP_CURRENCY", "CP_SECTOR", "CP_COUNTRY",
	}
	skip := make(map[string]bool, len(excluded))
	for _, dim := range excluded {
		skip[dim] = true
	}
	var dims []string
	for _, dim := range all {
		if !skip[dim] {
			dims = append(dims, dim)
		}
	}
	return dims
}

// cbsStandardCell 构建CBS标准数据格谓词（口径+头寸+工具+期限+货币）
func cbsStandardCell(basis, position string) []dataset.Predicate {
	return []dataset.Predicate{
		dataset.Eq("REPORTING_BASIS", basis),
		dataset.Eq("POSITION", position),
		dataset.Eq("INSTRUMENT", "A"),
		dataset.Eq("REMAINING_MATURITY", "A"),
		dataset.Eq("CP_CURRENCY", "TO1"),
	}
}

// CBSInternalRules 返回直接交易对手口径(CBSI)内部一致性规则
func CBSInternalRules() []validation.RuleSpec {
	return cbsStandardInternalRules("F", "CBS_CC")
}

// CBSGInternalRules 返回最终担保人口径(CBSG)内部一致性规则
// 聚合逻辑与CBSI一致，作用于担保人口径(G)
func CBSGInternalRules() []validation.RuleSpec {
	return cbsStandardInternalRules("G", "CBSG_CC")
}

// cbsStandardInternalRules 按报告口径生成标准聚合规则（部门、期限、恒等式、不等式）
func cbsStandardInternalRules(basis, prefix string) []validation.RuleSpec {
	return []validation.RuleSpec{
		{
			RuleID:      prefix + "01",
			Description: "(" + basis + ") 非金融私人部门(S) = 非金融企业(C) + 住户(H) + 未分配(L)",
			Kind:        validation.KindInternal,
			GroupBy:     cbsDims("CP_SECTOR"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(append(cbsStandardCell(basis, "I"), dataset.Eq("CP_SECTOR", "S"))...),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(append(cbsStandardCell(basis, "I"), dataset.In("CP_SECTOR", "C", "H", "L"))...),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 3,
		},
		{
			RuleID:      prefix + "02",
			Description: "(" + basis + ") 非银行私人部门(R) = 非银行金融(F) + 非金融私人(S)",
			Kind:        validation.KindInternal,
			GroupBy:     cbsDims("CP_SECTOR"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(append(cbsStandardCell(basis, "I"), dataset.Eq("CP_SECTOR", "R"))...),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(append(cbsStandardCell(basis, "I"), dataset.In("CP_SECTOR", "F", "S"))...),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 3,
		},
		{
			RuleID:      prefix + "03",
			Description: "(" + basis + ") 全部部门(A) = 银行(B) + 官方(O) + 非银行私人(R) + 未分配(U)",
			Kind:        validation.KindInternal,
			GroupBy:     cbsDims("CP_SECTOR"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(append(cbsStandardCell(basis, "I"), dataset.Eq("CP_SECTOR", "A"))...),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(append(cbsStandardCell(basis, "I"), dataset.In("CP_SECTOR", "B", "O", "R", "U"))...),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 3,
		},
		{
			RuleID:      prefix + "04",
			Description: "(" + basis + ") 期限合计(A) = 1年内(U) + 1-2年(M) + 2年以上(N) + 未分配(X)",
			Kind:        validation.KindInternal,
			GroupBy:     cbsDims("REMAINING_MATURITY"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(append(cbsStandardCell(basis, "I"), dataset.Eq("CP_SECTOR", "A"))...),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter: dataset.Where(
					dataset.Eq("REPORTING_BASIS", basis),
					dataset.Eq("POSITION", "I"),
					dataset.Eq("INSTRUMENT", "A"),
					dataset.In("REMAINING_MATURITY", "U", "M", "N", "X"),
					dataset.Eq("CP_CURRENCY", "TO1"),
					dataset.Eq("CP_SECTOR", "A"),
				),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 4,
		},
		{
			RuleID:      prefix + "09",
			Description: "(" + basis + ") 总债权(C) = 国际债权(I) + 当地币种当地债权(B)",
			Kind:        validation.KindInternal,
			GroupBy:     cbsDims("POSITION", "CP_CURRENCY"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(append(cbsStandardCell(basis, "C"), dataset.Eq("CP_SECTOR", "A"))...),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter: dataset.AnyOf(
					dataset.Clause{
						dataset.Eq("REPORTING_BASIS", basis),
						dataset.Eq("POSITION", "I"),
						dataset.Eq("CP_CURRENCY", "TO1"),
						dataset.Eq("INSTRUMENT", "A"),
						dataset.Eq("REMAINING_MATURITY", "A"),
						dataset.Eq("CP_SECTOR", "A"),
					},
					dataset.Clause{
						dataset.Eq("REPORTING_BASIS", basis),
						dataset.Eq("POSITION", "B"),
						dataset.Eq("CP_CURRENCY", "LC1"),
						dataset.Eq("INSTRUMENT", "A"),
						dataset.Eq("REMAINING_MATURITY", "A"),
						dataset.Eq("CP_SECTOR", "A"),
					},
				),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 5,
		},
		{
			RuleID:      prefix + "11",
			Description: "(" + basis + ") 总债权(C) <= 总资产(F)",
			Kind:        validation.KindInternal,
			GroupBy:     cbsDims("POSITION"),
			LHS: validation.AggregationSpec{
				Filter: dataset.Where(append(cbsStandardCell(basis, "C"),
					dataset.Eq("CP_SECTOR", "A"), dataset.Eq("CP_COUNTRY", "5J"))...),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter: dataset.Where(append(cbsStandardCell(basis, "F"),
					dataset.Eq("CP_SECTOR", "A"), dataset.Eq("CP_COUNTRY", "5J"))...),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationLte,
			Tolerance: 2,
		},
	}
}

// CBSCrossReportRules 返回直接交易对手口径与最终担保人口径之间的一致性规则
// 两侧在同一合并CBS数据集上求值（口径取值由过滤器区分），对齐维度不含REPORTING_BASIS
func CBSCrossReportRules() []validation.RuleSpec {
	crossDims := cbsDims("REPORTING_BASIS")
	return []validation.RuleSpec{
		{
			RuleID:      "CBS_CROSS_01",
			Description: "总资产(直接交易对手) == 总资产(最终担保人)",
			Kind:        validation.KindCross,
			GroupBy:     crossDims,
			LHS: validation.AggregationSpec{
				Filter: dataset.Where(
					dataset.Eq("REPORTING_BASIS", "F"),
					dataset.Eq("POSITION", "F"),
					dataset.Eq("INSTRUMENT", "A"),
					dataset.Eq("CP_SECTOR", "A"),
				),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter: dataset.Where(
					dataset.Eq("REPORTING_BASIS", "G"),
					dataset.Eq("POSITION", "F"),
					dataset.Eq("INSTRUMENT", "A"),
					dataset.Eq("CP_SECTOR", "A"),
				),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 5,
		},
		{
			RuleID:      "CBS_CROSS_02",
			Description: "全球总债权(最终担保人) == 全球总债权(直接交易对手)，容差吸收净风险转移",
			Kind:        validation.KindCross,
			GroupBy:     crossDims,
			LHS: validation.AggregationSpec{
				Filter: dataset.Where(
					dataset.Eq("REPORTING_BASIS", "G"),
					dataset.Eq("POSITION", "C"),
					dataset.Eq("CP_COUNTRY", "5J"),
				),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter: dataset.Where(
					dataset.Eq("REPORTING_BASIS", "F"),
					dataset.Eq("POSITION", "C"),
					dataset.Eq("CP_COUNTRY", "5J"),
				),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 100,
		},
	}
}
