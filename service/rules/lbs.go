/*
 * @module service/rules/lbs
 * @description LBS（属地银行统计）规则目录：居民口径/国籍口径内部一致性规则与跨报表规则
 * @architecture 分层架构 - 规则目录层
 * @documentReference ai_docs/ibs_rule_catalog_req.md
 * @stateFlow 上下文注入 -> 规则工厂 -> 有序规则序列
 * @rules 规则以纯数据值返回，上下文取值（报告国、本币）在构建时固化进过滤器；
 *        LBSR与LBSN共享货币/部门/工具/银行类型分解的核心规则
 * @dependencies service/dataset, service/validation
 * @refs service/rules/registry.go
 */

package rules

import (
	"ibs-validation-service/service/dataset"
	"ibs-validation-service/service/validation"
)

// ValueColumn IBS报表的金额列
const ValueColumn = "VALUE"

// lbsCrossJoinDims 跨报表规则的对齐维度，定义LBSR与LBSN之间必须一致的数据格
var lbsCrossJoinDims = []string{
	"POSITION", "INSTRUMENT", "DENOM", "CURR_TYPE",
	"REP_CTY", "CP_SECTOR", "CP_COUNTRY",
}

// lbsDims 除去excluded后的标准LBS维度集合，作为内部规则的分组列
func lbsDims(excluded ...string) []string {
	all := []string{
		"POSITION", "INSTRUMENT", "DENOM", "CURR_TYPE",
		"PARENT_CTY", "REP_BANK_TYPE", "REP_CTY", "CP_SECTOR", "CP_COUNTRY",
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

// lbsCommonInternalRules 返回LBSR与LBSN共享的核心内部一致性规则
// 覆盖货币、对手方部门、工具与报告行类型四类分解恒等式
func lbsCommonInternalRules(prefix string, ctx validation.ValidationContext) []validation.RuleSpec {
	return []validation.RuleSpec{
		{
			RuleID:      prefix + "_CC01",
			Description: "货币合计: 全部货币(TO1:A) = 本币(Local:D) + 外币(TO1:F)",
			Kind:        validation.KindInternal,
			GroupBy:     lbsDims("DENOM", "CURR_TYPE"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Eq("DENOM", "TO1"), dataset.Eq("CURR_TYPE", "A")),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter: dataset.AnyOf(
					dataset.Clause{dataset.Eq("DENOM", ctx.CurrencyCode), dataset.Eq("CURR_TYPE", "D")},
					dataset.Clause{dataset.Eq("DENOM", "TO1"), dataset.Eq("CURR_TYPE", "F")},
				),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 4,
		},
		{
			RuleID:      prefix + "_CC02",
			Description: "外币合计: 全部外币(TO1:F) = 主要币种之和 + 其他(TO3:F)",
			Kind:        validation.KindInternal,
			GroupBy:     lbsDims("DENOM", "CURR_TYPE"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Eq("DENOM", "TO1"), dataset.Eq("CURR_TYPE", "F")),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter: dataset.Where(
					dataset.In("DENOM", "USD", "EUR", "JPY", "CHF", "GBP", "TO3"),
					dataset.Eq("CURR_TYPE", "F"),
				),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 4,
		},
		{
			RuleID:      prefix + "_CC04",
			Description: "部门合计: 全部部门(A) = 银行(B) + 非银行(N) + 未分配(U)",
			Kind:        validation.KindInternal,
			GroupBy:     lbsDims("CP_SECTOR"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Ne("INSTRUMENT", "M"), dataset.Eq("CP_SECTOR", "A")),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Ne("INSTRUMENT", "M"), dataset.In("CP_SECTOR", "B", "N", "U")),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 9,
		},
		{
			RuleID:      prefix + "_CC05",
			Description: "银行部门: 银行(B) = 关联行(I) + 中央银行(M) + 非关联行(J)",
			Kind:        validation.KindInternal,
			GroupBy:     lbsDims("CP_SECTOR"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Eq("CP_SECTOR", "B")),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.In("CP_SECTOR", "I", "M", "J")),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 9,
		},
		{
			RuleID:      prefix + "_CC06",
			Description: "非银行部门: 非银行(N) = 金融(F) + 非金融(P)",
			Kind:        validation.KindInternal,
			GroupBy:     lbsDims("CP_SECTOR"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Eq("CP_SECTOR", "N")),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.In("CP_SECTOR", "F", "P")),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 9,
		},
		{
			RuleID:      prefix + "_CC07",
			Description: "非金融部门: P = 企业(C) + 政府(G) + 住户(H)",
			Kind:        validation.KindInternal,
			GroupBy:     lbsDims("CP_SECTOR"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Eq("CP_SECTOR", "P")),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.In("CP_SECTOR", "C", "G", "H")),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 9,
		},
		{
			RuleID:      prefix + "_CC08",
			Description: "工具合计: 全部工具(A) = 债务证券(D) + 贷款与存款(G) + 其他(I)",
			Kind:        validation.KindInternal,
			GroupBy:     lbsDims("INSTRUMENT"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Eq("INSTRUMENT", "A")),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.In("INSTRUMENT", "D", "G", "I")),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 3,
		},
		{
			RuleID:      prefix + "_CC28",
			Description: "其他工具: 其他(I) = 衍生品(V) + 剩余(K)",
			Kind:        validation.KindInternal,
			GroupBy:     lbsDims("INSTRUMENT"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Eq("INSTRUMENT", "I")),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.In("INSTRUMENT", "V", "K")),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 3,
		},
		{
			RuleID:      prefix + "_CC10",
			Description: "报告行类型: 全部银行(A) = 本国银行(D) + 外国分行(B) + 外国子行(S)",
			Kind:        validation.KindInternal,
			GroupBy:     lbsDims("REP_BANK_TYPE"),
			LHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.Eq("REP_BANK_TYPE", "A")),
				ValueColumn: ValueColumn,
			},
			RHS: validation.AggregationSpec{
				Filter:      dataset.Where(dataset.In("REP_BANK_TYPE", "D", "B", "S")),
				ValueColumn: ValueColumn,
			},
			Relation:  validation.RelationEq,
			Tolerance: 7,
		},
	}
}

// LBSRInternalRules 返回居民口径(LBSR)内部一致性规则
// 核心共享规则 + 居民口径特有的对手方国别分解规则
func LBSRInternalRules(ctx validation.ValidationContext) []validation.RuleSpec {
	rules := lbsCommonInternalRules("LBSR", ctx)

	rules = append(rules, validation.RuleSpec{
		RuleID:      "LBSR_CC14",
		Description: "国别合计: 全部国家(5J) = 居民(报告国) + 非居民(5Z) + 未分配(5M)",
		Kind:        validation.KindInternal,
		GroupBy:     lbsDims("CP_COUNTRY"),
		LHS: validation.AggregationSpec{
			Filter:      dataset.Where(dataset.Eq("CP_COUNTRY", "5J")),
			ValueColumn: ValueColumn,
		},
		RHS: validation.AggregationSpec{
			Filter:      dataset.Where(dataset.In("CP_COUNTRY", ctx.ReportingCountry, "5Z", "5M")),
			ValueColumn: ValueColumn,
		},
		Relation:  validation.RelationEq,
		Tolerance: 10,
	})

	rules = append(rules, validation.RuleSpec{
		RuleID:      "LBSR_CC15",
		Description: "非居民(5Z) = 各非居民地区之和(排除报告国、5M、5J、5Z)",
		Kind:        validation.KindInternal,
		GroupBy:     lbsDims("CP_COUNTRY"),
		LHS: validation.AggregationSpec{
			Filter:      dataset.Where(dataset.Eq("CP_COUNTRY", "5Z")),
			ValueColumn: ValueColumn,
		},
		RHS: validation.AggregationSpec{
			Filter:      dataset.Where(dataset.NotIn("CP_COUNTRY", ctx.ReportingCountry, "5M", "5J", "5Z")),
			ValueColumn: ValueColumn,
		},
		Relation:  validation.RelationEq,
		Tolerance: 10,
	})

	return rules
}

// LBSNInternalRules 返回国籍口径(LBSN)内部一致性规则
// 核心共享规则 + 母行国别分解规则（LBSN按PARENT_CTY聚合，LBSR按CP_COUNTRY聚合）
func LBSNInternalRules(ctx validation.ValidationContext) []validation.RuleSpec {
	rules := lbsCommonInternalRules("LBSN", ctx)

	rules = append(rules, validation.RuleSpec{
		RuleID:      "LBSN_CC11",
		Description: "母行国别: 全部国家(5J) = BIS报告国母行(5L) + 非BIS母行(5X) + 银团(1G) + 未分配(5M)",
		Kind:        validation.KindInternal,
		GroupBy:     lbsDims("PARENT_CTY"),
		LHS: validation.AggregationSpec{
			Filter:      dataset.Where(dataset.Eq("PARENT_CTY", "5J")),
			ValueColumn: ValueColumn,
		},
		RHS: validation.AggregationSpec{
			Filter:      dataset.Where(dataset.In("PARENT_CTY", "5L", "5X", "1G", "5M")),
			ValueColumn: ValueColumn,
		},
		Relation:  validation.RelationEq,
		Tolerance: 7,
	})

	return rules
}

// LBSCrossReportRules 返回LBSR与LBSN之间的跨报表一致性规则
// 左侧在居民口径数据集、右侧在国籍口径数据集上求值
func LBSCrossReportRules(ctx validation.ValidationContext) []validation.RuleSpec {
	crossRule := func(id, description, position string, instruments []string, bankType, parent string, tolerance float64) validation.RuleSpec {
		lhsPreds := []dataset.Predicate{
			dataset.Eq("POSITION", position),
			dataset.In("INSTRUMENT", instruments...),
			dataset.Eq("PARENT_CTY", "5J"),
			dataset.Eq("REP_BANK_TYPE", bankType),
		}
		rhsPreds := []dataset.Predicate{
			dataset.Eq("POSITION", position),
			dataset.In("INSTRUMENT", instruments...),
			dataset.Eq("PARENT_CTY", parent),
			dataset.Eq("REP_BANK_TYPE", "A"),
		}
		return validation.RuleSpec{
			RuleID:      id,
			Description: description,
			Kind:        validation.KindCross,
			GroupBy:     lbsCrossJoinDims,
			LHS:         validation.AggregationSpec{Filter: dataset.Where(lhsPreds...), ValueColumn: ValueColumn},
			RHS:         validation.AggregationSpec{Filter: dataset.Where(rhsPreds...), ValueColumn: ValueColumn},
			Relation:    validation.RelationEq,
			Tolerance:   tolerance,
		}
	}

	return []validation.RuleSpec{
		crossRule("LBS_CC22", "LBP_R债权(全部银行) == LBP_N债权(全部母行)",
			"C", []string{"A"}, "A", "5J", 4),
		crossRule("LBS_CC23", "LBP_R负债(全部银行) == LBP_N负债(全部母行)",
			"L", []string{"A"}, "A", "5J", 4),
		crossRule("LBS_CC24", "LBP_R债权(本国银行) == LBP_N债权(母行在报告国)",
			"C", []string{"A"}, "D", ctx.ReportingCountry, 6),
		crossRule("LBS_CC25", "LBP_R负债(本国银行) == LBP_N负债(母行在报告国)",
			"L", []string{"A"}, "D", ctx.ReportingCountry, 6),
		crossRule("LBS_CC26", "LBP_R负债(债务证券/M, 全部银行) == LBP_N负债(债务证券/M, 全部母行)",
			"L", []string{"D", "M"}, "A", "5J", 4),
		crossRule("LBS_CC27", "LBP_R负债(债务证券/M, 本国银行) == LBP_N负债(债务证券/M, 母行在报告国)",
			"L", []string{"D", "M"}, "D", ctx.ReportingCountry, 6),
	}
}
