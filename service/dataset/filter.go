/*
 * @module service/dataset/filter
 * @description 声明式行过滤谓词，支持等值、集合、取反及析取组合
 * @architecture 分层架构 - 数据层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 谓词构建 -> 合取子句 -> 析取组合 -> 行匹配
 * @rules 值比较基于规范字符串形式；null只匹配ne/not_in；空过滤器匹配所有行
 * @dependencies 无
 * @refs service/validation, service/rules
 */

package dataset

import "fmt"

// Op 谓词操作符
type Op string

const (
	// OpEq 列值等于给定值
	OpEq Op = "eq"
	// OpIn 列值属于给定集合
	OpIn Op = "in"
	// OpNe 列值不等于给定值
	OpNe Op = "ne"
	// OpNotIn 列值不属于给定集合
	OpNotIn Op = "not_in"
)

// Predicate 单列谓词
type Predicate struct {
	Column string   `json:"column"`
	Op     Op       `json:"op"`
	Values []string `json:"values"`
}

// Clause 合取子句：所有谓词同时成立
type Clause []Predicate

// Filter 行过滤器：任一子句成立即匹配（析取范式）
// 零值过滤器匹配所有行
type Filter struct {
	Any []Clause `json:"any,omitempty"`
}

// Eq 构建等值谓词
func Eq(column, value string) Predicate {
	return Predicate{Column: CanonicalColumn(column), Op: OpEq, Values: []string{value}}
}

// In 构建集合谓词
func In(column string, values ...string) Predicate {
	return Predicate{Column: CanonicalColumn(column), Op: OpIn, Values: values}
}

// Ne 构建不等谓词
func Ne(column, value string) Predicate {
	return Predicate{Column: CanonicalColumn(column), Op: OpNe, Values: []string{value}}
}

// NotIn 构建排除集合谓词
func NotIn(column string, values ...string) Predicate {
	return Predicate{Column: CanonicalColumn(column), Op: OpNotIn, Values: values}
}

// Where 用一组合取谓词构建过滤器
func Where(preds ...Predicate) Filter {
	if len(preds) == 0 {
		return Filter{}
	}
	return Filter{Any: []Clause{Clause(preds)}}
}

// AnyOf 用多个合取子句的析取构建过滤器
func AnyOf(clauses ...Clause) Filter {
	return Filter{Any: clauses}
}

// Empty 判断是否为空过滤器（匹配所有行）
func (f Filter) Empty() bool {
	return len(f.Any) == 0
}

// Columns 返回过滤器引用的所有列名（去重）
func (f Filter) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, clause := range f.Any {
		for _, pred := range clause {
			canonical := CanonicalColumn(pred.Column)
			if !seen[canonical] {
				seen[canonical] = true
				cols = append(cols, canonical)
			}
		}
	}
	return cols
}

// Validate 校验过滤器结构合法性（列名非空、操作符可识别）
func (f Filter) Validate() error {
	for _, clause := range f.Any {
		for _, pred := range clause {
			if CanonicalColumn(pred.Column) == "" {
				return fmt.Errorf("过滤谓词缺少列名")
			}
			switch pred.Op {
			case OpEq, OpIn, OpNe, OpNotIn:
			default:
				return fmt.Errorf("不支持的过滤操作符: %s", pred.Op)
			}
		}
	}
	return nil
}

// Matches 判断一行是否匹配过滤器
func (f Filter) Matches(row Row) bool {
	if f.Empty() {
		return true
	}
	for _, clause := range f.Any {
		if clauseMatches(clause, row) {
			return true
		}
	}
	return false
}

func clauseMatches(clause Clause, row Row) bool {
	for _, pred := range clause {
		if !pred.matches(row) {
			return false
		}
	}
	return true
}

func (p Predicate) matches(row Row) bool {
	val, ok := row[CanonicalColumn(p.Column)]
	isNull := !ok || val == nil
	switch p.Op {
	case OpEq, OpIn:
		// null永远不命中等值/集合谓词
		if isNull {
			return false
		}
		return containsValue(p.Values, ValueString(val))
	case OpNe, OpNotIn:
		// null视为与任何给定值都不相等
		if isNull {
			return true
		}
		return !containsValue(p.Values, ValueString(val))
	default:
		return false
	}
}

func containsValue(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
