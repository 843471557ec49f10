/*
 * @module service/dataset/aggregate
 * @description 分组求和聚合与聚合结果按键对齐，是规则引擎与支配度计算的共用内核
 * @architecture 分层架构 - 数据层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 过滤 -> 分组键提取 -> 求和 -> 键排序
 * @rules 分组列为null的行不参与分组；值列为null按0求和；缺列返回SchemaError
 * @dependencies 无
 * @refs service/validation, service/confidentiality
 */

package dataset

import (
	"sort"
	"strings"
)

// keySeparator 组合键分隔符，取不会出现在报表维度值中的单元分隔控制符
const keySeparator = "\x1f"

// Aggregate 分组求和结果
// 组合键有序，便于确定性输出与按键对齐
type Aggregate struct {
	groupBy []string
	keys    []string
	labels  map[string]map[string]string
	totals  map[string]float64
}

// GroupSum 对匹配过滤器的行按分组列求和值列
// 分组列集合可以为空：此时所有匹配行归入单一全局组（空键）
func (ds *Dataset) GroupSum(filter Filter, groupBy []string, valueColumn string) (*Aggregate, error) {
	valueColumn = CanonicalColumn(valueColumn)
	required := append([]string{valueColumn}, groupBy...)
	required = append(required, filter.Columns()...)
	if err := ds.RequireColumns(required...); err != nil {
		return nil, err
	}

	canonical := make([]string, len(groupBy))
	for i, col := range groupBy {
		canonical[i] = CanonicalColumn(col)
	}

	agg := &Aggregate{
		groupBy: canonical,
		labels:  make(map[string]map[string]string),
		totals:  make(map[string]float64),
	}

	for _, row := range ds.rows {
		if !filter.Matches(row) {
			continue
		}
		key, labels, ok := groupKey(row, canonical)
		if !ok {
			// 分组列存在null的行不可归组，整行排除
			continue
		}
		if _, exists := agg.totals[key]; !exists {
			agg.labels[key] = labels
			agg.keys = append(agg.keys, key)
		}
		agg.totals[key] += ValueFloat(row[valueColumn])
	}

	sort.Strings(agg.keys)
	return agg, nil
}

// groupKey 提取一行的组合键与标签，任一分组列为null时返回ok=false
func groupKey(row Row, groupBy []string) (string, map[string]string, bool) {
	labels := make(map[string]string, len(groupBy))
	parts := make([]string, len(groupBy))
	for i, col := range groupBy {
		val, ok := row[col]
		if !ok || val == nil {
			return "", nil, false
		}
		s := ValueString(val)
		labels[col] = s
		parts[i] = s
	}
	return strings.Join(parts, keySeparator), labels, true
}

// GroupBy 返回聚合使用的分组列
func (a *Aggregate) GroupBy() []string {
	return a.groupBy
}

// Keys 返回有序组合键列表
func (a *Aggregate) Keys() []string {
	return a.keys
}

// Labels 返回组合键对应的分组列取值
func (a *Aggregate) Labels(key string) map[string]string {
	return a.labels[key]
}

// Value 返回组合键的聚合值，键不存在时第二返回值为false
func (a *Aggregate) Value(key string) (float64, bool) {
	v, ok := a.totals[key]
	return v, ok
}

// UnionKeys 返回两侧聚合键的并集，升序
func UnionKeys(left, right *Aggregate) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, k := range left.keys {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, k := range right.keys {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// IntersectKeys 返回两侧聚合键的交集，升序
func IntersectKeys(left, right *Aggregate) []string {
	var keys []string
	for _, k := range left.keys {
		if _, ok := right.totals[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
