/*
 * @module service/dataset
 * @description 内存表格数据集抽象，提供列校验、过滤、分组求和与按键对齐能力
 * @architecture 分层架构 - 数据层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 行集合 -> 列名规范化 -> 过滤/分组/聚合
 * @rules 列名统一规范化为大写；数据集构建后只读，派生操作返回新实例
 * @dependencies github.com/spf13/cast
 * @refs service/validation, service/confidentiality
 */

package dataset

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Row 单行数据，列名到标量值的映射
type Row map[string]interface{}

// Dataset 内存表格数据集
// 列集合开放（不固定），列名在构建时统一规范化为大写
type Dataset struct {
	columns []string
	rows    []Row
}

// New 从行集合构建数据集，列名规范化为大写
// 列顺序按首次出现顺序保留
func New(rows []Row) *Dataset {
	ds := &Dataset{}
	seen := make(map[string]bool)
	for _, raw := range rows {
		row := make(Row, len(raw))
		for col, val := range raw {
			canonical := CanonicalColumn(col)
			row[canonical] = val
			if !seen[canonical] {
				seen[canonical] = true
				ds.columns = append(ds.columns, canonical)
			}
		}
		ds.rows = append(ds.rows, row)
	}
	return ds
}

// CanonicalColumn 列名规范化：去除首尾空白并转大写
func CanonicalColumn(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Columns 返回数据集的列名列表
func (ds *Dataset) Columns() []string {
	cols := make([]string, len(ds.columns))
	copy(cols, ds.columns)
	return cols
}

// Len 返回行数
func (ds *Dataset) Len() int {
	return len(ds.rows)
}

// Rows 返回底层行集合（调用方不得修改）
func (ds *Dataset) Rows() []Row {
	return ds.rows
}

// HasColumn 检查列是否存在
func (ds *Dataset) HasColumn(name string) bool {
	canonical := CanonicalColumn(name)
	for _, col := range ds.columns {
		if col == canonical {
			return true
		}
	}
	return false
}

// RequireColumns 校验所有列存在，缺失时返回SchemaError
func (ds *Dataset) RequireColumns(names ...string) error {
	for _, name := range names {
		if !ds.HasColumn(name) {
			return &SchemaError{Column: CanonicalColumn(name)}
		}
	}
	return nil
}

// Value 读取某行某列的值，列不存在视为null
func (ds *Dataset) Value(rowIndex int, column string) interface{} {
	if rowIndex < 0 || rowIndex >= len(ds.rows) {
		return nil
	}
	return ds.rows[rowIndex][CanonicalColumn(column)]
}

// WithColumn 返回追加（或替换）一列后的新数据集，原数据集不变
// values长度必须与行数一致
func (ds *Dataset) WithColumn(name string, values []interface{}) (*Dataset, error) {
	if len(values) != len(ds.rows) {
		return nil, fmt.Errorf("列 %s 的值数量(%d)与行数(%d)不一致", name, len(values), len(ds.rows))
	}
	canonical := CanonicalColumn(name)
	out := &Dataset{columns: ds.Columns()}
	if !ds.HasColumn(canonical) {
		out.columns = append(out.columns, canonical)
	}
	out.rows = make([]Row, len(ds.rows))
	for i, row := range ds.rows {
		newRow := make(Row, len(row)+1)
		for col, val := range row {
			newRow[col] = val
		}
		newRow[canonical] = values[i]
		out.rows[i] = newRow
	}
	return out, nil
}

// ValueString 将单元格值转换为规范字符串形式，null返回空串
func ValueString(val interface{}) string {
	if val == nil {
		return ""
	}
	return cast.ToString(val)
}

// ValueFloat 将单元格值转换为float64，null视为0
func ValueFloat(val interface{}) float64 {
	if val == nil {
		return 0
	}
	return cast.ToFloat64(val)
}
