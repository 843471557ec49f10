package dataset

import "fmt"

// SchemaError 表示规则引用的必需列在数据集中不存在
// 缺列属于数据完整性缺陷，不允许按0静默处理
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("数据集缺少必需列: %s", e.Column)
}
