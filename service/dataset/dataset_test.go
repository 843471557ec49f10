/*
 * @module service/dataset/dataset_test
 * @description 数据集抽象单元测试：列规范化、过滤语义、分组求和与按键对齐
 * @architecture 单元测试
 */

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanonicalizesColumns(t *testing.T) {
	ds := New([]Row{
		{"cat": "A", "Value": 30.0},
		{"CAT": "B", "VALUE": 70.0},
	})

	assert.True(t, ds.HasColumn("CAT"))
	assert.True(t, ds.HasColumn("cat"))
	assert.True(t, ds.HasColumn("VALUE"))
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, "A", ds.Value(0, "CAT"))
	assert.Equal(t, 70.0, ds.Value(1, "value"))
}

func TestRequireColumns(t *testing.T) {
	ds := New([]Row{{"CAT": "A", "VALUE": 1.0}})

	assert.NoError(t, ds.RequireColumns("CAT", "VALUE"))

	err := ds.RequireColumns("MISSING")
	require.Error(t, err)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "MISSING", schemaErr.Column)
}

func TestFilterMatches(t *testing.T) {
	t.Run("等值与集合谓词", func(t *testing.T) {
		row := Row{"CAT": "A", "VALUE": 1.0}
		assert.True(t, Where(Eq("CAT", "A")).Matches(row))
		assert.False(t, Where(Eq("CAT", "B")).Matches(row))
		assert.True(t, Where(In("CAT", "A", "B")).Matches(row))
		assert.False(t, Where(In("CAT", "B", "C")).Matches(row))
	})

	t.Run("null只匹配取反谓词", func(t *testing.T) {
		row := Row{"CAT": nil}
		assert.False(t, Where(Eq("CAT", "A")).Matches(row))
		assert.False(t, Where(In("CAT", "A")).Matches(row))
		assert.True(t, Where(Ne("CAT", "A")).Matches(row))
		assert.True(t, Where(NotIn("CAT", "A", "B")).Matches(row))
	})

	t.Run("析取子句", func(t *testing.T) {
		filter := AnyOf(
			Clause{Eq("DENOM", "CAD"), Eq("CURR_TYPE", "D")},
			Clause{Eq("DENOM", "TO1"), Eq("CURR_TYPE", "F")},
		)
		assert.True(t, filter.Matches(Row{"DENOM": "CAD", "CURR_TYPE": "D"}))
		assert.True(t, filter.Matches(Row{"DENOM": "TO1", "CURR_TYPE": "F"}))
		assert.False(t, filter.Matches(Row{"DENOM": "CAD", "CURR_TYPE": "F"}))
	})

	t.Run("空过滤器匹配所有行", func(t *testing.T) {
		assert.True(t, Filter{}.Matches(Row{"CAT": "A"}))
	})

	t.Run("数值列按规范字符串比较", func(t *testing.T) {
		assert.True(t, Where(Eq("CODE", "5")).Matches(Row{"CODE": 5.0}))
	})
}

func TestFilterValidate(t *testing.T) {
	assert.NoError(t, Where(Eq("CAT", "A")).Validate())
	assert.Error(t, Filter{Any: []Clause{{Predicate{Column: "CAT", Op: "like", Values: []string{"A"}}}}}.Validate())
	assert.Error(t, Filter{Any: []Clause{{Predicate{Column: " ", Op: OpEq, Values: []string{"A"}}}}}.Validate())
}

func TestGroupSum(t *testing.T) {
	ds := New([]Row{
		{"CAT": "A", "REGION": "X", "VALUE": 30.0},
		{"CAT": "A", "REGION": "X", "VALUE": 20.0},
		{"CAT": "B", "REGION": "X", "VALUE": 70.0},
		{"CAT": "A", "REGION": nil, "VALUE": 999.0}, // 分组列null，整行排除
		{"CAT": "B", "REGION": "Y", "VALUE": nil},   // 值null按0求和
	})

	agg, err := ds.GroupSum(Filter{}, []string{"CAT", "REGION"}, "VALUE")
	require.NoError(t, err)

	keys := agg.Keys()
	require.Len(t, keys, 3)

	total, ok := agg.Value(keys[0])
	require.True(t, ok)
	assert.Equal(t, 50.0, total)
	assert.Equal(t, map[string]string{"CAT": "A", "REGION": "X"}, agg.Labels(keys[0]))

	byLabel := make(map[string]float64)
	for _, key := range keys {
		labels := agg.Labels(key)
		byLabel[labels["CAT"]+"/"+labels["REGION"]], _ = agg.Value(key)
	}
	assert.Equal(t, 50.0, byLabel["A/X"])
	assert.Equal(t, 70.0, byLabel["B/X"])
	assert.Equal(t, 0.0, byLabel["B/Y"])
}

func TestGroupSumEmptyGroupBy(t *testing.T) {
	ds := New([]Row{
		{"CAT": "A", "VALUE": 30.0},
		{"CAT": "B", "VALUE": 70.0},
	})

	agg, err := ds.GroupSum(Where(In("CAT", "A", "B")), nil, "VALUE")
	require.NoError(t, err)
	require.Len(t, agg.Keys(), 1)

	total, ok := agg.Value(agg.Keys()[0])
	require.True(t, ok)
	assert.Equal(t, 100.0, total)
}

func TestGroupSumMissingColumns(t *testing.T) {
	ds := New([]Row{{"CAT": "A", "VALUE": 1.0}})

	_, err := ds.GroupSum(Filter{}, nil, "AMOUNT")
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "AMOUNT", schemaErr.Column)

	_, err = ds.GroupSum(Filter{}, []string{"REGION"}, "VALUE")
	require.ErrorAs(t, err, &schemaErr)

	_, err = ds.GroupSum(Where(Eq("MISSING", "X")), nil, "VALUE")
	require.ErrorAs(t, err, &schemaErr)
}

// TestGroupSumFilterIsolation 过滤器隔离性：过滤器外的行变化不影响聚合值
func TestGroupSumFilterIsolation(t *testing.T) {
	base := []Row{
		{"CAT": "A", "VALUE": 30.0},
		{"CAT": "B", "VALUE": 70.0},
	}
	filter := Where(Eq("CAT", "A"))

	before, err := New(base).GroupSum(filter, nil, "VALUE")
	require.NoError(t, err)

	perturbed := append(append([]Row{}, base...), Row{"CAT": "B", "VALUE": 12345.0})
	after, err := New(perturbed).GroupSum(filter, nil, "VALUE")
	require.NoError(t, err)

	beforeTotal, _ := before.Value(before.Keys()[0])
	afterTotal, _ := after.Value(after.Keys()[0])
	assert.Equal(t, beforeTotal, afterTotal)
}

func TestAggregateAlignment(t *testing.T) {
	left := New([]Row{
		{"CAT": "A", "VALUE": 1.0},
		{"CAT": "B", "VALUE": 2.0},
	})
	right := New([]Row{
		{"CAT": "B", "VALUE": 3.0},
		{"CAT": "C", "VALUE": 4.0},
	})

	lhsAgg, err := left.GroupSum(Filter{}, []string{"CAT"}, "VALUE")
	require.NoError(t, err)
	rhsAgg, err := right.GroupSum(Filter{}, []string{"CAT"}, "VALUE")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, UnionKeys(lhsAgg, rhsAgg))
	assert.Equal(t, []string{"B"}, IntersectKeys(lhsAgg, rhsAgg))
}

func TestWithColumn(t *testing.T) {
	ds := New([]Row{
		{"CAT": "A"},
		{"CAT": "B"},
	})

	annotated, err := ds.WithColumn("status", []interface{}{"PASS", "FAIL"})
	require.NoError(t, err)

	// 原数据集不变
	assert.False(t, ds.HasColumn("STATUS"))
	assert.True(t, annotated.HasColumn("STATUS"))
	assert.Equal(t, "PASS", annotated.Value(0, "STATUS"))
	assert.Equal(t, "FAIL", annotated.Value(1, "STATUS"))

	// 同名列覆盖写入
	replaced, err := annotated.WithColumn("STATUS", []interface{}{"FAIL", "FAIL"})
	require.NoError(t, err)
	assert.Equal(t, "FAIL", replaced.Value(0, "STATUS"))
	assert.Len(t, replaced.Columns(), len(annotated.Columns()))

	_, err = ds.WithColumn("STATUS", []interface{}{"PASS"})
	assert.Error(t, err)
}
