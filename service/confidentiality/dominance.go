/*
 * @module service/confidentiality/dominance
 * @description 统计保密性支配度规则：计算各聚合组最大单一贡献方份额并给出发布标记
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/validation_engine_req.md
 * @stateFlow 分组 -> 贡献方求和 -> 份额计算 -> 严格大于阈值判定N/F
 * @rules 份额分母只计非null、非负贡献值；组总额为0时份额为0、标记F；
 *        并列最大份额的贡献方全部报告为共同支配方
 * @dependencies service/dataset
 * @refs service/enrichment, service/validation_service.go
 */

package confidentiality

import (
	"sort"

	"ibs-validation-service/service/dataset"
)

// DefaultThreshold 默认支配度阈值
// 单一贡献方份额严格大于该值时聚合组不可自由发布
const DefaultThreshold = 0.60

const (
	// TagNotFree 聚合组受支配，不可自由发布
	TagNotFree = "N"
	// TagFree 聚合组可自由发布
	TagFree = "F"
	// TagUnset 行不属于任何请求的支配度分组
	TagUnset = "UNSET"
)

// DominanceParams 支配度计算参数
// Threshold为nil时取DefaultThreshold，显式零阈值表示任何正份额都构成支配
type DominanceParams struct {
	GroupBy           []string `json:"group_by"`
	ContributorColumn string   `json:"contributor_column"`
	ValueColumn       string   `json:"value_column"`
	Threshold         *float64 `json:"threshold,omitempty"`
}

// DominanceResult 单个聚合组的支配度结果
// 标记作用于聚合组的发布值本身，不作用于单个贡献方行
type DominanceResult struct {
	GroupKey             map[string]string `json:"group_key"`
	DominantContributors []string          `json:"dominant_contributors"`
	DominantShare        float64           `json:"dominant_share"`
	Tag                  string            `json:"tag"`
}

// Assess 对贡献方级数据计算各分组的支配度结果，按组合键升序返回
// 分组列或贡献方为null的行、值为null或负数的行不参与分子与分母
func Assess(ds *dataset.Dataset, params DominanceParams) ([]DominanceResult, error) {
	if ds == nil {
		return nil, &dataset.SchemaError{Column: dataset.CanonicalColumn(params.ValueColumn)}
	}
	threshold := DefaultThreshold
	if params.Threshold != nil {
		threshold = *params.Threshold
	}

	contributorCol := dataset.CanonicalColumn(params.ContributorColumn)
	valueCol := dataset.CanonicalColumn(params.ValueColumn)
	required := append([]string{contributorCol, valueCol}, params.GroupBy...)
	if err := ds.RequireColumns(required...); err != nil {
		return nil, err
	}

	groups, keys := collectGroups(ds, params.GroupBy, contributorCol, valueCol)

	results := make([]DominanceResult, 0, len(keys))
	for _, key := range keys {
		results = append(results, assessGroup(groups[key], threshold))
	}
	return results, nil
}

// RowKey 计算一行的支配度分组组合键，任一分组列为null时ok=false
func RowKey(row dataset.Row, groupBy []string) (string, bool) {
	canonical := make([]string, len(groupBy))
	for i, col := range groupBy {
		canonical[i] = dataset.CanonicalColumn(col)
	}
	key, _, ok := rowGroupKey(row, canonical)
	return key, ok
}

// Key 按分组列顺序还原结果的组合键，与RowKey同构
func (r DominanceResult) Key(groupBy []string) string {
	key := ""
	for i, col := range groupBy {
		if i > 0 {
			key += "\x1f"
		}
		key += r.GroupKey[dataset.CanonicalColumn(col)]
	}
	return key
}

// dominanceGroup 单个分组的贡献方累计值
type dominanceGroup struct {
	labels       map[string]string
	contributors map[string]float64
	total        float64
}

func collectGroups(ds *dataset.Dataset, groupBy []string, contributorCol, valueCol string) (map[string]*dominanceGroup, []string) {
	canonical := make([]string, len(groupBy))
	for i, col := range groupBy {
		canonical[i] = dataset.CanonicalColumn(col)
	}

	groups := make(map[string]*dominanceGroup)
	var keys []string
	for _, row := range ds.Rows() {
		key, labels, ok := rowGroupKey(row, canonical)
		if !ok {
			continue
		}
		contributor := row[contributorCol]
		if contributor == nil {
			continue
		}
		rawValue := row[valueCol]
		if rawValue == nil {
			continue
		}
		value := dataset.ValueFloat(rawValue)
		if value < 0 {
			// 负贡献不计入分母，也不可能成为支配方
			continue
		}
		group, exists := groups[key]
		if !exists {
			group = &dominanceGroup{labels: labels, contributors: make(map[string]float64)}
			groups[key] = group
			keys = append(keys, key)
		}
		group.contributors[dataset.ValueString(contributor)] += value
		group.total += value
	}
	sort.Strings(keys)
	return groups, keys
}

func rowGroupKey(row dataset.Row, groupBy []string) (string, map[string]string, bool) {
	labels := make(map[string]string, len(groupBy))
	key := ""
	for i, col := range groupBy {
		val, ok := row[col]
		if !ok || val == nil {
			return "", nil, false
		}
		s := dataset.ValueString(val)
		labels[col] = s
		if i > 0 {
			key += "\x1f"
		}
		key += s
	}
	return key, labels, true
}

// assessGroup 计算单组的最大份额、共同支配方与标记
func assessGroup(group *dominanceGroup, threshold float64) DominanceResult {
	result := DominanceResult{
		GroupKey:             group.labels,
		DominantContributors: []string{},
		Tag:                  TagFree,
	}
	// 空组或零总额的聚合不可能被支配
	if group.total <= 0 {
		return result
	}

	maxShare := 0.0
	for _, value := range group.contributors {
		share := value / group.total
		if share > maxShare {
			maxShare = share
		}
	}
	var dominant []string
	for contributor, value := range group.contributors {
		if value/group.total == maxShare {
			dominant = append(dominant, contributor)
		}
	}
	sort.Strings(dominant)

	result.DominantContributors = dominant
	result.DominantShare = maxShare
	// 阈值边界取严格大于：份额恰好等于阈值仍可发布
	if maxShare > threshold {
		result.Tag = TagNotFree
	}
	return result
}
