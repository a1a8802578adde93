package settings

import (
	"fmt"
	"sort"
	"strconv"
)

// Resolver 级联筛选解析器
// 持有不可变的目录快照，按字段从左到右逐级收窄候选集
// 匹配失败只产生空候选列表，不返回错误
type Resolver struct {
	catalog *Catalog
	// 完整标识符 -> 聚类数注释（仅聚类目录使用）
	clusterCounts map[string]int
}

// NewResolver 创建解析器
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// NewAnnotatedResolver 创建带聚类数注释的解析器
// counts 以完整复合标识符为键
func NewAnnotatedResolver(catalog *Catalog, counts map[string]int) *Resolver {
	return &Resolver{catalog: catalog, clusterCounts: counts}
}

// Candidates 返回在已固定前缀 fixed 之下，下一个字段的合法取值集合
// 取值按剥离前缀后的字符串全等去重（"02" 与 "2" 视为不同取值）
// 排序规则：能整体解析为整数的按数值升序，数值相同或不可解析时按字符串升序
func (r *Resolver) Candidates(fixed ...string) []string {
	idx := len(fixed)
	if idx >= r.catalog.schema.Len() {
		return nil
	}

	seen := make(map[string]bool)
	values := make([]string, 0, 8)
	for _, e := range r.catalog.entries {
		if !e.match(fixed) {
			continue
		}
		v := e.Tokens[idx]
		if seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sortTokens(values)
	return values
}

// Option 一个候选取值及其展示标签
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Level 级联中一个字段的解析结果
type Level struct {
	Field    string   `json:"field"`
	Selected string   `json:"selected"`
	Options  []Option `json:"options"`
}

// Cascade 从已固定前缀出发，逐级解析剩余全部字段
// 每一级优先使用调用方在 chosen 中给出的值（须属于该级候选集），
// 否则默认选中首个候选；候选集为空时该级及更深层级均为空
// 最深字段若存在聚类数注释，标签形如 "5 (3 clusters)"
func (r *Resolver) Cascade(fixed []string, chosen map[string]string) []Level {
	schema := r.catalog.schema
	levels := make([]Level, 0, schema.Len()-len(fixed))

	prefix := make([]string, len(fixed))
	copy(prefix, fixed)
	exhausted := false

	for idx := len(fixed); idx < schema.Len(); idx++ {
		field := schema.FieldName(idx)
		lv := Level{Field: field, Options: []Option{}}

		if !exhausted {
			values := r.Candidates(prefix...)
			for _, v := range values {
				lv.Options = append(lv.Options, Option{Value: v, Label: r.label(prefix, idx, v)})
			}
			lv.Selected = pickSelected(values, chosen[field])
		}

		levels = append(levels, lv)

		if lv.Selected == "" {
			// 本级无候选，下游各级不再匹配
			exhausted = true
			continue
		}
		prefix = append(prefix, lv.Selected)
	}
	return levels
}

// Resolve 返回已固定前缀加级联默认值之后的完整标识符
// 任一层级为空时返回 false
func (r *Resolver) Resolve(fixed []string, chosen map[string]string) (string, bool) {
	schema := r.catalog.schema
	tokens := make([]string, len(fixed))
	copy(tokens, fixed)
	for _, lv := range r.Cascade(fixed, chosen) {
		if lv.Selected == "" {
			return "", false
		}
		tokens = append(tokens, lv.Selected)
	}
	if len(tokens) != schema.Len() {
		return "", false
	}
	return schema.Format(tokens), true
}

// label 生成候选取值的展示标签
// 仅最深字段且存在聚类数注释时附注，其余情况标签即取值本身
func (r *Resolver) label(prefix []string, idx int, value string) string {
	if r.clusterCounts == nil || idx != r.catalog.schema.Len()-1 {
		return value
	}
	full := make([]string, 0, idx+1)
	full = append(full, prefix...)
	full = append(full, value)
	count, ok := r.clusterCounts[r.catalog.schema.Format(full)]
	if !ok {
		return value
	}
	return fmt.Sprintf("%s (%d clusters)", value, count)
}

func pickSelected(values []string, want string) string {
	if len(values) == 0 {
		return ""
	}
	for _, v := range values {
		if v == want {
			return v
		}
	}
	return values[0]
}

// sortTokens 数值感知升序：整数按数值比较，其余按字符串比较
func sortTokens(values []string) {
	sort.Slice(values, func(i, j int) bool {
		a, errA := strconv.Atoi(values[i])
		b, errB := strconv.Atoi(values[j])
		if errA == nil && errB == nil {
			if a != b {
				return a < b
			}
			return values[i] < values[j]
		}
		if errA == nil || errB == nil {
			// 数值排在非数值之前
			return errA == nil
		}
		return values[i] < values[j]
	})
}
