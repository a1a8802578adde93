package settings

import "strings"

// Field 复合标识符中的一个字段
// Prefix 为该字段在标识符中携带的固定文本前缀（无前缀则为空）
type Field struct {
	Name   string
	Prefix string
}

// Schema 复合标识符的字段结构，按位置排序
type Schema struct {
	fields []Field
}

// NewSchema 创建字段结构
func NewSchema(fields ...Field) Schema {
	return Schema{fields: fields}
}

// TSNESchema t-SNE 降维设置的字段结构
// 形如 mch_ndim2_perp20：甲基化类型 / 降维维度 / perplexity
func TSNESchema() Schema {
	return NewSchema(
		Field{Name: "methylation"},
		Field{Name: "ndim", Prefix: "ndim"},
		Field{Name: "perp", Prefix: "perp"},
	)
}

// SnATACSchema snATAC t-SNE 设置的字段结构
// 开放染色质数据没有甲基化类型层级，形如 ndim2_perp20
func SnATACSchema() Schema {
	return NewSchema(
		Field{Name: "ndim", Prefix: "ndim"},
		Field{Name: "perp", Prefix: "perp"},
	)
}

// ClusteringSchema 聚类设置的字段结构
// 形如 mch_louvain_npc50_k5：甲基化类型 / 聚类算法 / 主成分数 / 聚类数 k
func ClusteringSchema() Schema {
	return NewSchema(
		Field{Name: "methylation"},
		Field{Name: "algorithm"},
		Field{Name: "npc", Prefix: "npc"},
		Field{Name: "k", Prefix: "k"},
	)
}

// Len 字段数量
func (s Schema) Len() int {
	return len(s.fields)
}

// Fields 返回字段列表副本
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldName 返回指定位置的字段名，越界返回空串
func (s Schema) FieldName(i int) string {
	if i < 0 || i >= len(s.fields) {
		return ""
	}
	return s.fields[i].Name
}

// Parse 将复合标识符按 "_" 拆分并剥离各字段前缀
// 字段数不符或前缀不匹配时返回 false
func (s Schema) Parse(name string) ([]string, bool) {
	parts := strings.Split(name, "_")
	if len(parts) != len(s.fields) {
		return nil, false
	}
	tokens := make([]string, len(parts))
	for i, p := range parts {
		f := s.fields[i]
		if f.Prefix != "" {
			if !strings.HasPrefix(p, f.Prefix) || len(p) == len(f.Prefix) {
				return nil, false
			}
			p = p[len(f.Prefix):]
		}
		if p == "" {
			return nil, false
		}
		tokens[i] = p
	}
	return tokens, true
}

// Format 由字段值拼回完整复合标识符（重新加回各字段前缀）
func (s Schema) Format(tokens []string) string {
	parts := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if i >= len(s.fields) {
			break
		}
		parts = append(parts, s.fields[i].Prefix+tok)
	}
	return strings.Join(parts, "_")
}
