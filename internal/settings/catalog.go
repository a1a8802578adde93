package settings

import "log"

// Entry 目录中的一条设置：完整标识符与剥离前缀后的各字段值
type Entry struct {
	Name   string
	Tokens []string
}

// Catalog 预计算设置名目录，加载后不可变
// 解析在加载时一次完成，查询阶段不再做字符串拆分
type Catalog struct {
	schema  Schema
	entries []Entry
}

// NewCatalog 解析设置名列表构建目录
// 无法按字段结构解析的条目跳过并记录警告，不中断加载
func NewCatalog(schema Schema, names []string) *Catalog {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		tokens, ok := schema.Parse(name)
		if !ok {
			log.Printf("settings: 跳过无法解析的设置名: %q", name)
			continue
		}
		entries = append(entries, Entry{Name: name, Tokens: tokens})
	}
	return &Catalog{schema: schema, entries: entries}
}

// Schema 目录的字段结构
func (c *Catalog) Schema() Schema {
	return c.schema
}

// Len 有效条目数量
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Names 返回全部有效条目的完整标识符
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// match 条目的前 len(fixed) 个字段值与 fixed 逐位全等
func (e Entry) match(fixed []string) bool {
	if len(fixed) > len(e.Tokens) {
		return false
	}
	for i, v := range fixed {
		if e.Tokens[i] != v {
			return false
		}
	}
	return true
}
