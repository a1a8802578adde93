package settings

import (
	"reflect"
	"testing"
)

func TestSchemaParse(t *testing.T) {
	t.Parallel()

	tokens, ok := TSNESchema().Parse("mch_ndim2_perp20")
	if !ok {
		t.Fatalf("Parse returned false")
	}
	if want := []string{"mch", "2", "20"}; !reflect.DeepEqual(tokens, want) {
		t.Fatalf("tokens=%v, want %v", tokens, want)
	}

	tokens, ok = ClusteringSchema().Parse("mch_louvain_npc50_k5")
	if !ok {
		t.Fatalf("Parse returned false")
	}
	if want := []string{"mch", "louvain", "50", "5"}; !reflect.DeepEqual(tokens, want) {
		t.Fatalf("tokens=%v, want %v", tokens, want)
	}
}

func TestSchemaParseMalformed(t *testing.T) {
	t.Parallel()

	cases := []string{
		"mch_ndim2",           // 字段数不足
		"mch_ndim2_perp20_k5", // 字段数过多
		"mch_dim2_perp20",     // 前缀不符
		"mch_ndim_perp20",     // 前缀后缺少取值
		"mch_ndim2_perp20_",   // 空字段
		"",                    // 空串
	}
	for _, name := range cases {
		if _, ok := TSNESchema().Parse(name); ok {
			t.Fatalf("Parse(%q) should fail", name)
		}
	}
}

func TestSchemaFormatRoundTrip(t *testing.T) {
	t.Parallel()

	s := ClusteringSchema()
	name := "mcg_leiden_npc30_k12"
	tokens, ok := s.Parse(name)
	if !ok {
		t.Fatalf("Parse returned false")
	}
	if got := s.Format(tokens); got != name {
		t.Fatalf("Format=%q, want %q", got, name)
	}
}

func TestNewCatalogSkipsMalformed(t *testing.T) {
	t.Parallel()

	c := NewCatalog(TSNESchema(), []string{
		"mch_ndim2_perp20",
		"garbage",
		"mcg_ndim2_perp30",
		"mch_npc50_k5",
	})
	if c.Len() != 2 {
		t.Fatalf("Len=%d, want 2", c.Len())
	}
	if want := []string{"mch_ndim2_perp20", "mcg_ndim2_perp30"}; !reflect.DeepEqual(c.Names(), want) {
		t.Fatalf("Names=%v, want %v", c.Names(), want)
	}
}

func TestNewCatalogEmpty(t *testing.T) {
	t.Parallel()

	c := NewCatalog(TSNESchema(), nil)
	if c.Len() != 0 {
		t.Fatalf("Len=%d, want 0", c.Len())
	}
	r := NewResolver(c)
	if got := r.Candidates(); len(got) != 0 {
		t.Fatalf("Candidates on empty catalog=%v, want empty", got)
	}
}
