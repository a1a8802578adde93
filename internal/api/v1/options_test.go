package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"scmdb/internal/config"
	"scmdb/internal/model"
	"scmdb/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.NewInMemory()
	if err != nil {
		t.Fatalf("NewInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	h := NewHandler(s, config.DefaultConfig())
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router, s
}

func seedEnsemble(t *testing.T, s *store.Store) {
	t.Helper()
	if err := s.UpsertEnsemble(model.Ensemble{EnsembleID: 1, EnsembleName: "Ens1", PublicAccess: true}); err != nil {
		t.Fatalf("UpsertEnsemble: %v", err)
	}
	err := s.ReplaceTSNESettings(1, []string{
		"mch_ndim2_perp20",
		"mch_ndim2_perp50",
		"mch_ndim3_perp20",
		"mcg_ndim2_perp20",
	})
	if err != nil {
		t.Fatalf("ReplaceTSNESettings: %v", err)
	}
	err = s.ReplaceClusteringSettings(1, []model.ClusteringSetting{
		{Name: "mch_louvain_npc50_k5", ClusterCount: 12},
		{Name: "mch_louvain_npc50_k10", ClusterCount: 23},
	})
	if err != nil {
		t.Fatalf("ReplaceClusteringSettings: %v", err)
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMethylationOptionsCascade(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	w := doRequest(t, router, "GET", "/api/ensembles/Ens1/options/methylation?methylation=mch&ndim=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200: %s", w.Code, w.Body.String())
	}

	var resp cascadeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Levels) != 3 {
		t.Fatalf("len(levels)=%d, want 3", len(resp.Levels))
	}
	if resp.Levels[1].Selected != "2" {
		t.Fatalf("ndim selected=%q, want 2", resp.Levels[1].Selected)
	}
	perp := resp.Levels[2]
	if len(perp.Options) != 2 || perp.Options[0].Value != "20" || perp.Options[1].Value != "50" {
		t.Fatalf("perp options=%v, want [20 50]", perp.Options)
	}
	if resp.Selected != "mch_ndim2_perp20" {
		t.Fatalf("selected=%q, want mch_ndim2_perp20", resp.Selected)
	}
}

func TestMethylationOptionsNoMatch(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	// 不存在的甲基化类型：各级候选为空，但不是错误
	w := doRequest(t, router, "GET", "/api/ensembles/Ens1/options/methylation?methylation=mcc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}

	var resp cascadeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// "mcc" 不在候选集内，回落到首个候选 mcg
	if resp.Levels[0].Selected != "mcg" {
		t.Fatalf("methylation selected=%q, want fallback mcg", resp.Levels[0].Selected)
	}
}

func TestClusteringOptionsAnnotated(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	w := doRequest(t, router, "GET", "/api/ensembles/Ens1/options/clustering?methylation=mch&algorithm=louvain&npc=50", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200: %s", w.Code, w.Body.String())
	}

	var resp cascadeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	k := resp.Levels[len(resp.Levels)-1]
	if k.Field != "k" || len(k.Options) != 2 {
		t.Fatalf("k level=%+v, want 2 options", k)
	}
	if k.Options[0].Label != "5 (12 clusters)" || k.Options[1].Label != "10 (23 clusters)" {
		t.Fatalf("labels=%v, want annotated cluster counts", k.Options)
	}
}

func TestSnATACOptionsCascade(t *testing.T) {
	router, s := newTestRouter(t)

	if err := s.UpsertEnsemble(model.Ensemble{EnsembleID: 1, EnsembleName: "Ens1", SnATACAvailable: true}); err != nil {
		t.Fatalf("UpsertEnsemble: %v", err)
	}
	err := s.ReplaceSnATACSettings(1, []string{
		"ndim2_perp20",
		"ndim2_perp50",
		"ndim3_perp20",
	})
	if err != nil {
		t.Fatalf("ReplaceSnATACSettings: %v", err)
	}

	w := doRequest(t, router, "GET", "/api/ensembles/Ens1/options/snatac?ndim=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200: %s", w.Code, w.Body.String())
	}

	var resp cascadeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Levels) != 2 {
		t.Fatalf("len(levels)=%d, want 2", len(resp.Levels))
	}
	if resp.Levels[0].Selected != "2" {
		t.Fatalf("ndim selected=%q, want 2", resp.Levels[0].Selected)
	}
	perp := resp.Levels[1]
	if len(perp.Options) != 2 || perp.Options[0].Value != "20" || perp.Options[1].Value != "50" {
		t.Fatalf("perp options=%v, want [20 50]", perp.Options)
	}
	if resp.Selected != "ndim2_perp20" {
		t.Fatalf("selected=%q, want ndim2_perp20", resp.Selected)
	}
}

func TestSnATACOptionsUnavailable(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	// Ens1 没有 snATAC 数据：各级候选为空，但不是错误
	w := doRequest(t, router, "GET", "/api/ensembles/Ens1/options/snatac", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}

	var resp cascadeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Levels) != 2 {
		t.Fatalf("len(levels)=%d, want 2", len(resp.Levels))
	}
	for _, lv := range resp.Levels {
		if lv.Selected != "" || len(lv.Options) != 0 {
			t.Fatalf("level %s=%+v, want empty", lv.Field, lv)
		}
	}
	if resp.Selected != "" {
		t.Fatalf("selected=%q, want empty", resp.Selected)
	}
}

func TestOptionsUnknownEnsemble(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, "GET", "/api/ensembles/Nope/options/methylation", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestEnsembleOptionsCached(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	w := doRequest(t, router, "GET", "/api/ensembles/Ens1/options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}

	// 改动底层目录后，缓存未清前仍返回旧 payload
	if err := s.ReplaceTSNESettings(1, []string{"mch_ndim2_perp100"}); err != nil {
		t.Fatalf("ReplaceTSNESettings: %v", err)
	}

	w = doRequest(t, router, "GET", "/api/ensembles/Ens1/options", "")
	var cached ensembleOptionsPayload
	if err := json.Unmarshal(w.Body.Bytes(), &cached); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cached.TSNESettings) != 4 {
		t.Fatalf("tsneSettings=%v, want cached 4 entries", cached.TSNESettings)
	}

	// 清缓存后看到新目录
	w = doRequest(t, router, "DELETE", "/api/ensembles/Ens1/options/cache", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete cache status=%d, want 200", w.Code)
	}
	w = doRequest(t, router, "GET", "/api/ensembles/Ens1/options", "")
	var fresh ensembleOptionsPayload
	if err := json.Unmarshal(w.Body.Bytes(), &fresh); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fresh.TSNESettings) != 1 || fresh.TSNESettings[0] != "mch_ndim2_perp100" {
		t.Fatalf("tsneSettings=%v, want fresh catalog", fresh.TSNESettings)
	}
}

func TestRecentGenesRoundTrip(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	w := doRequest(t, router, "GET", "/api/ensembles/Ens1/recent-genes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"genes":[]}` {
		t.Fatalf("empty recent genes=%s, want empty list", got)
	}

	w = doRequest(t, router, "PUT", "/api/ensembles/Ens1/recent-genes", `{"genes":["Gad2","Sst"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put status=%d, want 200", w.Code)
	}

	w = doRequest(t, router, "GET", "/api/ensembles/Ens1/recent-genes", "")
	var resp struct {
		Genes []string `json:"genes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Genes) != 2 || resp.Genes[0] != "Gad2" {
		t.Fatalf("genes=%v, want [Gad2 Sst]", resp.Genes)
	}
}
