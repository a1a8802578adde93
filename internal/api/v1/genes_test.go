package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"scmdb/internal/model"
)

func TestSearchGenesByName(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	genes := []model.Gene{
		{GeneID: "ENSMUSG00000026787.8", GeneName: "Gad2"},
		{GeneID: "ENSMUSG00000070880.5", GeneName: "Gad1"},
		{GeneID: "ENSMUSG00000004366.15", GeneName: "Sst"},
	}
	if err := s.BatchInsertGenes(1, genes); err != nil {
		t.Fatalf("BatchInsertGenes: %v", err)
	}

	// 空查询直接返回空列表
	w := doRequest(t, router, "GET", "/api/genes/names/Ens1?q=", "")
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("empty query: status=%d body=%s, want empty list", w.Code, w.Body.String())
	}

	w = doRequest(t, router, "GET", "/api/genes/names/Ens1?q=gad", "")
	var got []model.Gene
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].GeneName != "Gad1" || got[1].GeneName != "Gad2" {
		t.Fatalf("got=%v, want [Gad1 Gad2]", got)
	}
}

func TestSearchGeneByIDStripsVersion(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	if err := s.BatchInsertGenes(1, []model.Gene{{GeneID: "ENSMUSG00000026787.8", GeneName: "Gad2"}}); err != nil {
		t.Fatalf("BatchInsertGenes: %v", err)
	}

	w := doRequest(t, router, "GET", "/api/genes/id/Ens1?q=ENSMUSG00000026787.3", "")
	var got model.Gene
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.GeneName != "Gad2" {
		t.Fatalf("got=%v, want Gad2 regardless of version suffix", got)
	}
}

func TestCorrelatedGenes(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	genes := []model.Gene{
		{GeneID: "ENSMUSG00000070880", GeneName: "Gad1"},
		{GeneID: "ENSMUSG00000004366", GeneName: "Sst"},
	}
	if err := s.BatchInsertGenes(1, genes); err != nil {
		t.Fatalf("BatchInsertGenes: %v", err)
	}
	pairs := []model.CorrPair{
		{Gene1: "ENSMUSG00000026787", Gene2: "ENSMUSG00000004366", Correlation: 0.61},
		{Gene1: "ENSMUSG00000026787", Gene2: "ENSMUSG00000070880", Correlation: 0.93},
	}
	if err := s.BatchInsertCorrGenes(1, pairs); err != nil {
		t.Fatalf("BatchInsertCorrGenes: %v", err)
	}

	// 带版本号的路径参数也能命中
	w := doRequest(t, router, "GET", "/api/genes/corr/Ens1/ENSMUSG00000026787.8", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200: %s", w.Code, w.Body.String())
	}
	var got []model.CorrGene
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2", len(got))
	}
	if got[0].Rank != 1 || got[0].GeneName != "Gad1" {
		t.Fatalf("got[0]=%v, want rank 1 Gad1", got[0])
	}

	// 结果已缓存：清掉底层数据后仍返回旧结果
	if err := s.BatchInsertCorrGenes(1, []model.CorrPair{
		{Gene1: "ENSMUSG00000026787", Gene2: "ENSMUSG00000070880", Correlation: 0.10},
	}); err != nil {
		t.Fatalf("BatchInsertCorrGenes(update): %v", err)
	}
	w = doRequest(t, router, "GET", "/api/genes/corr/Ens1/ENSMUSG00000026787", "")
	var cached []model.CorrGene
	if err := json.Unmarshal(w.Body.Bytes(), &cached); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cached[0].Correlation != 0.93 {
		t.Fatalf("cached[0]=%v, want memoized 0.93", cached[0])
	}
}

func TestImportEndpointClearsOptionsCache(t *testing.T) {
	router, s := newTestRouter(t)
	seedEnsemble(t, s)

	// 先灌热缓存
	w := doRequest(t, router, "GET", "/api/ensembles/Ens1/options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("warmup status=%d", w.Code)
	}

	body := `{
		"ensembles": [{
			"ensembleId": 1,
			"ensembleName": "Ens1",
			"publicAccess": true,
			"tsneSettings": ["mch_ndim2_perp77"],
			"clusteringSettings": []
		}]
	}`
	w = doRequest(t, router, "POST", "/api/import", body)
	if w.Code != http.StatusOK {
		t.Fatalf("import status=%d body=%s", w.Code, w.Body.String())
	}

	// 导入后缓存已清，立即看到新目录
	w = doRequest(t, router, "GET", "/api/ensembles/Ens1/options", "")
	var payload ensembleOptionsPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.TSNESettings) != 1 || payload.TSNESettings[0] != "mch_ndim2_perp77" {
		t.Fatalf("tsneSettings=%v, want new catalog after import", payload.TSNESettings)
	}
}
