package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"scmdb/internal/model"
	"scmdb/internal/settings"
	"scmdb/internal/store"
)

// Result 一次导入的统计
type Result struct {
	Ensembles   int `json:"ensembles"`
	Genes       int `json:"genes"`
	CorrPairs   int `json:"corrPairs"`
	GeneModules int `json:"geneModules"`
	Orthologs   int `json:"orthologs"`
}

// Coordinator 种子数据导入器
// 负责校验并落库样本集、基因注释与设置目录
type Coordinator struct {
	store *store.Store
}

// NewCoordinator 创建导入器
func NewCoordinator(s *store.Store) *Coordinator {
	return &Coordinator{store: s}
}

// ImportJSON 从 JSON 流导入种子数据
func (c *Coordinator) ImportJSON(r io.Reader) (*Result, error) {
	var seed model.Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	return c.Import(&seed)
}

// Import 导入种子数据
// 设置目录在落库前按字段结构预检，无法解析的设置名跳过并告警，
// 保证后续下拉框解析阶段看到的目录全部有效
func (c *Coordinator) Import(seed *model.Seed) (*Result, error) {
	result := &Result{}

	for _, es := range seed.Ensembles {
		if es.EnsembleName == "" {
			return nil, fmt.Errorf("ensemble %d has empty name", es.EnsembleID)
		}

		if err := c.store.UpsertEnsemble(es.Ensemble); err != nil {
			return nil, fmt.Errorf("failed to import ensemble %s: %w", es.EnsembleName, err)
		}
		result.Ensembles++

		if err := c.store.BatchInsertGenes(es.EnsembleID, es.Genes); err != nil {
			return nil, fmt.Errorf("failed to import genes of %s: %w", es.EnsembleName, err)
		}
		result.Genes += len(es.Genes)

		if err := c.store.BatchInsertCorrGenes(es.EnsembleID, es.CorrGenes); err != nil {
			return nil, fmt.Errorf("failed to import corr genes of %s: %w", es.EnsembleName, err)
		}
		result.CorrPairs += len(es.CorrGenes)

		tsne := validNames(settings.TSNESchema(), es.TSNESettings, es.EnsembleName)
		if err := c.store.ReplaceTSNESettings(es.EnsembleID, tsne); err != nil {
			return nil, fmt.Errorf("failed to import tsne settings of %s: %w", es.EnsembleName, err)
		}

		snatac := validNames(settings.SnATACSchema(), es.SnATACSettings, es.EnsembleName)
		if err := c.store.ReplaceSnATACSettings(es.EnsembleID, snatac); err != nil {
			return nil, fmt.Errorf("failed to import snatac settings of %s: %w", es.EnsembleName, err)
		}

		clustering := validClusteringSettings(es.ClusteringSettings, es.EnsembleName)
		if err := c.store.ReplaceClusteringSettings(es.EnsembleID, clustering); err != nil {
			return nil, fmt.Errorf("failed to import clustering settings of %s: %w", es.EnsembleName, err)
		}
	}

	if err := c.store.BatchInsertGeneModules(seed.GeneModules); err != nil {
		return nil, fmt.Errorf("failed to import gene modules: %w", err)
	}
	result.GeneModules = len(seed.GeneModules)

	if err := c.store.BatchInsertOrthologs(seed.Orthologs); err != nil {
		return nil, fmt.Errorf("failed to import orthologs: %w", err)
	}
	result.Orthologs = len(seed.Orthologs)

	return result, nil
}

func validNames(schema settings.Schema, names []string, ensemble string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := schema.Parse(name); !ok {
			log.Printf("importer: %s 跳过无法解析的设置名: %q", ensemble, name)
			continue
		}
		out = append(out, name)
	}
	return out
}

func validClusteringSettings(items []model.ClusteringSetting, ensemble string) []model.ClusteringSetting {
	schema := settings.ClusteringSchema()
	out := make([]model.ClusteringSetting, 0, len(items))
	for _, cs := range items {
		if _, ok := schema.Parse(cs.Name); !ok {
			log.Printf("importer: %s 跳过无法解析的聚类设置名: %q", ensemble, cs.Name)
			continue
		}
		out = append(out, cs)
	}
	return out
}
