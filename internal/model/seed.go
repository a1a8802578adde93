package model

// EnsembleSeed 一个样本集的完整导入数据
type EnsembleSeed struct {
	Ensemble
	Genes              []Gene              `json:"genes"`
	TSNESettings       []string            `json:"tsneSettings"`
	SnATACSettings     []string            `json:"snATACSettings"`
	ClusteringSettings []ClusteringSetting `json:"clusteringSettings"`
	CorrGenes          []CorrPair          `json:"corrGenes"`
}

// Seed 数据导入请求体
type Seed struct {
	Ensembles   []EnsembleSeed `json:"ensembles"`
	GeneModules []GeneModule   `json:"geneModules"`
	Orthologs   []Ortholog     `json:"orthologs"`
}
