package model

// Ensemble 细胞样本集（一次实验汇集的细胞集合）
type Ensemble struct {
	EnsembleID      int    `json:"ensembleId"`
	EnsembleName    string `json:"ensembleName"`
	PublicAccess    bool   `json:"publicAccess"`
	Description     string `json:"description"`
	SnATACAvailable bool   `json:"snATACAvailable"`
}

// Gene 基因注释记录
type Gene struct {
	GeneID   string `json:"geneId"`
	GeneName string `json:"geneName"`
	Chrom    string `json:"chrom"`
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Strand   string `json:"strand"`
	GeneType string `json:"geneType"`
}

// GeneModule 基因模块成员
type GeneModule struct {
	ModuleName string `json:"moduleName"`
	GeneID     string `json:"geneId"`
	GeneName   string `json:"geneName"`
}

// Ortholog 小鼠/人类同源基因对
type Ortholog struct {
	MmuGeneID string `json:"mmuGeneId"`
	HsaGeneID string `json:"hsaGeneId"`
}

// CorrPair 一对基因的表达相关性
type CorrPair struct {
	Gene1       string  `json:"gene1"`
	Gene2       string  `json:"gene2"`
	Correlation float64 `json:"correlation"`
}

// CorrGene 与目标基因相关的基因（按相关系数降序的名次）
type CorrGene struct {
	Rank        int     `json:"rank"`
	GeneID      string  `json:"geneId"`
	GeneName    string  `json:"geneName"`
	Correlation float64 `json:"correlation"`
}

// ClusteringSetting 聚类设置及其产生的聚类数
type ClusteringSetting struct {
	Name         string `json:"name"`
	ClusterCount int    `json:"clusterCount"`
}
