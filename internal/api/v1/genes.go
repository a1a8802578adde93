package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"scmdb/internal/model"
)

// SearchGenesByName 按名称搜索基因（下拉补全数据源）
// GET /api/genes/names/:ensemble?q=
// 空查询返回空列表而不是错误
func (h *Handler) SearchGenesByName(c *gin.Context) {
	ens, ok := h.ensembleFromParam(c, "ensemble")
	if !ok {
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" || query == "none" {
		c.JSON(http.StatusOK, []model.Gene{})
		return
	}

	genes, err := h.store.SearchGenesByName(ens.EnsembleID, query, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, genes)
}

// SearchGeneByID 按基因 ID 精确查询
// GET /api/genes/id/:ensemble?q=
func (h *Handler) SearchGeneByID(c *gin.Context) {
	ens, ok := h.ensembleFromParam(c, "ensemble")
	if !ok {
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" || query == "none" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	// 去掉版本号后缀
	if i := strings.IndexByte(query, '.'); i > 0 {
		query = query[:i]
	}

	gene, err := h.store.GetGeneByID(ens.EnsembleID, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if gene == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gene)
}

// GeneModules 基因模块查询
// GET /api/genes/modules          全部模块名
// GET /api/genes/modules?q=mod1   指定模块的成员基因
func (h *Handler) GeneModules(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		names, err := h.store.ListGeneModuleNames()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, names)
		return
	}

	items, err := h.store.GetGenesOfModule(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// CorrelatedGenes 与目标基因表达相关性最高的基因
// GET /api/genes/corr/:ensemble/:geneID
// 相关性查询较重，结果按样本集和基因缓存
func (h *Handler) CorrelatedGenes(c *gin.Context) {
	ens, ok := h.ensembleFromParam(c, "ensemble")
	if !ok {
		return
	}

	geneID := c.Param("geneID")
	if i := strings.IndexByte(geneID, '.'); i > 0 {
		geneID = geneID[:i]
	}

	key := corrGenesCacheKey(ens.EnsembleName, geneID)
	items := []model.CorrGene{}
	if h.cache.Load(key, &items) {
		c.JSON(http.StatusOK, items)
		return
	}

	items, err := h.store.GetCorrGenes(ens.EnsembleID, geneID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ttl := time.Duration(h.cfg.Browser.OptionsCacheMinutes) * time.Minute
	h.cache.Save(key, items, ttl)

	c.JSON(http.StatusOK, items)
}

func corrGenesCacheKey(ensemble, geneID string) string {
	return "corr_genes:" + ensemble + ":" + geneID
}

// FindOrthologs 查同源基因对
// GET /api/genes/orthologs/:geneID
func (h *Handler) FindOrthologs(c *gin.Context) {
	geneID := c.Param("geneID")
	if i := strings.IndexByte(geneID, '.'); i > 0 {
		geneID = geneID[:i]
	}

	items, err := h.store.FindOrthologs(geneID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

type recentGenesRequest struct {
	Genes []string `json:"genes"`
}

// GetRecentGenes 读取最近浏览基因
// GET /api/ensembles/:name/recent-genes
// 记录过期或不存在时返回空列表
func (h *Handler) GetRecentGenes(c *gin.Context) {
	name := c.Param("name")

	genes := []string{}
	h.cache.Load(recentGenesCacheKey(name), &genes)
	c.JSON(http.StatusOK, gin.H{"genes": genes})
}

// PutRecentGenes 记住最近浏览基因，供下次会话恢复
// PUT /api/ensembles/:name/recent-genes
func (h *Handler) PutRecentGenes(c *gin.Context) {
	name := c.Param("name")

	var req recentGenesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	ttl := time.Duration(h.cfg.Browser.RecentGenesTTLMinutes) * time.Minute
	h.cache.Save(recentGenesCacheKey(name), req.Genes, ttl)

	// 与前端约定：写入后原样返回
	c.JSON(http.StatusOK, gin.H{"genes": req.Genes})
}

func recentGenesCacheKey(ensemble string) string {
	return "recent_genes:" + ensemble
}

// ensembleFromParam 同 ensembleFromPath，路径参数名可指定
func (h *Handler) ensembleFromParam(c *gin.Context, param string) (*model.Ensemble, bool) {
	name := c.Param(param)
	ens, err := h.store.GetEnsembleByName(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if ens == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "样本集不存在"})
		return nil, false
	}
	return ens, true
}
