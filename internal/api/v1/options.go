package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"scmdb/internal/model"
	"scmdb/internal/settings"
)

// cascadeResponse 一次级联解析的结果
type cascadeResponse struct {
	Ensemble string           `json:"ensemble"`
	Levels   []settings.Level `json:"levels"`
	// 各级选中值拼成的完整设置名，任一级为空时为空串
	Selected string `json:"selected"`
	Default  string `json:"default"`
}

// GetMethylationOptions t-SNE 降维设置级联选项
// GET /api/ensembles/:name/options/methylation?methylation=&ndim=&perp=
// 查询参数给出用户已选的字段值；某个字段变化后，其后各级候选集随之收窄
func (h *Handler) GetMethylationOptions(c *gin.Context) {
	ens, ok := h.ensembleFromPath(c)
	if !ok {
		return
	}

	names, err := h.store.ListTSNESettings(ens.EnsembleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	schema := settings.TSNESchema()
	resolver := settings.NewResolver(settings.NewCatalog(schema, names))

	c.JSON(http.StatusOK, cascadeResponse{
		Ensemble: ens.EnsembleName,
		Levels:   resolver.Cascade(nil, chosenFromQuery(c, schema)),
		Selected: resolveOrEmpty(resolver, chosenFromQuery(c, schema)),
		Default:  h.cfg.Browser.DefaultTSNE,
	})
}

// GetSnATACOptions snATAC t-SNE 设置级联选项
// GET /api/ensembles/:name/options/snatac?ndim=&perp=
// 样本集没有 snATAC 数据时各层级为空
func (h *Handler) GetSnATACOptions(c *gin.Context) {
	ens, ok := h.ensembleFromPath(c)
	if !ok {
		return
	}

	schema := settings.SnATACSchema()

	names := []string{}
	if ens.SnATACAvailable {
		var err error
		names, err = h.store.ListSnATACSettings(ens.EnsembleID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	resolver := settings.NewResolver(settings.NewCatalog(schema, names))

	c.JSON(http.StatusOK, cascadeResponse{
		Ensemble: ens.EnsembleName,
		Levels:   resolver.Cascade(nil, chosenFromQuery(c, schema)),
		Selected: resolveOrEmpty(resolver, chosenFromQuery(c, schema)),
		Default:  h.cfg.Browser.DefaultSnATAC,
	})
}

// GetClusteringOptions 聚类设置级联选项
// GET /api/ensembles/:name/options/clustering?methylation=&algorithm=&npc=&k=
// 最深一级（k）的标签附注该设置产生的聚类数
func (h *Handler) GetClusteringOptions(c *gin.Context) {
	ens, ok := h.ensembleFromPath(c)
	if !ok {
		return
	}

	items, err := h.store.ListClusteringSettings(ens.EnsembleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	names := make([]string, len(items))
	counts := make(map[string]int, len(items))
	for i, cs := range items {
		names[i] = cs.Name
		counts[cs.Name] = cs.ClusterCount
	}

	schema := settings.ClusteringSchema()
	resolver := settings.NewAnnotatedResolver(settings.NewCatalog(schema, names), counts)

	c.JSON(http.StatusOK, cascadeResponse{
		Ensemble: ens.EnsembleName,
		Levels:   resolver.Cascade(nil, chosenFromQuery(c, schema)),
		Selected: resolveOrEmpty(resolver, chosenFromQuery(c, schema)),
		Default:  h.cfg.Browser.DefaultClustering,
	})
}

// ensembleOptionsPayload 样本集全部可选设置（页面初始化一次拉取）
type ensembleOptionsPayload struct {
	Ensemble           string                    `json:"ensemble"`
	TSNESettings       []string                  `json:"tsneSettings"`
	SnATACSettings     []string                  `json:"snATACSettings"`
	ClusteringSettings []model.ClusteringSetting `json:"clusteringSettings"`
	DefaultTSNE        string                    `json:"defaultTsne"`
	DefaultSnATAC      string                    `json:"defaultSnATAC"`
	DefaultClustering  string                    `json:"defaultClustering"`
}

// GetEnsembleOptions 样本集选项目录，带缓存
// GET /api/ensembles/:name/options
func (h *Handler) GetEnsembleOptions(c *gin.Context) {
	ens, ok := h.ensembleFromPath(c)
	if !ok {
		return
	}

	key := optionsCacheKey(ens.EnsembleName)
	var payload ensembleOptionsPayload
	if h.cache.Load(key, &payload) {
		c.JSON(http.StatusOK, payload)
		return
	}

	tsne, err := h.store.ListTSNESettings(ens.EnsembleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	snatac, err := h.store.ListSnATACSettings(ens.EnsembleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	clustering, err := h.store.ListClusteringSettings(ens.EnsembleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload = ensembleOptionsPayload{
		Ensemble:           ens.EnsembleName,
		TSNESettings:       settings.NewCatalog(settings.TSNESchema(), tsne).Names(),
		SnATACSettings:     settings.NewCatalog(settings.SnATACSchema(), snatac).Names(),
		ClusteringSettings: clustering,
		DefaultTSNE:        h.cfg.Browser.DefaultTSNE,
		DefaultSnATAC:      h.cfg.Browser.DefaultSnATAC,
		DefaultClustering:  h.cfg.Browser.DefaultClustering,
	}

	ttl := time.Duration(h.cfg.Browser.OptionsCacheMinutes) * time.Minute
	h.cache.Save(key, payload, ttl)

	c.JSON(http.StatusOK, payload)
}

// DeleteOptionsCache 清除样本集选项缓存（数据重导后调用）
// DELETE /api/ensembles/:name/options/cache
func (h *Handler) DeleteOptionsCache(c *gin.Context) {
	name := c.Param("name")
	if err := h.store.KV().Delete(optionsCacheKey(name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": name})
}

func optionsCacheKey(ensemble string) string {
	return "options:" + ensemble
}

// ensembleFromPath 按路径参数 name 取样本集，失败时已写好响应
func (h *Handler) ensembleFromPath(c *gin.Context) (*model.Ensemble, bool) {
	return h.ensembleFromParam(c, "name")
}

// chosenFromQuery 从查询参数收集各字段的用户选择
// 前端未选时会传 "null"/"NaN"，按未选处理
func chosenFromQuery(c *gin.Context, schema settings.Schema) map[string]string {
	chosen := make(map[string]string)
	for _, f := range schema.Fields() {
		v := c.Query(f.Name)
		if v == "" || v == "null" || v == "NaN" {
			continue
		}
		chosen[f.Name] = v
	}
	return chosen
}

func resolveOrEmpty(r *settings.Resolver, chosen map[string]string) string {
	name, ok := r.Resolve(nil, chosen)
	if !ok {
		return ""
	}
	return name
}
