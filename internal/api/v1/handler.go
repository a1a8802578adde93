package v1

import (
	"github.com/gin-gonic/gin"

	"scmdb/internal/cache"
	"scmdb/internal/config"
	"scmdb/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store     *store.Store
	cfg       *config.AppConfig
	cache     *cache.Cache
	downloads *exportDownloadStore
}

// NewHandler 创建 V1 API 处理器
func NewHandler(store *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:     store,
		cfg:       cfg,
		cache:     cache.New(store.KV()),
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 样本集
	router.GET("/ensembles", h.ListEnsembles)
	router.GET("/ensembles/:name", h.GetEnsemble)

	// 下拉框选项级联
	router.GET("/ensembles/:name/options", h.GetEnsembleOptions)
	router.DELETE("/ensembles/:name/options/cache", h.DeleteOptionsCache)
	router.GET("/ensembles/:name/options/methylation", h.GetMethylationOptions)
	router.GET("/ensembles/:name/options/snatac", h.GetSnATACOptions)
	router.GET("/ensembles/:name/options/clustering", h.GetClusteringOptions)

	// 最近浏览基因（跨会话记忆）
	router.GET("/ensembles/:name/recent-genes", h.GetRecentGenes)
	router.PUT("/ensembles/:name/recent-genes", h.PutRecentGenes)

	// 基因查询
	router.GET("/genes/names/:ensemble", h.SearchGenesByName)
	router.GET("/genes/id/:ensemble", h.SearchGeneByID)
	router.GET("/genes/modules", h.GeneModules)
	router.GET("/genes/corr/:ensemble/:geneID", h.CorrelatedGenes)
	router.GET("/genes/orthologs/:geneID", h.FindOrthologs)

	// 数据导入
	router.POST("/import", h.Import)

	// 目录导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
