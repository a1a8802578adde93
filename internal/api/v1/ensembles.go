package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scmdb/internal/model"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized   bool `json:"initialized"`   // 是否已初始化（有数据）
	EnsembleCount int  `json:"ensembleCount"` // 样本集总数
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	count, err := h.store.CountEnsembles()
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{Initialized: false})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:   count > 0,
		EnsembleCount: count,
	})
}

type listEnsemblesResponse struct {
	Items []model.Ensemble `json:"items"`
	Total int              `json:"total"`
}

// ListEnsembles 获取样本集列表（导航栏数据源）
// GET /api/ensembles?public=true
func (h *Handler) ListEnsembles(c *gin.Context) {
	publicOnly, _ := strconv.ParseBool(c.DefaultQuery("public", "false"))

	items, err := h.store.ListEnsembles(publicOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnsemblesResponse{Items: items, Total: len(items)})
}

// GetEnsemble 按名称获取样本集信息
// GET /api/ensembles/:name
func (h *Handler) GetEnsemble(c *gin.Context) {
	name := c.Param("name")

	ens, err := h.store.GetEnsembleByName(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ens == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "样本集不存在"})
		return
	}

	c.JSON(http.StatusOK, ens)
}
