package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scmdb/internal/config"
	"scmdb/internal/exporter"
	"scmdb/internal/importer"
)

const downloadTokenTTL = 10 * time.Minute

// Import 导入种子数据
// POST /api/import  请求体为 model.Seed JSON
// 导入成功后清掉相关样本集的选项缓存
func (h *Handler) Import(c *gin.Context) {
	result, err := importer.NewCoordinator(h.store).ImportJSON(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("导入失败: %v", err)})
		return
	}

	// 目录已变化，旧的选项缓存全部作废
	ensembles, listErr := h.store.ListEnsembles(false)
	if listErr == nil {
		for _, ens := range ensembles {
			_ = h.store.KV().Delete(optionsCacheKey(ens.EnsembleName))
		}
	}

	c.JSON(http.StatusOK, result)
}

type exportResponse struct {
	Token    string `json:"token"`
	FileName string `json:"fileName"`
}

// Export 导出样本集/设置目录为 Excel
// POST /api/export
// 返回一次性下载令牌，文件落在数据目录 exports 子目录
func (h *Handler) Export(c *gin.Context) {
	f, err := exporter.NewExporter(h.store).Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("导出失败: %v", err)})
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("scmdb-catalog-%s.xlsx", uuid.New().String()[:8])
	filePath := config.GetDataPath(h.cfg, "exports", fileName)

	if err := f.SaveAs(filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("保存导出文件失败: %v", err)})
		return
	}

	token := h.downloads.put(filePath, downloadTokenTTL)
	c.JSON(http.StatusOK, exportResponse{Token: token, FileName: fileName})
}

// DownloadExport 按令牌下载导出文件
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	c.FileAttachment(item.filePath, "scmdb-catalog.xlsx")
}
