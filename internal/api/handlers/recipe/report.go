package recipe

import (
	"errors"
	"net/http"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportResponse 報告產生響應
type ReportResponse struct {
	Path string `json:"path"`
	Key  string `json:"key"`
}

// HandleReport 處理報告產生請求：搜尋後輸出 HTML 報告檔案
func (h *Handler) HandleReport(c *gin.Context) {
	requestID := requestid.Get(c)

	// 解析請求
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("Invalid request format",
			zap.Error(err),
			zap.String("request_id", requestID))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	include := ingredient.NewSet(req.IncludeIngredients...)
	if len(include) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrEmptyIngredients.Message,
			"code":  common.ErrEmptyIngredients.Code,
		})
		return
	}
	exclude := ingredient.NewSet(req.ExcludeIngredients...)

	// 產生報告
	path, err := h.finderService.BuildReport(c.Request.Context(), include, exclude)
	if err != nil {
		if errors.Is(err, common.ErrNoRecipesFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": common.ErrNoRecipesFound.Message,
				"code":  common.ErrNoRecipesFound.Code,
			})
			return
		}
		common.LogError("Failed to build report",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Strings("include", include.Slice()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": common.ErrReportFailed.Message,
			"code":  common.ErrReportFailed.Code,
		})
		return
	}

	c.JSON(http.StatusOK, ReportResponse{
		Path: path,
		Key:  ingredient.CanonicalKey(include.Lower()),
	})

	common.LogInfo("Report generated",
		zap.String("request_id", requestID),
		zap.String("path", path),
	)
}
