package recipe

import (
	"net/http"
	"strings"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleSearch 處理食譜搜尋請求
func (h *Handler) HandleSearch(c *gin.Context) {
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

	// 執行搜尋
	recipes, err := h.finderService.Find(c.Request.Context(), include, exclude)
	if err != nil {
		common.LogError("Failed to find recipes",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Strings("include", include.Slice()),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": common.ErrFetchFailed.Message,
			"code":  common.ErrFetchFailed.Code,
		})
		return
	}

	// 返回響應（零筆結果是合法響應）
	c.JSON(http.StatusOK, buildSearchResponse(recipes, include.Lower()))

	common.LogInfo("Search completed",
		zap.String("request_id", requestID),
		zap.Int("count", len(recipes)),
	)
}

// HandleCanonicalKey 返回食材列表的標準鍵，
// 供呼叫端以與快取一致的方式命名輸出產物
func (h *Handler) HandleCanonicalKey(c *gin.Context) {
	raw := c.Query("ingredients")
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrEmptyIngredients.Message,
			"code":  common.ErrEmptyIngredients.Code,
		})
		return
	}

	set := ingredient.NewSet(strings.Split(raw, ",")...)
	c.JSON(http.StatusOK, gin.H{
		"ingredients": set.Slice(),
		"key":         ingredient.CanonicalKey(set),
	})
}
