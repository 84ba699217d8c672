package spoonacular

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client Spoonacular 搜尋 API 客戶端
type Client struct {
	config *config.SpoonacularConfig
	client *resty.Client
}

// searchResponse 搜尋 API 響應結構
type searchResponse struct {
	Results      []*recipe.SearchResult `json:"results"`
	TotalResults int                    `json:"totalResults"`
}

// NewClient 創建 Spoonacular 客戶端
func NewClient(cfg *config.SpoonacularConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// FetchRecipes 依食材集合搜尋食譜，結果上限由設定決定。
// 傳輸失敗、非 2xx 響應或無法解析的響應都包裝為查詢錯誤返回。
func (c *Client) FetchRecipes(ctx context.Context, include, exclude ingredient.Set) ([]*recipe.Recipe, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":             c.config.APIKey,
			"ignorePantry":       strconv.FormatBool(c.config.IgnorePantry),
			"includeIngredients": strings.Join(include.Slice(), ","),
			"excludeIngredients": strings.Join(exclude.Slice(), ","),
			"addRecipeNutrition": "true",
			"number":             strconv.Itoa(c.config.Limit),
		}).
		Get("/recipes/complexSearch")

	if err != nil {
		return nil, fmt.Errorf("error fetching recipes: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("搜尋 API 返回錯誤",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", string(resp.Body())),
		)
		return nil, fmt.Errorf("error fetching recipes: unexpected status %d", resp.StatusCode())
	}

	var result searchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("error fetching recipes: %w", err)
	}

	// 空的原始元素直接略過
	recipes := make([]*recipe.Recipe, 0, len(result.Results))
	for _, raw := range result.Results {
		if r := recipe.FromSearchResult(raw); r != nil {
			recipes = append(recipes, r)
		}
	}

	common.LogDebug("搜尋結果已解析",
		zap.Int("total_results", result.TotalResults),
		zap.Int("returned", len(recipes)),
	)

	return recipes, nil
}
