package finder

import (
	"context"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/report"
	"recipe-finder/internal/core/spoonacular"
	"recipe-finder/internal/core/translate"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜搜尋服務：串接熱快取、持久查詢快取與遠端搜尋
type Service struct {
	config     *config.Config
	queryCache *cache.QueryCache
	hotCache   *cache.HotCache
	client     *spoonacular.Client
	translator *translate.Translator
}

// NewService 創建搜尋服務
func NewService(cfg *config.Config, queryCache *cache.QueryCache, hotCache *cache.HotCache, client *spoonacular.Client, translator *translate.Translator) *Service {
	return &Service{
		config:     cfg,
		queryCache: queryCache,
		hotCache:   hotCache,
		client:     client,
		translator: translator,
	}
}

// Find 依食材集合搜尋食譜。輸入先轉為小寫；先查熱快取，
// 未命中時走讀穿式查詢快取（必要時呼叫遠端），再回填熱快取。
// 零筆結果是合法的快取值，由呼叫端決定如何呈現。
func (s *Service) Find(ctx context.Context, include, exclude ingredient.Set) ([]*recipe.Recipe, error) {
	include = include.Lower()
	exclude = exclude.Lower()

	includeKey := ingredient.CanonicalKey(include)
	excludeKey := ingredient.CanonicalKey(exclude)

	if s.hotCache != nil && s.hotCache.Enabled() {
		if recipes, err := s.hotCache.Get(ctx, includeKey, excludeKey); err == nil {
			common.LogCacheHit("熱快取", includeKey+":"+excludeKey)
			return recipes, nil
		}
	}

	recipes, err := s.queryCache.FetchOrRetrieve(ctx, include, exclude, s.client.FetchRecipes)
	if err != nil {
		return nil, err
	}

	if s.hotCache != nil && s.hotCache.Enabled() {
		// 回填失敗不影響查詢結果
		if err := s.hotCache.Set(ctx, includeKey, excludeKey, recipes); err != nil {
			common.LogWarn("熱快取回填失敗", zap.Error(err))
		}
	}

	return recipes, nil
}

// BuildReport 搜尋後產生 HTML 報告，返回輸出檔案路徑。
// 零筆結果視為找不到食譜錯誤。
func (s *Service) BuildReport(ctx context.Context, include, exclude ingredient.Set) (string, error) {
	include = include.Lower()

	recipes, err := s.Find(ctx, include, exclude)
	if err != nil {
		return "", err
	}
	if len(recipes) == 0 {
		return "", common.ErrNoRecipesFound
	}

	builder, err := report.NewBuilder(&s.config.Report, s.translator)
	if err != nil {
		return "", err
	}

	return builder.SaveRecipes(ctx, recipes, include)
}
