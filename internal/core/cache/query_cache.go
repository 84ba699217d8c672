package cache

import (
	"context"
	"fmt"
	"time"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fetcher 遠端食譜查詢協作者
type Fetcher func(ctx context.Context, include, exclude ingredient.Set) ([]*recipe.Recipe, error)

// QueryCache 查詢快取：以標準鍵組記憶 (include, exclude) 查詢結果。
// 連線在每次邏輯操作開始時開啟、結束時關閉，僅單一寫入者。
type QueryCache struct {
	path string
}

// NewQueryCache 創建查詢快取
func NewQueryCache(cfg *config.DatabaseConfig) *QueryCache {
	return &QueryCache{path: cfg.Path}
}

// FetchOrRetrieve 讀穿式查詢：命中時直接返回既有結果，
// 未命中時呼叫 fetch 取得新結果並在單一交易內寫入
// 食譜、查詢列與關聯列。fetch 失敗時不寫入任何資料，
// 同樣的查詢下次仍會重試遠端。
func (qc *QueryCache) FetchOrRetrieve(ctx context.Context, include, exclude ingredient.Set, fetch Fetcher) ([]*recipe.Recipe, error) {
	includeKey := ingredient.CanonicalKey(include)
	excludeKey := ingredient.CanonicalKey(exclude)
	cacheKey := includeKey + ":" + excludeKey

	db, err := openStore(qc.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open query cache: %w", err)
	}
	defer closeStore(db)
	db = db.WithContext(ctx)

	queryID, found, err := findQueryID(db, includeKey, excludeKey)
	if err != nil {
		return nil, err
	}
	if found {
		common.LogCacheHit("查詢快取", cacheKey)
		return loadRecipes(db, queryID)
	}
	common.LogCacheMiss("查詢快取", cacheKey)

	operationID := common.GenerateUUID()
	start := time.Now()
	recipes, err := fetch(ctx, include, exclude)
	common.LogRemoteFetch("spoonacular", time.Since(start), len(recipes), err)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	// 未命中路徑的全部寫入一次提交，任一步失敗整體回滾
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, r := range recipes {
			row := toRow(r)
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to save recipe %d: %w", r.ID, err)
			}
		}

		query := queryRow{
			IncludeIngredients: includeKey,
			ExcludeIngredients: excludeKey,
		}
		if err := tx.Create(&query).Error; err != nil {
			return fmt.Errorf("failed to save query: %w", err)
		}

		for _, r := range recipes {
			link := linkRow{QueryID: query.QueryID, RecipeID: r.ID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link query %d with recipe %d: %w", query.QueryID, r.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist query result: %w", err)
	}

	common.LogDebug("查詢結果已寫入快取",
		zap.String("operation_id", operationID),
		zap.String("鍵", cacheKey),
		zap.Int("筆數", len(recipes)),
	)

	return recipes, nil
}
