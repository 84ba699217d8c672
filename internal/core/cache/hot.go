package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// HotCache 搜尋結果熱快取（Redis），置於持久查詢快取之前。
// 未啟用或故障時由呼叫端退回持久層，不影響記憶正確性。
type HotCache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewHotCache 創建熱快取服務
func NewHotCache(cfg *config.CacheConfig) (*HotCache, error) {
	if !cfg.Enabled {
		return &HotCache{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &HotCache{
		client: client,
		config: cfg,
	}, nil
}

// Enabled 檢查熱快取是否可用
func (h *HotCache) Enabled() bool {
	return h.config.Enabled && h.client != nil
}

// Get 獲取快取的搜尋結果
func (h *HotCache) Get(ctx context.Context, includeKey, excludeKey string) ([]*recipe.Recipe, error) {
	if !h.Enabled() {
		return nil, fmt.Errorf("cache is disabled")
	}

	key := h.generateKey(includeKey, excludeKey)

	data, err := h.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var recipes []*recipe.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}

	return recipes, nil
}

// Set 設置快取的搜尋結果
func (h *HotCache) Set(ctx context.Context, includeKey, excludeKey string, recipes []*recipe.Recipe) error {
	if !h.Enabled() {
		return nil
	}

	key := h.generateKey(includeKey, excludeKey)

	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to marshal recipes: %w", err)
	}

	if err := h.client.Set(ctx, key, data, h.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Close 關閉熱快取連線
func (h *HotCache) Close() error {
	if h.client != nil {
		return h.client.Close()
	}
	return nil
}

// generateKey 生成快取鍵
func (h *HotCache) generateKey(includeKey, excludeKey string) string {
	return fmt.Sprintf("search:%s:%s", includeKey, excludeKey)
}
