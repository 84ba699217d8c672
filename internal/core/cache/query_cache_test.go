package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func newTestCache(t *testing.T) *QueryCache {
	t.Helper()
	return NewQueryCache(&config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "recipes.db"),
	})
}

func newTestRecipe(id int, title string, carbs, protein float64, names ...string) *recipe.Recipe {
	return &recipe.Recipe{
		ID:          id,
		Title:       title,
		SourceURL:   "https://example.com/recipe",
		ImageType:   "jpg",
		Summary:     "summary",
		Ingredients: ingredient.NewSet(names...),
		Calories:    recipe.Nutrient{Amount: 400, Unit: "kcal"},
		Protein:     recipe.Nutrient{Amount: protein, Unit: "g"},
		Carbs:       recipe.Nutrient{Amount: carbs, Unit: "g"},
	}
}

func countingFetcher(recipes []*recipe.Recipe, calls *int) Fetcher {
	return func(ctx context.Context, include, exclude ingredient.Set) ([]*recipe.Recipe, error) {
		*calls++
		return recipes, nil
	}
}

func TestFetchOrRetrieveMissThenHit(t *testing.T) {
	qc := newTestCache(t)
	ctx := context.Background()

	fetched := []*recipe.Recipe{
		newTestRecipe(1, "banana bread", 50, 8, "banana", "flour"),
		newTestRecipe(2, "smoothie", 30, 5, "banana", "strawberry"),
	}
	calls := 0
	fetch := countingFetcher(fetched, &calls)

	include := ingredient.NewSet("banana", "strawberry")
	exclude := ingredient.NewSet("plums")

	// 第一次呼叫未命中，觸發遠端查詢
	first, err := qc.FetchOrRetrieve(ctx, include, exclude, fetch)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, calls)

	// 相同查詢直接命中，不再觸發遠端
	second, err := qc.FetchOrRetrieve(ctx, include, exclude, fetch)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, 1, calls)
}

func TestFetchOrRetrieveKeyIsOrderAndCaseInsensitive(t *testing.T) {
	qc := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := countingFetcher([]*recipe.Recipe{newTestRecipe(1, "x", 10, 5, "egg")}, &calls)

	_, err := qc.FetchOrRetrieve(ctx, ingredient.NewSet("banana", "strawberry"), ingredient.NewSet(), fetch)
	require.NoError(t, err)

	// 不同順序與大小寫對應同一個快取條目
	_, err = qc.FetchOrRetrieve(ctx, ingredient.NewSet("STRAWBERRY", "Banana"), ingredient.NewSet(), fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetchOrRetrieveDistinctQueries(t *testing.T) {
	qc := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := countingFetcher([]*recipe.Recipe{newTestRecipe(1, "x", 10, 5, "egg")}, &calls)

	_, err := qc.FetchOrRetrieve(ctx, ingredient.NewSet("banana"), ingredient.NewSet(), fetch)
	require.NoError(t, err)

	// exclude 集合不同即為不同查詢
	_, err = qc.FetchOrRetrieve(ctx, ingredient.NewSet("banana"), ingredient.NewSet("plums"), fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchOrRetrieveRoundTrip(t *testing.T) {
	qc := newTestCache(t)
	ctx := context.Background()

	original := newTestRecipe(7, "pancakes", 42.5, 12.5, "whole milk", "egg", "flour")
	calls := 0
	fetch := countingFetcher([]*recipe.Recipe{original}, &calls)

	include := ingredient.NewSet("egg")
	_, err := qc.FetchOrRetrieve(ctx, include, ingredient.NewSet(), fetch)
	require.NoError(t, err)

	got, err := qc.FetchOrRetrieve(ctx, include, ingredient.NewSet(), fetch)
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, original.ID, r.ID)
	assert.Equal(t, original.Title, r.Title)
	assert.Equal(t, original.SourceURL, r.SourceURL)
	assert.Equal(t, original.ImageType, r.ImageType)
	assert.Equal(t, original.Summary, r.Summary)
	assert.Equal(t, original.Calories, r.Calories)
	assert.Equal(t, original.Protein, r.Protein)
	assert.Equal(t, original.Carbs, r.Carbs)

	// 食材集合經序列化形式重建
	assert.ElementsMatch(t, []string{"whole milk", "egg", "flour"}, r.Ingredients.Slice())
}

func TestFetchOrRetrieveCachesEmptyResult(t *testing.T) {
	qc := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := countingFetcher([]*recipe.Recipe{}, &calls)

	include := ingredient.NewSet("unobtainium")
	first, err := qc.FetchOrRetrieve(ctx, include, ingredient.NewSet(), fetch)
	require.NoError(t, err)
	assert.Empty(t, first)

	// 零筆結果也是合法快取值，重複查詢不再觸發遠端
	second, err := qc.FetchOrRetrieve(ctx, include, ingredient.NewSet(), fetch)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 1, calls)
}

func TestFetchOrRetrieveFetchFailureWritesNothing(t *testing.T) {
	qc := newTestCache(t)
	ctx := context.Background()

	failingCalls := 0
	failing := func(ctx context.Context, include, exclude ingredient.Set) ([]*recipe.Recipe, error) {
		failingCalls++
		return nil, errors.New("upstream unavailable")
	}

	include := ingredient.NewSet("banana")
	_, err := qc.FetchOrRetrieve(ctx, include, ingredient.NewSet(), failing)
	require.Error(t, err)

	// 失敗的查詢不可寫入任何資料，下次仍是未命中
	calls := 0
	fetch := countingFetcher([]*recipe.Recipe{newTestRecipe(1, "x", 10, 5, "banana")}, &calls)
	got, err := qc.FetchOrRetrieve(ctx, include, ingredient.NewSet(), fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, failingCalls)
}

func TestFetchOrRetrieveUpdatesKnownRecipe(t *testing.T) {
	qc := newTestCache(t)
	ctx := context.Background()

	stale := newTestRecipe(1, "old title", 10, 5, "egg")
	fresh := newTestRecipe(1, "new title", 10, 5, "egg")

	calls := 0
	_, err := qc.FetchOrRetrieve(ctx, ingredient.NewSet("egg"), ingredient.NewSet(), countingFetcher([]*recipe.Recipe{stale}, &calls))
	require.NoError(t, err)

	// 相同 id 的食譜在其他查詢中重新取得時覆寫既有屬性
	_, err = qc.FetchOrRetrieve(ctx, ingredient.NewSet("egg", "flour"), ingredient.NewSet(), countingFetcher([]*recipe.Recipe{fresh}, &calls))
	require.NoError(t, err)

	got, err := qc.FetchOrRetrieve(ctx, ingredient.NewSet("egg"), ingredient.NewSet(), countingFetcher(nil, &calls))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new title", got[0].Title)
	assert.Equal(t, 2, calls)
}
