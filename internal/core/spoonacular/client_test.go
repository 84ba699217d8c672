package spoonacular

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"recipe-finder/internal/core/ingredient"
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

const searchFixture = `{
	"results": [
		{
			"id": 715538,
			"title": "Bruschetta Style Pork & Pasta",
			"sourceUrl": "https://example.com/recipe/715538",
			"imageType": "jpg",
			"summary": "A quick dinner.",
			"nutrition": {
				"nutrients": [
					{"name": "Calories", "amount": 521.3, "unit": "kcal"},
					{"name": "Carbohydrates", "amount": 43.5, "unit": "g"},
					{"name": "Protein", "amount": 31.2, "unit": "g"}
				],
				"ingredients": [
					{"name": "pork"},
					{"name": "pasta"}
				]
			}
		},
		{}
	],
	"totalResults": 1
}`

func newTestClient(baseURL string) *Client {
	return NewClient(&config.SpoonacularConfig{
		APIKey:       "test-key",
		BaseURL:      baseURL,
		Limit:        5,
		IgnorePantry: true,
		Timeout:      5 * time.Second,
	})
}

func TestFetchRecipes(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recipes/complexSearch", r.URL.Path)
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	include := ingredient.NewSet("strawberry", "banana")
	exclude := ingredient.NewSet("plums")

	recipes, err := client.FetchRecipes(context.Background(), include, exclude)
	require.NoError(t, err)

	// 請求參數
	assert.Equal(t, "test-key", gotQuery["apiKey"])
	assert.Equal(t, "true", gotQuery["ignorePantry"])
	assert.Equal(t, "banana,strawberry", gotQuery["includeIngredients"])
	assert.Equal(t, "plums", gotQuery["excludeIngredients"])
	assert.Equal(t, "true", gotQuery["addRecipeNutrition"])
	assert.Equal(t, "5", gotQuery["number"])

	// 空的原始元素被略過
	require.Len(t, recipes, 1)
	r := recipes[0]
	assert.Equal(t, 715538, r.ID)
	assert.Equal(t, "Bruschetta Style Pork & Pasta", r.Title)
	assert.Equal(t, 43.5, r.Carbs.Amount)
	assert.True(t, r.Ingredients.Contains("pork"))
}

func TestFetchRecipesNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"status":"failure","code":402}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchRecipes(context.Background(), ingredient.NewSet("banana"), ingredient.NewSet())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error fetching recipes")
}

func TestFetchRecipesMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchRecipes(context.Background(), ingredient.NewSet("banana"), ingredient.NewSet())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error fetching recipes")
}

func TestFetchRecipesUnreachableServer(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.FetchRecipes(context.Background(), ingredient.NewSet("banana"), ingredient.NewSet())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error fetching recipes")
}
