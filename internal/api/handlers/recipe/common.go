package recipe

import (
	"recipe-finder/internal/core/finder"
	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/core/recipe"
)

// Handler 食譜相關請求處理器
type Handler struct {
	finderService *finder.Service
}

// NewHandler 創建處理器
func NewHandler(finderService *finder.Service) *Handler {
	return &Handler{
		finderService: finderService,
	}
}

// SearchRequest 食譜搜尋請求
type SearchRequest struct {
	IncludeIngredients []string `json:"include_ingredients" binding:"required"`
	ExcludeIngredients []string `json:"exclude_ingredients,omitempty"`
}

// NutrientView 營養素響應結構
type NutrientView struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// RecipeView 單筆食譜響應結構，含食材對帳結果
type RecipeView struct {
	ID                int          `json:"id"`
	Title             string       `json:"title"`
	SourceURL         string       `json:"source_url"`
	ImageURL          string       `json:"image_url"`
	Summary           string       `json:"summary"`
	Ingredients       []string     `json:"ingredients"`
	Calories          NutrientView `json:"calories"`
	Protein           NutrientView `json:"protein"`
	Carbs             NutrientView `json:"carbs"`
	UsedIngredients   []string     `json:"used_ingredients"`
	MissedIngredients []string     `json:"missed_ingredients"`
	UnusedIngredients []string     `json:"unused_ingredients"`
}

// SearchResponse 食譜搜尋響應
type SearchResponse struct {
	Count       int          `json:"count"`
	Recipes     []RecipeView `json:"recipes"`
	Recommended *RecipeView  `json:"recommended,omitempty"`
}

// toNutrientView 轉換量測值
func toNutrientView(n recipe.Nutrient) NutrientView {
	return NutrientView{Amount: n.Amount, Unit: n.Unit}
}

// toRecipeView 轉換食譜記錄並附上對帳結果
func toRecipeView(r *recipe.Recipe, include ingredient.Set) RecipeView {
	used, missed, unused := r.Reconcile(include)
	return RecipeView{
		ID:                r.ID,
		Title:             r.Title,
		SourceURL:         r.SourceURL,
		ImageURL:          r.ImageURL(""),
		Summary:           r.Summary,
		Ingredients:       r.Ingredients.Slice(),
		Calories:          toNutrientView(r.Calories),
		Protein:           toNutrientView(r.Protein),
		Carbs:             toNutrientView(r.Carbs),
		UsedIngredients:   used.Slice(),
		MissedIngredients: missed.Slice(),
		UnusedIngredients: unused.Slice(),
	}
}

// buildSearchResponse 組裝搜尋響應，非空結果附上推薦食譜
func buildSearchResponse(recipes []*recipe.Recipe, include ingredient.Set) SearchResponse {
	response := SearchResponse{
		Count:   len(recipes),
		Recipes: make([]RecipeView, 0, len(recipes)),
	}
	for _, r := range recipes {
		response.Recipes = append(response.Recipes, toRecipeView(r, include))
	}
	if len(recipes) > 0 {
		recommended := toRecipeView(recipe.Recommend(recipes), include)
		response.Recommended = &recommended
	}
	return response
}
