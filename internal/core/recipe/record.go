package recipe

import (
	"fmt"
	"strings"

	"recipe-finder/internal/core/ingredient"
)

const (
	// 圖片伺服器位址
	imageBaseURL = "https://img.spoonacular.com/recipes"
	// DefaultImageSize 預設圖片尺寸
	DefaultImageSize = "636x393"
)

// Nutrient 營養素量測值，缺漏時為零值而非錯誤
type Nutrient struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// IsZero 檢查量測值是否缺漏
func (n Nutrient) IsZero() bool {
	return n.Amount == 0 && n.Unit == ""
}

// String 格式化為「數值 單位」
func (n Nutrient) String() string {
	if n.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%g %s", n.Amount, n.Unit)
}

// Recipe 單筆食譜記錄，由外部搜尋結果建構
type Recipe struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	SourceURL   string         `json:"source_url"`
	ImageType   string         `json:"image_type"`
	Summary     string         `json:"summary"`
	Ingredients ingredient.Set `json:"ingredients"`
	Calories    Nutrient       `json:"calories"`
	Protein     Nutrient       `json:"protein"`
	Carbs       Nutrient       `json:"carbs"`
}

// SearchResult 外部搜尋 API 回傳的單筆原始結果
type SearchResult struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	SourceURL string     `json:"sourceUrl"`
	ImageType string     `json:"imageType"`
	Summary   string     `json:"summary"`
	Nutrition *Nutrition `json:"nutrition,omitempty"`
}

// Nutrition 原始結果中的營養區塊
type Nutrition struct {
	Nutrients   []NutrientInfo   `json:"nutrients"`
	Ingredients []IngredientInfo `json:"ingredients"`
}

// NutrientInfo 原始營養素項目
type NutrientInfo struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// IngredientInfo 原始食材項目
type IngredientInfo struct {
	Name string `json:"name"`
}

// FromSearchResult 從原始搜尋結果建構食譜記錄。
// 空的原始結果返回 nil，呼叫端應跳過；缺漏欄位對應零值。
func FromSearchResult(res *SearchResult) *Recipe {
	if res == nil || (res.ID == 0 && res.Title == "") {
		return nil
	}

	r := &Recipe{
		ID:          res.ID,
		Title:       res.Title,
		SourceURL:   res.SourceURL,
		ImageType:   res.ImageType,
		Summary:     res.Summary,
		Ingredients: ingredient.Set{},
	}

	if res.Nutrition == nil {
		return r
	}

	// 食材集合來自營養區塊，保留來源原始名稱
	for _, info := range res.Nutrition.Ingredients {
		if info.Name != "" {
			r.Ingredients.Add(info.Name)
		}
	}

	// 建立名稱到量測值的查找表（不分大小寫），只保留數值與單位
	nutrients := make(map[string]Nutrient, len(res.Nutrition.Nutrients))
	for _, info := range res.Nutrition.Nutrients {
		nutrients[strings.ToLower(info.Name)] = Nutrient{
			Amount: info.Amount,
			Unit:   info.Unit,
		}
	}
	r.Calories = nutrients["calories"]
	r.Carbs = nutrients["carbohydrates"]
	r.Protein = nutrients["protein"]

	return r
}

// Reconcile 將食譜食材與期望集合對帳，劃分為三組：
// used 為兩者交集、missed 為食譜需要但未指定、unused 為指定但未用到。
// 比對不分大小寫，返回名稱保留原始拼寫。
func (r *Recipe) Reconcile(include ingredient.Set) (used, missed, unused ingredient.Set) {
	used = ingredient.Set{}
	missed = ingredient.Set{}
	unused = ingredient.Set{}

	includeLower := include.Lower()
	recipeLower := r.Ingredients.Lower()

	for name := range r.Ingredients {
		if includeLower.Contains(strings.ToLower(name)) {
			used.Add(name)
		} else {
			missed.Add(name)
		}
	}
	for name := range include {
		if !recipeLower.Contains(strings.ToLower(name)) {
			unused.Add(name)
		}
	}
	return used, missed, unused
}

// ImageURL 組合食譜圖片網址，size 為空時使用預設尺寸
func (r *Recipe) ImageURL(size string) string {
	if size == "" {
		size = DefaultImageSize
	}
	return fmt.Sprintf("%s/%d-%s.%s", imageBaseURL, r.ID, size, r.ImageType)
}
