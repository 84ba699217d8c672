package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/translate"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Builder HTML 報告產生器，以佔位符替換組裝報告。
// 一份報告對應一個 Builder 實例，產生後即不可重用。
type Builder struct {
	config             *config.ReportConfig
	translator         *translate.Translator
	html               string
	recipeTemplate     string
	ingredientTemplate string
}

// NewBuilder 創建報告產生器並載入全部模板
func NewBuilder(cfg *config.ReportConfig, translator *translate.Translator) (*Builder, error) {
	main, err := os.ReadFile(filepath.Join(cfg.TemplateDir, "main.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to load main template: %w", err)
	}
	recipeTmpl, err := os.ReadFile(filepath.Join(cfg.TemplateDir, "recipe.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe template: %w", err)
	}
	ingredientTmpl, err := os.ReadFile(filepath.Join(cfg.TemplateDir, "ingredient.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient template: %w", err)
	}

	return &Builder{
		config:             cfg,
		translator:         translator,
		html:               string(main),
		recipeTemplate:     string(recipeTmpl),
		ingredientTemplate: string(ingredientTmpl),
	}, nil
}

// replace 以指定值替換 HTML 中的佔位符
func (b *Builder) replace(key, value string) {
	b.html = strings.ReplaceAll(b.html, key, value)
}

// replaceNutrient 以格式化的量測值替換營養素佔位符
func (b *Builder) replaceNutrient(key string, n recipe.Nutrient) {
	b.replace(key, n.String())
}

// replaceIngredients 以逐項嵌入模板的食材列表替換佔位符，
// 附上翻譯名稱；翻譯失敗時退回原文繼續產生
func (b *Builder) replaceIngredients(ctx context.Context, key string, names []string) {
	translated, err := b.translator.TranslateList(ctx, names)
	if err != nil {
		common.LogWarn("食材翻譯失敗，使用原文",
			zap.Error(err),
			zap.Int("count", len(names)),
		)
		translated = names
	}

	items := make([]string, 0, len(names))
	for i, name := range names {
		item := strings.ReplaceAll(b.ingredientTemplate, "$INGREDIENT_EN", name)
		item = strings.ReplaceAll(item, "$INGREDIENT_PL", translated[i])
		items = append(items, item)
	}
	b.replace(key, strings.Join(items, "\n"))
}

// addRecipe 將一筆食譜嵌入報告
func (b *Builder) addRecipe(ctx context.Context, r *recipe.Recipe, include ingredient.Set) {
	b.replace("$RECIPES", b.recipeTemplate)

	used, missed, _ := r.Reconcile(include)

	b.replace("$TITLE", r.Title)
	b.replace("$SOURCE_URL", r.SourceURL)
	b.replace("$IMAGE_URL", r.ImageURL(b.config.ImageSize))
	b.replace("$SUMMARY", r.Summary)

	b.replaceNutrient("$CALORIES", r.Calories)
	b.replaceNutrient("$PROTEIN", r.Protein)
	b.replaceNutrient("$CARBS", r.Carbs)

	b.replaceIngredients(ctx, "$USED_INGREDIENTS", used.Slice())
	b.replaceIngredients(ctx, "$MISSED_INGREDIENTS", missed.Slice())
}

// SaveRecipes 產生完整報告並寫入輸出目錄，
// 檔名為 include 集合的標準鍵，返回輸出路徑
func (b *Builder) SaveRecipes(ctx context.Context, recipes []*recipe.Recipe, include ingredient.Set) (string, error) {
	if len(recipes) == 0 {
		return "", common.NewValidationError("cannot build report from empty recipe list")
	}

	recommended := recipe.Recommend(recipes)
	b.replace("$RECOMMENDED_TITLE", recommended.Title)
	b.replace("$RECOMMENDED_SOURCE_URL", recommended.SourceURL)
	b.replaceNutrient("$RECOMMENDED_CARBS", recommended.Carbs)
	b.replaceNutrient("$RECOMMENDED_PROTEIN", recommended.Protein)

	for _, r := range recipes {
		b.addRecipe(ctx, r, include)
	}
	b.replace("$RECIPES", "")

	if err := os.MkdirAll(b.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(b.config.OutputDir, ingredient.CanonicalKey(include)+".html")
	if err := os.WriteFile(path, []byte(b.html), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	common.LogInfo("報告已產生",
		zap.String("path", path),
		zap.Int("recipes", len(recipes)),
	)

	return path, nil
}
