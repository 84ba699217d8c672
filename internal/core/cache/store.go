package cache

import (
	"errors"
	"fmt"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/core/recipe"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recipeRow Recipe 資料表，食材集合以標準鍵序列化儲存
type recipeRow struct {
	ID             int     `gorm:"column:id;primaryKey"`
	Title          string  `gorm:"column:title;not null"`
	SourceURL      string  `gorm:"column:source_url;not null"`
	ImageType      string  `gorm:"column:image_type;not null"`
	Summary        string  `gorm:"column:summary;not null"`
	Ingredients    string  `gorm:"column:ingredients;not null"`
	CaloriesAmount float64 `gorm:"column:calories_amount;not null"`
	CaloriesUnit   string  `gorm:"column:calories_unit;not null"`
	ProteinAmount  float64 `gorm:"column:protein_amount;not null"`
	ProteinUnit    string  `gorm:"column:protein_unit;not null"`
	CarbsAmount    float64 `gorm:"column:carbs_amount;not null"`
	CarbsUnit      string  `gorm:"column:carbs_unit;not null"`
}

// TableName 指定資料表名稱
func (recipeRow) TableName() string { return "Recipe" }

// queryRow Queries 資料表，鍵為標準化後的食材鍵組
type queryRow struct {
	QueryID            uint   `gorm:"column:query_id;primaryKey;autoIncrement"`
	IncludeIngredients string `gorm:"column:include_ingredients;not null"`
	ExcludeIngredients string `gorm:"column:exclude_ingredients;not null"`
}

// TableName 指定資料表名稱
func (queryRow) TableName() string { return "Queries" }

// linkRow QueryRecipeLink 資料表，查詢與食譜的多對多關聯
type linkRow struct {
	QueryID  uint `gorm:"column:query_id;primaryKey"`
	RecipeID int  `gorm:"column:recipe_id;primaryKey"`
}

// TableName 指定資料表名稱
func (linkRow) TableName() string { return "QueryRecipeLink" }

// openStore 開啟資料庫連線並確保資料表存在（冪等）
func openStore(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&recipeRow{}, &queryRow{}, &linkRow{}); err != nil {
		closeStore(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// closeStore 關閉底層連線
func closeStore(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// toRow 將食譜記錄轉為資料列
func toRow(r *recipe.Recipe) recipeRow {
	return recipeRow{
		ID:             r.ID,
		Title:          r.Title,
		SourceURL:      r.SourceURL,
		ImageType:      r.ImageType,
		Summary:        r.Summary,
		Ingredients:    ingredient.CanonicalKey(r.Ingredients),
		CaloriesAmount: r.Calories.Amount,
		CaloriesUnit:   r.Calories.Unit,
		ProteinAmount:  r.Protein.Amount,
		ProteinUnit:    r.Protein.Unit,
		CarbsAmount:    r.Carbs.Amount,
		CarbsUnit:      r.Carbs.Unit,
	}
}

// fromRow 將資料列還原為食譜記錄，食材集合由序列化形式重建
func fromRow(row recipeRow) *recipe.Recipe {
	return &recipe.Recipe{
		ID:          row.ID,
		Title:       row.Title,
		SourceURL:   row.SourceURL,
		ImageType:   row.ImageType,
		Summary:     row.Summary,
		Ingredients: ingredient.ParseKey(row.Ingredients),
		Calories:    recipe.Nutrient{Amount: row.CaloriesAmount, Unit: row.CaloriesUnit},
		Protein:     recipe.Nutrient{Amount: row.ProteinAmount, Unit: row.ProteinUnit},
		Carbs:       recipe.Nutrient{Amount: row.CarbsAmount, Unit: row.CarbsUnit},
	}
}

// findQueryID 查找既有查詢列，回報是否命中
func findQueryID(db *gorm.DB, includeKey, excludeKey string) (uint, bool, error) {
	var row queryRow
	err := db.
		Where("include_ingredients = ? AND exclude_ingredients = ?", includeKey, excludeKey).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up query: %w", err)
	}
	return row.QueryID, true, nil
}

// loadRecipes 取出與查詢關聯的所有食譜
func loadRecipes(db *gorm.DB, queryID uint) ([]*recipe.Recipe, error) {
	var rows []recipeRow
	err := db.Model(&recipeRow{}).
		Select("Recipe.*").
		Joins("INNER JOIN QueryRecipeLink link ON Recipe.id = link.recipe_id").
		Where("link.query_id = ?", queryID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	recipes := make([]*recipe.Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, fromRow(row))
	}
	return recipes, nil
}
