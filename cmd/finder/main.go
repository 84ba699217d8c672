package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/finder"
	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/core/spoonacular"
	"recipe-finder/internal/core/translate"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	cmd := &cli.Command{
		Name:  "finder",
		Usage: "Find recipes for a set of ingredients and build an HTML report",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "include",
				Aliases:  []string{"i"},
				Usage:    "Ingredient that should be used in the recipes (repeatable)",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"e"},
				Value:   []string{"plums"},
				Usage:   "Ingredient that the recipes must not contain (repeatable)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run 執行搜尋並產生報告
func run(ctx context.Context, cmd *cli.Command) error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer common.Sync()

	hotCache, err := cache.NewHotCache(&cfg.Cache)
	if err != nil {
		// CLI 模式下熱快取非必要，退回持久層
		common.LogWarn("熱快取不可用，改用持久快取", zap.Error(err))
		hotCache = nil
	} else {
		defer hotCache.Close()
	}

	queryCache := cache.NewQueryCache(&cfg.Database)
	client := spoonacular.NewClient(&cfg.Spoonacular)
	translator := translate.NewTranslator(&cfg.Translator)
	service := finder.NewService(cfg, queryCache, hotCache, client, translator)

	include := ingredient.NewSet(cmd.StringSlice("include")...)
	exclude := ingredient.NewSet(cmd.StringSlice("exclude")...)

	path, err := service.BuildReport(ctx, include, exclude)
	if err != nil {
		if errors.Is(err, common.ErrNoRecipesFound) {
			fmt.Println("No recipes found")
			return nil
		}
		return err
	}

	fmt.Printf("Report saved to %s\n", path)
	return nil
}
