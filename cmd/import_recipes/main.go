package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	"kitchenops/internal/config"
	"kitchenops/internal/db"
	"kitchenops/internal/importer"
	applog "kitchenops/internal/log"
	"kitchenops/models"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import_recipes <file.csv|file.xlsx>")
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("file path must not be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("locate file: %w", err)
	}

	rows, err := importer.ReadRows(path)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	summary, err := importRecipes(ctx, database, importer.ByRecipe(rows))
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d recipes (%d created, %d replaced), %d ingredients\n",
		summary.Created+summary.Replaced, summary.Created, summary.Replaced, summary.Ingredients)
	return nil
}

type importSummary struct {
	Created     int
	Replaced    int
	Ingredients int
}

// importRecipes upserts every recipe by name and replaces its groups and ingredients. Each
// recipe is written in its own transaction so a failure leaves earlier recipes in place.
func importRecipes(ctx context.Context, database *gorm.DB, recipes []importer.RecipeRows) (importSummary, error) {
	var summary importSummary
	for idx, rows := range recipes {
		created := false
		err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var recipe models.Recipe
			err := tx.Where("name = ?", rows.Name).First(&recipe).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				recipe = models.Recipe{Name: rows.Name, Servings: max(rows.Servings, 1)}
				if err := tx.Create(&recipe).Error; err != nil {
					return fmt.Errorf("create recipe: %w", err)
				}
				created = true
			case err != nil:
				return fmt.Errorf("find recipe: %w", err)
			case rows.Servings > 0 && rows.Servings != recipe.Servings:
				if err := tx.Model(&recipe).Update("servings", rows.Servings).Error; err != nil {
					return fmt.Errorf("update servings: %w", err)
				}
			}

			result, err := importer.Replace(ctx, tx, &recipe, rows.Lines)
			if err != nil {
				return err
			}
			summary.Ingredients += result.Ingredients
			return nil
		})
		if err != nil {
			return summary, fmt.Errorf("recipe %d (%s): %w", idx+1, rows.Name, err)
		}

		if created {
			summary.Created++
		} else {
			summary.Replaced++
		}
		applog.Debug(ctx, "recipe imported", "name", rows.Name, "created", created, "lines", len(rows.Lines))
	}
	return summary, nil
}
