// Package planning schedules recipes onto kitchen menus and loads planned menus back with
// everything the aggregation and report code needs preloaded.
package planning

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kitchenops/internal/importer"
	applog "kitchenops/internal/log"
	"kitchenops/models"
)

const dayLayout = "2006-01-02"

var (
	ErrInvalidDate     = errors.New("planning: date is required")
	ErrInvalidMealType = errors.New("planning: unknown meal type")
	ErrKitchenNotFound = errors.New("planning: kitchen not found")
	ErrRecipeNotFound  = errors.New("planning: recipe not found")
	ErrMenuNotFound    = errors.New("planning: menu not found")
	ErrInvalidGhan     = errors.New("planning: ghan factor must be positive")
	ErrInvalidServings = errors.New("planning: servings must not be negative")
)

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(value string) (time.Time, error) {
	parsed, err := time.Parse(dayLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, value)
	}
	return parsed, nil
}

// FormatDay renders a date as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}

// Filter narrows Find. Empty slices mean no restriction.
type Filter struct {
	Date       time.Time
	KitchenIDs []uint
	MealTypes  []string
}

// Find returns the menus planned for filter.Date with kitchen, recipe, groups and ordered
// ingredients preloaded, ordered by kitchen name, meal type and id.
func Find(ctx context.Context, db *gorm.DB, filter Filter) ([]models.Menu, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	if filter.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	day := Day(filter.Date)
	query := preload(db.WithContext(ctx)).
		Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1))
	if len(filter.KitchenIDs) > 0 {
		query = query.Where("kitchen_id IN ?", filter.KitchenIDs)
	}
	if len(filter.MealTypes) > 0 {
		query = query.Where("meal_type IN ?", filter.MealTypes)
	}

	var menus []models.Menu
	if err := query.Order("id").Find(&menus).Error; err != nil {
		return nil, err
	}

	sort.SliceStable(menus, func(i, j int) bool {
		ki, kj := kitchenName(menus[i]), kitchenName(menus[j])
		if ki != kj {
			return ki < kj
		}
		return models.MealTypeRank(menus[i].MealType) < models.MealTypeRank(menus[j].MealType)
	})

	applog.Debug(ctx, "menus loaded", "date", FormatDay(day), "count", len(menus))
	return menus, nil
}

// Load returns a single menu with associations preloaded.
func Load(ctx context.Context, db *gorm.DB, id uint) (models.Menu, error) {
	if db == nil {
		return models.Menu{}, gorm.ErrInvalidDB
	}
	var menu models.Menu
	if err := preload(db.WithContext(ctx)).First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Menu{}, ErrMenuNotFound
		}
		return models.Menu{}, err
	}
	return menu, nil
}

func preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Kitchen").
		Preload("Recipe").
		Preload("Groups", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order, id") }).
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB { return tx.Order("position, id") })
}

func kitchenName(menu models.Menu) string {
	if menu.Kitchen == nil {
		return ""
	}
	return menu.Kitchen.Name
}

// Input describes a planned meal to create.
type Input struct {
	Date       time.Time
	KitchenID  uint
	MealType   string
	RecipeID   uint
	Servings   int
	GhanFactor decimal.Decimal
	Notes      string
	// Lines overrides the recipe's ingredient list. Nil copies the recipe.
	Lines []importer.Line
}

// Plan creates a menu entry. Unless explicit lines are given the recipe's groups and
// ingredients are copied onto the menu so later edits never touch the recipe. Servings
// default to the recipe's servings and the ghan factor defaults to 1.
func Plan(ctx context.Context, db *gorm.DB, in Input) (models.Menu, error) {
	if db == nil {
		return models.Menu{}, gorm.ErrInvalidDB
	}
	if in.Date.IsZero() {
		return models.Menu{}, ErrInvalidDate
	}
	mealType := models.NormalizeMealType(in.MealType)
	if mealType == "" {
		return models.Menu{}, fmt.Errorf("%w: %q", ErrInvalidMealType, in.MealType)
	}
	if in.Servings < 0 {
		return models.Menu{}, ErrInvalidServings
	}
	ghan := in.GhanFactor
	if ghan.IsZero() {
		ghan = decimal.NewFromInt(1)
	}
	if ghan.Sign() < 0 {
		return models.Menu{}, ErrInvalidGhan
	}

	var created models.Menu
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var kitchen models.Kitchen
		if err := tx.First(&kitchen, in.KitchenID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrKitchenNotFound
			}
			return err
		}

		var recipe models.Recipe
		if err := tx.
			Preload("Groups").
			Preload("Ingredients", func(q *gorm.DB) *gorm.DB { return q.Order("position, id") }).
			First(&recipe, in.RecipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}

		servings := in.Servings
		if servings == 0 {
			servings = recipe.Servings
		}

		recipeID := recipe.ID
		menu := models.Menu{
			Date:       Day(in.Date),
			KitchenID:  kitchen.ID,
			MealType:   mealType,
			RecipeID:   &recipeID,
			Servings:   servings,
			GhanFactor: ghan,
			Notes:      strings.TrimSpace(in.Notes),
		}
		if err := tx.Create(&menu).Error; err != nil {
			return err
		}

		if in.Lines != nil {
			if _, err := importer.ApplyTo(ctx, tx, importer.ForMenu(menu.ID), in.Lines); err != nil {
				return err
			}
		} else if err := copyRecipe(tx, recipe, menu.ID); err != nil {
			return err
		}

		created = menu
		return nil
	})
	if err != nil {
		return models.Menu{}, err
	}

	applog.Debug(ctx, "menu planned", "menu_id", created.ID, "recipe_id", in.RecipeID, "kitchen_id", in.KitchenID)
	return Load(ctx, db, created.ID)
}

func copyRecipe(tx *gorm.DB, recipe models.Recipe, menuID uint) error {
	groupIDs := make(map[uint]uint, len(recipe.Groups))
	for _, group := range recipe.Groups {
		clone := models.IngredientGroup{Name: group.Name, SortOrder: group.SortOrder, MenuID: &menuID}
		if err := tx.Create(&clone).Error; err != nil {
			return fmt.Errorf("copy group %q: %w", group.Name, err)
		}
		groupIDs[group.ID] = clone.ID
	}

	for _, ingredient := range recipe.Ingredients {
		clone := models.Ingredient{
			Name:        ingredient.Name,
			Quantity:    ingredient.Quantity,
			Unit:        ingredient.Unit,
			CostPerUnit: ingredient.CostPerUnit,
			Position:    ingredient.Position,
			MenuID:      &menuID,
		}
		if ingredient.GroupID != nil {
			if id, ok := groupIDs[*ingredient.GroupID]; ok {
				clone.GroupID = &id
			}
		}
		if err := tx.Create(&clone).Error; err != nil {
			return fmt.Errorf("copy ingredient %q: %w", ingredient.Name, err)
		}
	}
	return nil
}

// Delete removes a menu with its own groups and ingredients.
func Delete(ctx context.Context, db *gorm.DB, id uint) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Menu{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMenuNotFound
		}
		if err := tx.Unscoped().Where("menu_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("menu_id = ?", id).Delete(&models.IngredientGroup{}).Error
	})
}
