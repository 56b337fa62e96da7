package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kitchenops/internal/importer"
	applog "kitchenops/internal/log"
	"kitchenops/internal/planning"
	"kitchenops/models"
)

const (
	// Email and Password sign in to the seeded account.
	Email    = "chef@kitchenops.app"
	Password = "mise"
)

var instances atomic.Int64

var nowFunc = time.Now

type seedRecipe struct {
	name        string
	category    string
	servings    int
	description string
	lines       string
}

var recipes = []seedRecipe{
	{
		name:        "Kanda Poha",
		category:    "Breakfast",
		servings:    60,
		description: "Flattened rice tempered with mustard, curry leaves and onion.",
		lines: `Poha, 3, kg, 48
Peanuts, 0.5, kg, 140
# Tadka
Oil, 0.3, l, 160
Mustard seeds, 0.05, kg, 200
Curry leaves, 0.05, kg, 120
Onion, 2, kg, 30
# Garnish
Coriander, 0.2, kg, 80
Lemon, 12, pcs, 5`,
	},
	{
		name:        "Dal Tadka",
		category:    "Mains",
		servings:    100,
		description: "Yellow lentils finished with a ghee and cumin tadka.",
		lines: `# Dal
Toor dal, 4, kg, 140
Turmeric, 0.02, kg, 300
Salt, 0.15, kg, 20
# Tadka
Ghee, 0.4, kg, 600
Cumin, 0.05, kg, 400
Onion, 1.5, kg, 30
Tomato, 2, kg, 40`,
	},
	{
		name:        "Jeera Rice",
		category:    "Mains",
		servings:    100,
		description: "Basmati rice with whole cumin.",
		lines: `Basmati rice, 6, kg, 95
Ghee, 0.2, kg, 600
Cumin, 0.04, kg, 400
Salt, 0.08, kg, 20`,
	},
	{
		name:        "Masala Chai",
		category:    "Beverages",
		servings:    50,
		description: "Spiced milk tea.",
		lines: `Milk, 6, l, 58
Tea leaves, 0.2, kg, 450
Sugar, 0.6, kg, 44
# Masala
Ginger, 0.1, kg, 120
Cardamom, 0.01, kg, 2400`,
	},
}

// New returns an in-memory sqlite database seeded with a day of kitchen operations.
// Every call gets its own database.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:kitchenops-mock-%d?mode=memory&cache=shared", instances.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         "Asha Kulkarni",
		Email:        Email,
		PasswordHash: string(password),
		Theme:        models.DefaultTheme,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	central := models.Kitchen{Name: "Central Kitchen", Location: "Block A, ground floor", Active: true}
	annexe := models.Kitchen{Name: "Hostel Annexe", Location: "North campus", Active: true}
	for _, kitchen := range []*models.Kitchen{&central, &annexe} {
		if err := db.WithContext(ctx).Create(kitchen).Error; err != nil {
			return err
		}
	}

	byName := make(map[string]uint, len(recipes))
	for _, sr := range recipes {
		recipe := models.Recipe{
			Name:        sr.name,
			Category:    sr.category,
			Servings:    sr.servings,
			Description: sr.description,
		}
		if err := db.WithContext(ctx).Create(&recipe).Error; err != nil {
			return err
		}
		lines, warnings := importer.ParseLines(sr.lines)
		if len(warnings) > 0 {
			return fmt.Errorf("seed recipe %q: %v", sr.name, warnings)
		}
		if _, err := importer.Apply(ctx, db, &recipe, lines); err != nil {
			return err
		}
		byName[sr.name] = recipe.ID
	}

	today := planning.Day(nowFunc())
	plans := []planning.Input{
		{KitchenID: central.ID, MealType: models.MealTypeBreakfast, RecipeID: byName["Kanda Poha"], Servings: 120, GhanFactor: decimal.NewFromInt(2)},
		{KitchenID: central.ID, MealType: models.MealTypeLunch, RecipeID: byName["Dal Tadka"], Servings: 150, GhanFactor: decimal.NewFromFloat(1.5)},
		{KitchenID: central.ID, MealType: models.MealTypeLunch, RecipeID: byName["Jeera Rice"], Servings: 150, GhanFactor: decimal.NewFromFloat(1.5)},
		{KitchenID: central.ID, MealType: models.MealTypeSnacks, RecipeID: byName["Masala Chai"], Servings: 100, GhanFactor: decimal.NewFromInt(2)},
		{KitchenID: annexe.ID, MealType: models.MealTypeBreakfast, RecipeID: byName["Masala Chai"], Servings: 50},
		{KitchenID: annexe.ID, MealType: models.MealTypeDinner, RecipeID: byName["Dal Tadka"], Servings: 80, GhanFactor: decimal.NewFromFloat(0.8)},
		{KitchenID: annexe.ID, MealType: models.MealTypeDinner, RecipeID: byName["Jeera Rice"], Servings: 80, GhanFactor: decimal.NewFromFloat(0.8)},
	}
	for _, plan := range plans {
		plan.Date = today
		if _, err := planning.Plan(ctx, db, plan); err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded", "recipes", len(recipes), "menus", len(plans))
	return nil
}
