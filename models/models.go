package models

// AllModels returns every model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Kitchen{},
		&Recipe{},
		&Menu{},
		&IngredientGroup{},
		&Ingredient{},
	}
}
