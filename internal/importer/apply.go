package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kitchenops/models"
)

// ErrUnsavedOwner is returned when lines are applied to an owner without an id.
var ErrUnsavedOwner = errors.New("importer: recipe or menu must be saved first")

// Owner is the recipe or menu whose ingredient list is written. Exactly one id is set.
type Owner struct {
	RecipeID *uint
	MenuID   *uint
}

// ForRecipe returns the owner for a saved recipe.
func ForRecipe(id uint) Owner {
	return Owner{RecipeID: &id}
}

// ForMenu returns the owner for a saved menu.
func ForMenu(id uint) Owner {
	return Owner{MenuID: &id}
}

// Valid reports whether exactly one non-zero owner id is set.
func (o Owner) Valid() bool {
	switch {
	case o.RecipeID != nil && o.MenuID == nil:
		return *o.RecipeID != 0
	case o.MenuID != nil && o.RecipeID == nil:
		return *o.MenuID != 0
	default:
		return false
	}
}

// Scope restricts db to rows belonging to the owner.
func (o Owner) Scope(db *gorm.DB) *gorm.DB {
	if o.RecipeID != nil {
		return db.Where("recipe_id = ?", *o.RecipeID)
	}
	return db.Where("menu_id = ?", *o.MenuID)
}

// Result summarises what Apply wrote.
type Result struct {
	GroupsCreated int
	Ingredients   int
}

// GroupNameTaken reports whether owner already has a group called name. The group with id
// except is ignored so a rename to the same name passes.
func GroupNameTaken(ctx context.Context, tx *gorm.DB, owner Owner, name string, except uint) (bool, error) {
	if !owner.Valid() {
		return false, ErrUnsavedOwner
	}
	query := owner.Scope(tx.WithContext(ctx).Model(&models.IngredientGroup{})).Where("name = ?", name)
	if except != 0 {
		query = query.Where("id <> ?", except)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Apply appends lines to recipe inside tx.
func Apply(ctx context.Context, tx *gorm.DB, recipe *models.Recipe, lines []Line) (Result, error) {
	if recipe == nil || recipe.ID == 0 {
		return Result{}, ErrUnsavedOwner
	}
	return ApplyTo(ctx, tx, ForRecipe(recipe.ID), lines)
}

// ApplyTo appends lines to owner's ingredient list. Groups are matched by name and created
// when missing; new groups take sort orders after the existing ones in order of first
// appearance unless a line carries an explicit group order. Ingredient positions continue
// after the last existing position.
func ApplyTo(ctx context.Context, tx *gorm.DB, owner Owner, lines []Line) (Result, error) {
	if !owner.Valid() {
		return Result{}, ErrUnsavedOwner
	}
	db := tx.WithContext(ctx)

	var groups []models.IngredientGroup
	if err := owner.Scope(db).Order("sort_order").Find(&groups).Error; err != nil {
		return Result{}, fmt.Errorf("load groups: %w", err)
	}
	byName := make(map[string]uint, len(groups))
	nextOrder := 0
	for _, g := range groups {
		byName[g.Name] = g.ID
		if g.SortOrder >= nextOrder {
			nextOrder = g.SortOrder + 1
		}
	}

	var maxPosition sql.NullInt64
	if err := owner.Scope(db.Model(&models.Ingredient{})).
		Select("MAX(position)").Row().Scan(&maxPosition); err != nil {
		return Result{}, fmt.Errorf("load positions: %w", err)
	}
	position := 0
	if maxPosition.Valid {
		position = int(maxPosition.Int64) + 1
	}

	var result Result
	for _, line := range lines {
		var groupID *uint
		if line.Group != "" {
			id, ok := byName[line.Group]
			if !ok {
				order := nextOrder
				if line.GroupOrder != nil {
					order = *line.GroupOrder
				}
				group := models.IngredientGroup{
					Name:      line.Group,
					SortOrder: order,
					RecipeID:  owner.RecipeID,
					MenuID:    owner.MenuID,
				}
				if err := db.Create(&group).Error; err != nil {
					return Result{}, fmt.Errorf("create group %q: %w", line.Group, err)
				}
				if order >= nextOrder {
					nextOrder = order + 1
				}
				id = group.ID
				byName[line.Group] = id
				result.GroupsCreated++
			}
			groupID = &id
		}

		ingredient := models.Ingredient{
			Name:        line.Name,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			CostPerUnit: line.CostPerUnit,
			Position:    position,
			GroupID:     groupID,
			RecipeID:    owner.RecipeID,
			MenuID:      owner.MenuID,
		}
		if err := db.Create(&ingredient).Error; err != nil {
			return Result{}, fmt.Errorf("create ingredient %q: %w", line.Name, err)
		}
		position++
		result.Ingredients++
	}

	return result, nil
}

// Replace removes the recipe's groups and ingredients and applies lines in their place.
func Replace(ctx context.Context, tx *gorm.DB, recipe *models.Recipe, lines []Line) (Result, error) {
	if recipe == nil || recipe.ID == 0 {
		return Result{}, ErrUnsavedOwner
	}
	db := tx.WithContext(ctx)
	if err := db.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(&models.Ingredient{}).Error; err != nil {
		return Result{}, fmt.Errorf("clear ingredients: %w", err)
	}
	if err := db.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientGroup{}).Error; err != nil {
		return Result{}, fmt.Errorf("clear groups: %w", err)
	}
	return Apply(ctx, tx, recipe, lines)
}
