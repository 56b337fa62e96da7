package aggregate

import (
	"fmt"
	"sort"

	"kitchenops/models"
)

const (
	// UngroupedLabel is the display name of the implicit bucket.
	UngroupedLabel = "Ungrouped"
	// UngroupedSortOrder is the conventional sort order callers store for the implicit bucket.
	// The grouper never relies on it.
	UngroupedSortOrder = 999
)

// GroupRef identifies the bucket an ingredient belongs to: either a named group or the
// implicit ungrouped bucket.
type GroupRef struct {
	id    uint
	named bool
}

// Named refers to the persisted group with the given id.
func Named(id uint) GroupRef {
	return GroupRef{id: id, named: true}
}

// Ungrouped refers to the implicit catch-all bucket.
func Ungrouped() GroupRef {
	return GroupRef{}
}

// RefFor converts a nullable group reference into a GroupRef.
func RefFor(groupID *uint) GroupRef {
	if groupID == nil {
		return Ungrouped()
	}
	return Named(*groupID)
}

// IsUngrouped reports whether g is the implicit bucket.
func (g GroupRef) IsUngrouped() bool {
	return !g.named
}

// ID returns the group id and true for named groups.
func (g GroupRef) ID() (uint, bool) {
	return g.id, g.named
}

// Pointer returns the nullable column value for g.
func (g GroupRef) Pointer() *uint {
	if !g.named {
		return nil
	}
	id := g.id
	return &id
}

func (g GroupRef) String() string {
	if !g.named {
		return "ungrouped"
	}
	return fmt.Sprintf("group:%d", g.id)
}

// Bucket is one display section of an ingredient list.
type Bucket struct {
	Ref         GroupRef
	Name        string
	SortOrder   int
	Ingredients []models.Ingredient
}

// Buckets is the ordered output of GroupIngredients. Named groups come first, the
// ungrouped bucket is always the final element.
type Buckets []Bucket

// ByName returns the named group with the given display name. Use Ungrouped to reach the
// implicit bucket; a user group that happens to be called "Ungrouped" is returned here.
func (b Buckets) ByName(name string) (Bucket, bool) {
	for _, bucket := range b {
		if !bucket.Ref.IsUngrouped() && bucket.Name == name {
			return bucket, true
		}
	}
	return Bucket{}, false
}

// Ungrouped returns the implicit bucket.
func (b Buckets) Ungrouped() Bucket {
	for _, bucket := range b {
		if bucket.Ref.IsUngrouped() {
			return bucket
		}
	}
	return Bucket{Ref: Ungrouped(), Name: UngroupedLabel, SortOrder: UngroupedSortOrder, Ingredients: []models.Ingredient{}}
}

// Names lists the display names in output order.
func (b Buckets) Names() []string {
	names := make([]string, 0, len(b))
	for _, bucket := range b {
		names = append(names, bucket.Name)
	}
	return names
}

// Count returns the number of ingredients across all buckets.
func (b Buckets) Count() int {
	total := 0
	for _, bucket := range b {
		total += len(bucket.Ingredients)
	}
	return total
}

// GroupIngredients partitions ingredients into the supplied groups.
//
// Every group appears in the result even when it has no ingredients. Ingredients whose group
// id is null or unknown land in the ungrouped bucket, which is always present and always last.
// Named groups are ordered by SortOrder, then by case-sensitive name, then by id. Within a
// bucket the input order is kept.
func GroupIngredients(ingredients []models.Ingredient, groups []models.IngredientGroup) Buckets {
	ordered := make([]models.IngredientGroup, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SortOrder != ordered[j].SortOrder {
			return ordered[i].SortOrder < ordered[j].SortOrder
		}
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].ID < ordered[j].ID
	})

	buckets := make(Buckets, 0, len(ordered)+1)
	positions := make(map[uint]int, len(ordered))
	for _, group := range ordered {
		if _, seen := positions[group.ID]; seen {
			continue
		}
		positions[group.ID] = len(buckets)
		buckets = append(buckets, Bucket{
			Ref:         Named(group.ID),
			Name:        group.Name,
			SortOrder:   group.SortOrder,
			Ingredients: []models.Ingredient{},
		})
	}

	ungrouped := Bucket{
		Ref:         Ungrouped(),
		Name:        UngroupedLabel,
		SortOrder:   UngroupedSortOrder,
		Ingredients: []models.Ingredient{},
	}

	for _, ingredient := range ingredients {
		if ingredient.GroupID != nil {
			if pos, ok := positions[*ingredient.GroupID]; ok {
				buckets[pos].Ingredients = append(buckets[pos].Ingredients, ingredient)
				continue
			}
		}
		ungrouped.Ingredients = append(ungrouped.Ingredients, ingredient)
	}

	return append(buckets, ungrouped)
}
