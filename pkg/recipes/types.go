package recipes

import (
	"encoding/json"
	"time"
)

// Author is the person or site a recipe was taken from. The (Name, Website)
// pair is unique in the store.
type Author struct {
	Name    string `json:"name" validate:"notblank"`
	Website string `json:"website"`
}

// Category is a normalized tag such as "Dinner".
type Category struct {
	Name string `json:"name" validate:"notblank"`
}

// Cuisine is a normalized tag such as "Italian".
type Cuisine struct {
	Name string `json:"name" validate:"notblank"`
}

// BaseIngredient is the normalized name an Ingredient refers to ("flour").
type BaseIngredient struct {
	Name string `json:"name" validate:"notblank"`
}

// Ingredient is one line of a recipe's ingredient list. It belongs to exactly
// one Recipe and is deleted with it.
type Ingredient struct {
	ID       string         `json:"id,omitempty"`
	Base     BaseIngredient `json:"base_ingredient"`
	Quantity *string        `json:"quantity,omitempty"`
	Method   *string        `json:"method,omitempty"`
	Display  string         `json:"display,omitempty"`
}

// Recipe is the central entity. Times are whole minutes.
type Recipe struct {
	ID             string       `json:"id" validate:"notblank"`
	Name           string       `json:"name" validate:"notblank"`
	Author         *Author      `json:"author,omitempty"`
	Categories     []Category   `json:"categories" validate:"dive"`
	Cuisines       []Cuisine    `json:"cuisines" validate:"dive"`
	Detail         string       `json:"detail"`
	PrepTime       int          `json:"prep_time" validate:"gte=0"`
	TotalTime      int          `json:"total_time" validate:"gte=0,gtefield=PrepTime"`
	Instructions   []string     `json:"instructions"`
	Ingredients    []Ingredient `json:"ingredients" validate:"dive"`
	Display        string       `json:"display"`
	Image          string       `json:"image,omitempty"`
	SourceURL      string       `json:"source_url,omitempty"`
	CreatedOn      time.Time    `json:"created_on"`
	ModifiedOn     time.Time    `json:"modified_on"`
	Favorite       bool         `json:"favorite"`
	TimesCompleted int          `json:"times_completed" validate:"gte=0"`
}

// UnmarshalJSON accepts the ISO-8601 variants the parse service emits,
// including timestamps without a zone offset.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type plain Recipe
	aux := struct {
		*plain
		CreatedOn  isoTime `json:"created_on"`
		ModifiedOn isoTime `json:"modified_on"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.CreatedOn = aux.CreatedOn.Time
	r.ModifiedOn = aux.ModifiedOn.Time
	return nil
}

// RecipeWeekMenu plans a recipe for a calendar day. RecipeID becomes nil
// when the recipe is deleted.
type RecipeWeekMenu struct {
	ID        string    `json:"id,omitempty"`
	RecipeID  *string   `json:"recipe_id"`
	Date      time.Time `json:"date"`
	CreatedOn time.Time `json:"created_on"`
}

func (m *RecipeWeekMenu) UnmarshalJSON(data []byte) error {
	type plain RecipeWeekMenu
	aux := struct {
		*plain
		Date      isoTime `json:"date"`
		CreatedOn isoTime `json:"created_on"`
	}{plain: (*plain)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.Date = aux.Date.Time
	m.CreatedOn = aux.CreatedOn.Time
	return nil
}

// MenuItem is a week menu entry joined with the name of its recipe.
// RecipeName is empty when the recipe no longer exists.
type MenuItem struct {
	RecipeWeekMenu
	RecipeName string `json:"recipe_name,omitempty"`
}

// TagUsage reports a normalized tag and how many recipes use it.
type TagUsage struct {
	Name    string `json:"name"`
	Recipes int    `json:"recipes"`
}

// AuthorUsage reports an author row and how many recipes reference it.
type AuthorUsage struct {
	Author
	Recipes int `json:"recipes"`
}
