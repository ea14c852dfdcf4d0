package recipes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionInstructions(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []InstructionSection
	}{
		{
			name:  "prefix and suffix headers",
			lines: []string{"For the Sauce", "Mix", "Heat", "Assembly Instructions", "Plate"},
			want: []InstructionSection{
				{Title: "For the Sauce", Steps: []string{"Mix", "Heat"}},
				{Title: "Assembly Instructions", Steps: []string{"Plate"}},
			},
		},
		{
			name:  "no headers",
			lines: []string{"Mix", "Bake"},
			want:  []InstructionSection{{Title: DefaultSectionTitle, Steps: []string{"Mix", "Bake"}}},
		},
		{
			name:  "empty",
			lines: nil,
			want:  []InstructionSection{{Title: DefaultSectionTitle, Steps: []string{}}},
		},
		{
			name:  "lines before first header",
			lines: []string{"Preheat the oven", "For the crust", "Mix"},
			want: []InstructionSection{
				{Title: DefaultSectionTitle, Steps: []string{"Preheat the oven"}},
				{Title: "For the crust", Steps: []string{"Mix"}},
			},
		},
		{
			name:  "consecutive headers",
			lines: []string{"Crust Instructions", "Filling Instructions", "Stir"},
			want: []InstructionSection{
				{Title: "Crust Instructions", Steps: []string{}},
				{Title: "Filling Instructions", Steps: []string{"Stir"}},
			},
		},
		{
			name:  "header match is case sensitive",
			lines: []string{"for the sauce", "see instructions"},
			want:  []InstructionSection{{Title: DefaultSectionTitle, Steps: []string{"for the sauce", "see instructions"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SectionInstructions(tt.lines))
		})
	}
}

func TestRecipeDerivedValues(t *testing.T) {
	r := Recipe{
		PrepTime:   15,
		TotalTime:  45,
		Image:      "https://img.example.com/pie.jpg",
		Categories: []Category{{Name: "Dinner"}, {Name: "Lunch"}},
		Cuisines:   []Cuisine{{Name: "Italian"}},
	}

	assert.Equal(t, 15*time.Minute, r.PrepDuration())
	assert.Equal(t, 45*time.Minute, r.TotalDuration())
	assert.Equal(t, 30*time.Minute, r.CookDuration())
	require.NotNil(t, r.ImageURL())
	assert.Equal(t, "img.example.com", r.ImageURL().Host)
	assert.Equal(t, "Dinner, Lunch", r.CategoryLabel())
	assert.Equal(t, "Italian", r.CuisineLabel())

	r.Image = "not a url"
	assert.Nil(t, r.ImageURL())
	r.Image = ""
	assert.Nil(t, r.ImageURL())
}

func TestRenderIngredient(t *testing.T) {
	assert.Equal(t, "2 cups flour, sifted", RenderIngredient("flour", strPtr("2 cups"), strPtr("sifted")))
	assert.Equal(t, "salt", RenderIngredient("salt", nil, nil))
	assert.Equal(t, "1 egg", RenderIngredient("egg", strPtr(" 1 "), strPtr("")))

	ing := Ingredient{Base: BaseIngredient{Name: "sugar"}, Display: "a pinch of sugar"}
	assert.Equal(t, "a pinch of sugar", ing.Label())
}

func TestRecipeJSONRoundTrip(t *testing.T) {
	original := testRecipe("r1", "Burger")
	original.SourceURL = "https://weeknight.example.com/burger"
	original.Favorite = true
	original.TimesCompleted = 3
	original.Ingredients[0].ID = "i1"
	original.Ingredients[1].ID = "i2"
	original.CreatedOn = time.Date(2024, 3, 4, 12, 30, 0, 123456789, time.UTC)
	original.ModifiedOn = original.CreatedOn.Add(time.Hour)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"prep_time":10`)
	assert.Contains(t, string(data), `"base_ingredient":{"name":"flour"}`)

	var decoded Recipe
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestRecipeUnmarshal_NaiveTimestamps(t *testing.T) {
	payload := []byte(`{
		"id": "r1",
		"name": "Pie",
		"created_on": "2024-03-04T12:30:00.5",
		"modified_on": null
	}`)

	var r Recipe
	require.NoError(t, json.Unmarshal(payload, &r))
	assert.Equal(t, time.Date(2024, 3, 4, 12, 30, 0, 500000000, time.UTC), r.CreatedOn)
	assert.True(t, r.ModifiedOn.IsZero())
}
