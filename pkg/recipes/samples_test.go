package recipes

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSamples(t *testing.T) {
	list, err := BuiltinSamples()
	require.NoError(t, err)
	require.Len(t, list, 3)

	burger := list[0]
	assert.Equal(t, "Smash Burger", burger.Name)
	require.NotNil(t, burger.Author)
	assert.Equal(t, "https://weeknight.example.com", burger.Author.Website)
	assert.Equal(t, "4 burger buns, toasted", burger.Ingredients[1].Display)

	sections := burger.DetailedInstructions()
	require.Len(t, sections, 3)
	assert.Equal(t, "For the sauce", sections[0].Title)
	assert.Equal(t, "Assembly Instructions", sections[2].Title)

	g := setupTestGateway(t)
	refs, err := g.SaveRecipes(context.Background(), list)
	require.NoError(t, err)
	assert.Len(t, refs, 3)
	assert.Equal(t, 1, countRows(t, g, `SELECT COUNT(*) FROM authors`))
}

func TestLoadSamples_Invalid(t *testing.T) {
	_, err := LoadSamples(strings.NewReader("recipes: [this is: not valid"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = LoadSamples(strings.NewReader(`
recipes:
  - name: Broken
    prep_time: 30
    total_time: 10
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "Broken")
}

func TestLoadSamples_GeneratesIDs(t *testing.T) {
	list, err := LoadSamples(strings.NewReader(`
recipes:
  - name: Toast
    instructions: [Toast the bread.]
    ingredients:
      - name: bread
`))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].ID)
	assert.Equal(t, "bread", list[0].Ingredients[0].Display)
}
