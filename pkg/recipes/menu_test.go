package recipes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekOf(t *testing.T) {
	// 2024-03-06 is a Wednesday.
	monday, sunday := WeekOf(time.Date(2024, 3, 6, 18, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), monday)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), sunday)

	monday, _ = WeekOf(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), monday)
}

func TestPlanRecipe(t *testing.T) {
	g := setupTestGateway(t)
	ctx := context.Background()

	_, err := g.SaveRecipes(ctx, []Recipe{testRecipe("r1", "Burger"), testRecipe("r2", "Burrito")})
	require.NoError(t, err)

	tue := time.Date(2024, 3, 5, 19, 0, 0, 0, time.UTC)
	first, err := g.PlanRecipe(ctx, "r1", tue)
	require.NoError(t, err)
	require.NotNil(t, first.RecipeID)
	assert.Equal(t, "r1", *first.RecipeID)
	assert.Equal(t, Day(tue), first.Date)

	again, err := g.PlanRecipe(ctx, "r1", tue.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "same recipe on the same day is one entry")

	_, err = g.PlanRecipe(ctx, "r2", tue)
	require.NoError(t, err)
	// Next Monday is outside the week.
	_, err = g.PlanRecipe(ctx, "r2", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	menu, err := g.WeekMenu(ctx, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, "Burger", menu[0].RecipeName)
	assert.Equal(t, "Burrito", menu[1].RecipeName)

	_, err = g.PlanRecipe(ctx, "missing", tue)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	_, err = g.PlanRecipe(ctx, "r1", time.Time{})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSave_WeekMenuPayload(t *testing.T) {
	g := setupTestGateway(t)
	ctx := context.Background()

	_, err := g.SaveRecipe(ctx, testRecipe("r1", "Burger"))
	require.NoError(t, err)

	ref, err := g.Save(ctx, []byte(`{"recipe_id": "r1", "date": "2024-03-05"}`), KindWeekMenu)
	require.NoError(t, err)
	assert.Equal(t, KindWeekMenu, ref.Kind())

	_, err = g.Save(ctx, []byte(`{"date": "2024-03-05"}`), KindWeekMenu)
	assert.ErrorIs(t, err, ErrDecode)

	require.NoError(t, g.RemoveFromMenu(ctx, ref))
	err = g.RemoveFromMenu(ctx, ref)
	assert.ErrorIs(t, err, ErrMenuEntryNotFound)

	err = g.RemoveFromMenu(ctx, RecipeRef("r1"))
	assert.Error(t, err)
	assert.Contains(t, fmt.Sprint(err), "week menu")
}
