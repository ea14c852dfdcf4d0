package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unowned-ai/recipebox/pkg/db"
	"github.com/unowned-ai/recipebox/pkg/recipes"
)

func setupGateway(t *testing.T, names ...string) (*recipes.Gateway, []recipes.Reference) {
	t.Helper()
	conn, err := db.Open(":memory:", false, "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	g := recipes.NewGateway(conn, zap.NewNop())
	var refs []recipes.Reference
	for i, name := range names {
		ref, err := g.SaveRecipe(context.Background(), recipes.Recipe{
			ID:   string(rune('a' + i)),
			Name: name,
		})
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	return g, refs
}

func viewNames(t *testing.T, v *View) []string {
	t.Helper()
	var out []string
	for r, err := range v.Recipes(context.Background()) {
		require.NoError(t, err)
		out = append(out, r.Name)
	}
	return out
}

func waitForChange(t *testing.T, v *View) {
	t.Helper()
	select {
	case <-v.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal")
	}
}

func drain(v *View) {
	for {
		select {
		case <-v.Changes():
		default:
			return
		}
	}
}

func TestView_FilterAndSortComposition(t *testing.T) {
	g, _ := setupGateway(t, "Burger", "Burrito", "Apple Pie")
	v := NewView(g, 0)
	defer v.Close()

	v.SelectKey(KeyName)
	v.SetTerm("bur")
	assert.Equal(t, []string{"Burger", "Burrito"}, viewNames(t, v))

	v.SetTerm("")
	assert.Equal(t, []string{"Apple Pie", "Burger", "Burrito"}, viewNames(t, v))

	require.NoError(t, v.SetOrder(ZToA))
	assert.Equal(t, []string{"Burrito", "Burger", "Apple Pie"}, viewNames(t, v))
}

func TestView_DefaultsToLatestFirst(t *testing.T) {
	g, _ := setupGateway(t, "Burger", "Burrito", "Apple Pie")
	v := NewView(g, 0)
	defer v.Close()

	term, key, order := v.State()
	assert.Empty(t, term)
	assert.Equal(t, KeyCreatedOn, key)
	assert.Equal(t, LatestFirst, order)
	assert.Equal(t, []string{"Apple Pie", "Burrito", "Burger"}, viewNames(t, v))

	require.NoError(t, v.SetOrder(OldestFirst))
	assert.Equal(t, []string{"Burger", "Burrito", "Apple Pie"}, viewNames(t, v))
}

func TestView_SelectKeyResetsOrder(t *testing.T) {
	g, _ := setupGateway(t)
	v := NewView(g, 0)
	defer v.Close()

	require.NoError(t, v.SetOrder(OldestFirst))
	v.SelectKey(KeyName)
	_, _, order := v.State()
	assert.Equal(t, AToZ, order)

	require.NoError(t, v.SetOrder(ZToA))
	v.SelectKey(KeyCreatedOn)
	_, _, order = v.State()
	assert.Equal(t, LatestFirst, order)

	err := v.SetOrder(AToZ)
	var invalid *InvalidOrderError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, KeyCreatedOn, invalid.Key)
	_, _, order = v.State()
	assert.Equal(t, LatestFirst, order)
}

func TestView_FollowsStoreChanges(t *testing.T) {
	g, refs := setupGateway(t, "Burger")
	v := NewView(g, 0)
	defer v.Close()

	seq := v.All(context.Background())
	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 1, count())

	drain(v)
	_, err := g.SaveRecipe(context.Background(), recipes.Recipe{ID: "z", Name: "Burrito"})
	require.NoError(t, err)
	waitForChange(t, v)
	assert.Equal(t, 2, count(), "ranging the same sequence again sees the insert")

	drain(v)
	_, err = g.ToggleFavorite(context.Background(), refs[0])
	require.NoError(t, err)
	waitForChange(t, v)

	r, err := g.Resolve(context.Background(), refs[0])
	require.NoError(t, err)
	assert.True(t, r.Favorite)
}

func TestView_InputChangesSignal(t *testing.T) {
	g, _ := setupGateway(t)
	v := NewView(g, 0)
	defer v.Close()

	drain(v)
	v.SetTerm("pie")
	waitForChange(t, v)

	v.SetTerm("pie")
	select {
	case <-v.Changes():
		t.Fatal("same term should not signal")
	default:
	}

	v.SelectKey(KeyName)
	waitForChange(t, v)
	require.NoError(t, v.SetOrder(ZToA))
	waitForChange(t, v)
}

func TestView_DebouncedSearch(t *testing.T) {
	g, _ := setupGateway(t, "Burger", "Burrito", "Apple Pie")
	v := NewView(g, 50*time.Millisecond)
	defer v.Close()
	v.SelectKey(KeyName)
	drain(v)

	v.Search("a")
	v.Search("ap")
	v.Search("app")

	term, _, _ := v.State()
	assert.Empty(t, term, "term is not applied before the window passes")

	waitForChange(t, v)
	term, _, _ = v.State()
	assert.Equal(t, "app", term)
	assert.Equal(t, []string{"Apple Pie"}, viewNames(t, v))
}

func TestView_Page(t *testing.T) {
	g, _ := setupGateway(t, "A", "B", "C", "D", "E")
	v := NewView(g, 0)
	defer v.Close()
	v.SelectKey(KeyName)

	refs, err := v.Page(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "b", refs[0].ID())
	assert.Equal(t, "c", refs[1].ID())

	all, err := v.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestView_EarlyBreak(t *testing.T) {
	g, _ := setupGateway(t, "A", "B", "C")
	v := NewView(g, 0)
	defer v.Close()

	n := 0
	for range v.All(context.Background()) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestView_ListError(t *testing.T) {
	g, _ := setupGateway(t, "A")
	v := NewView(g, 0)
	defer v.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var gotErr error
	for _, err := range v.All(ctx) {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, context.Canceled)
}
