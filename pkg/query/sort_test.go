package query

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

func TestSortKeyOrders(t *testing.T) {
	assert.Equal(t, []SortOrder{LatestFirst, OldestFirst}, KeyCreatedOn.Orders())
	assert.Equal(t, []SortOrder{AToZ, ZToA}, KeyName.Orders())
	assert.True(t, KeyName.Valid(ZToA))
	assert.False(t, KeyName.Valid(LatestFirst))
}

func TestParseSort(t *testing.T) {
	k, err := ParseSortKey("Name")
	require.NoError(t, err)
	assert.Equal(t, KeyName, k)

	o, err := ParseSortOrder(k, "")
	require.NoError(t, err)
	assert.Equal(t, AToZ, o)

	o, err = ParseSortOrder(k, "z-a")
	require.NoError(t, err)
	assert.Equal(t, ZToA, o)

	_, err = ParseSortOrder(k, "latest")
	assert.Error(t, err)

	_, err = ParseSortKey("rating")
	assert.Error(t, err)
}

func TestListOptions(t *testing.T) {
	opts := listOptions("pie", KeyName, ZToA)
	assert.Equal(t, recipes.ListOptions{Term: "pie", Sort: recipes.SortName, Descending: true}, opts)

	opts = listOptions("", KeyCreatedOn, LatestFirst)
	assert.Equal(t, recipes.ListOptions{Sort: recipes.SortCreatedOn, Descending: true}, opts)
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Value

	for _, s := range []string{"b", "bu", "bur"} {
		s := s
		d.Trigger(func() {
			calls.Add(1)
			last.Store(s)
		})
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "bur", last.Load())

	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_ZeroDelayRunsInline(t *testing.T) {
	d := NewDebouncer(0)
	ran := false
	d.Trigger(func() { ran = true })
	assert.True(t, ran)
}
