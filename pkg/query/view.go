package query

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// search term is applied.
const DefaultDebounce = 500 * time.Millisecond

// Source is the store a View reads. *recipes.Gateway satisfies it.
type Source interface {
	List(ctx context.Context, opts recipes.ListOptions) ([]recipes.Reference, error)
	Resolve(ctx context.Context, ref recipes.Reference) (recipes.Recipe, error)
	Subscribe() (<-chan struct{}, func())
}

// View is a live, ordered and filtered listing of recipes.
//
// It recomputes from four inputs: the applied search term, the sort key,
// the sort order and the store's row set. Each change to any of them sends
// one coalesced signal on Changes. Reading the view (All, Snapshot, Page)
// always queries the store with the current inputs, so iterating again
// after a signal yields the new result.
type View struct {
	src Source

	mu    sync.Mutex
	term  string
	key   SortKey
	order SortOrder

	debouncer   *Debouncer
	changes     chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
}

// NewView starts a view ordered latest first with no filter. Close it to
// stop following the store.
func NewView(src Source, debounce time.Duration) *View {
	storeChanges, unsubscribe := src.Subscribe()
	v := &View{
		src:         src,
		key:         KeyCreatedOn,
		order:       validOrders[KeyCreatedOn][0],
		debouncer:   NewDebouncer(debounce),
		changes:     make(chan struct{}, 1),
		unsubscribe: unsubscribe,
	}
	go func() {
		for range storeChanges {
			v.signal()
		}
	}()
	return v
}

// Changes delivers a signal whenever the view's result may have changed.
func (v *View) Changes() <-chan struct{} { return v.changes }

// Close stops following the store and drops a pending search term.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		v.debouncer.Stop()
		v.unsubscribe()
	})
}

// Search records keyboard input. The term is applied once input has been
// quiet for the debounce window.
func (v *View) Search(text string) {
	v.debouncer.Trigger(func() { v.SetTerm(text) })
}

// SetTerm applies a search term immediately. Surrounding space is ignored
// and an empty term clears the filter.
func (v *View) SetTerm(term string) {
	term = strings.TrimSpace(term)
	v.mu.Lock()
	changed := v.term != term
	v.term = term
	v.mu.Unlock()
	if changed {
		v.signal()
	}
}

// SelectKey switches the sort key and resets the order to the key's first
// valid order.
func (v *View) SelectKey(k SortKey) {
	v.mu.Lock()
	changed := v.key != k
	v.key = k
	if orders := validOrders[k]; len(orders) > 0 {
		changed = changed || v.order != orders[0]
		v.order = orders[0]
	}
	v.mu.Unlock()
	if changed {
		v.signal()
	}
}

// SetOrder changes the direction. It fails when o is not valid for the
// current key.
func (v *View) SetOrder(o SortOrder) error {
	v.mu.Lock()
	if !v.key.Valid(o) {
		k := v.key
		v.mu.Unlock()
		return &InvalidOrderError{Key: k, Order: o}
	}
	changed := v.order != o
	v.order = o
	v.mu.Unlock()
	if changed {
		v.signal()
	}
	return nil
}

// State returns the current inputs.
func (v *View) State() (term string, key SortKey, order SortOrder) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.term, v.key, v.order
}

// All yields references in view order. The sequence can be ranged over any
// number of times; each pass reads the store afresh.
func (v *View) All(ctx context.Context) iter.Seq2[recipes.Reference, error] {
	return func(yield func(recipes.Reference, error) bool) {
		refs, err := v.page(ctx, 0, 0)
		if err != nil {
			yield(recipes.Reference{}, err)
			return
		}
		for _, ref := range refs {
			if !yield(ref, nil) {
				return
			}
		}
	}
}

// Recipes resolves each reference of All. A recipe deleted between listing
// and resolving is skipped.
func (v *View) Recipes(ctx context.Context) iter.Seq2[recipes.Recipe, error] {
	return func(yield func(recipes.Recipe, error) bool) {
		for ref, err := range v.All(ctx) {
			if err != nil {
				yield(recipes.Recipe{}, err)
				return
			}
			r, err := v.src.Resolve(ctx, ref)
			if errors.Is(err, recipes.ErrRecipeNotFound) {
				continue
			}
			if !yield(r, err) || err != nil {
				return
			}
		}
	}
}

// Snapshot collects the current result.
func (v *View) Snapshot(ctx context.Context) ([]recipes.Reference, error) {
	return v.page(ctx, 0, 0)
}

// Page returns up to limit references starting at offset. limit <= 0 means
// the rest of the result.
func (v *View) Page(ctx context.Context, offset, limit int) ([]recipes.Reference, error) {
	return v.page(ctx, offset, limit)
}

func (v *View) page(ctx context.Context, offset, limit int) ([]recipes.Reference, error) {
	term, key, order := v.State()
	opts := listOptions(term, key, order)
	opts.Offset = offset
	opts.Limit = limit
	return v.src.List(ctx, opts)
}

func (v *View) signal() {
	select {
	case v.changes <- struct{}{}:
	default:
	}
}

// InvalidOrderError is returned by SetOrder.
type InvalidOrderError struct {
	Key   SortKey
	Order SortOrder
}

func (e *InvalidOrderError) Error() string {
	return "sort order " + e.Order.String() + " is not valid for key " + e.Key.String()
}
