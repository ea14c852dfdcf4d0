// Package query keeps an ordered, optionally filtered view over stored
// recipes that follows the store as it changes.
package query

import (
	"fmt"
	"strings"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

// SortKey is what the view is ordered by.
type SortKey int

const (
	KeyCreatedOn SortKey = iota
	KeyName
)

// SortOrder is a direction valid for one SortKey.
type SortOrder int

const (
	LatestFirst SortOrder = iota
	OldestFirst
	AToZ
	ZToA
)

var validOrders = map[SortKey][]SortOrder{
	KeyCreatedOn: {LatestFirst, OldestFirst},
	KeyName:      {AToZ, ZToA},
}

// Orders lists the orderings valid for k. The first one is the default.
func (k SortKey) Orders() []SortOrder {
	return append([]SortOrder(nil), validOrders[k]...)
}

// Valid reports whether o can be used with k.
func (k SortKey) Valid(o SortOrder) bool {
	for _, v := range validOrders[k] {
		if v == o {
			return true
		}
	}
	return false
}

func (k SortKey) String() string {
	switch k {
	case KeyCreatedOn:
		return "created"
	case KeyName:
		return "name"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

func (o SortOrder) String() string {
	switch o {
	case LatestFirst:
		return "latest"
	case OldestFirst:
		return "oldest"
	case AToZ:
		return "a-z"
	case ZToA:
		return "z-a"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseSortKey accepts the String form of a key.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created", "created_on", "date":
		return KeyCreatedOn, nil
	case "name":
		return KeyName, nil
	default:
		return 0, fmt.Errorf("unknown sort key %q (want created or name)", s)
	}
}

// ParseSortOrder accepts the String form of an order and checks it against k.
// An empty string selects k's default order.
func ParseSortOrder(k SortKey, s string) (SortOrder, error) {
	var o SortOrder
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return validOrders[k][0], nil
	case "latest", "desc", "newest":
		o = LatestFirst
	case "oldest", "asc":
		o = OldestFirst
	case "a-z", "az":
		o = AToZ
	case "z-a", "za":
		o = ZToA
	default:
		return 0, fmt.Errorf("unknown sort order %q", s)
	}
	if !k.Valid(o) {
		return 0, fmt.Errorf("sort order %s is not valid for key %s", o, k)
	}
	return o, nil
}

// listOptions translates a key and order into a store listing.
func listOptions(term string, k SortKey, o SortOrder) recipes.ListOptions {
	opts := recipes.ListOptions{Term: term}
	switch k {
	case KeyName:
		opts.Sort = recipes.SortName
		opts.Descending = o == ZToA
	default:
		opts.Sort = recipes.SortCreatedOn
		opts.Descending = o == LatestFirst
	}
	return opts
}
