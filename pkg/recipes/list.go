package recipes

import (
	"context"
	"fmt"
	"strings"

	"github.com/unowned-ai/recipebox/pkg/db"
)

// SortField is the column a recipe listing is ordered by.
type SortField int

const (
	SortCreatedOn SortField = iota
	SortName
)

func (f SortField) String() string {
	switch f {
	case SortCreatedOn:
		return "created_on"
	case SortName:
		return "name"
	default:
		return fmt.Sprintf("sort(%d)", int(f))
	}
}

// ListOptions narrows and orders a recipe listing.
type ListOptions struct {
	// Term keeps recipes whose name contains it, compared after case
	// folding. Empty matches everything.
	Term       string
	Sort       SortField
	Descending bool
	// Limit <= 0 means no limit.
	Limit  int
	Offset int
}

// List returns references to the recipes matching opts, in order. Ties on
// the sort column are broken by id so paging is stable.
func (g *Gateway) List(ctx context.Context, opts ListOptions) ([]Reference, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT id FROM recipes`)

	if term := strings.TrimSpace(opts.Term); term != "" {
		b.WriteString(` WHERE instr(fold(name), ?) > 0`)
		args = append(args, db.Fold(term))
	}

	dir := "ASC"
	if opts.Descending {
		dir = "DESC"
	}
	switch opts.Sort {
	case SortName:
		fmt.Fprintf(&b, ` ORDER BY fold(name) %s, id %s`, dir, dir)
	default:
		fmt.Fprintf(&b, ` ORDER BY created_on %s, id %s`, dir, dir)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	b.WriteString(` LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	rows, err := g.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	refs := []Reference{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recipe id: %w", err)
		}
		refs = append(refs, RecipeRef(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe rows: %w", err)
	}
	return refs, nil
}
