package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	insertRecipeStatement = `
	INSERT INTO recipes (id, name, author_id, detail, prep_time, total_time, display, image, source_url,
	                     favorite, times_completed, created_on, modified_on)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	updateRecipeStatement = `
	UPDATE recipes
	SET name = ?, author_id = ?, detail = ?, prep_time = ?, total_time = ?, display = ?, image = ?,
	    source_url = ?, favorite = ?, times_completed = ?, modified_on = ?
	WHERE id = ?
	`

	getRecipeStatement = `
	SELECT r.id, r.name, a.name, a.website, r.detail, r.prep_time, r.total_time, r.display, r.image,
	       r.source_url, r.favorite, r.times_completed, r.created_on, r.modified_on
	FROM recipes r
	LEFT JOIN authors a ON a.id = r.author_id
	WHERE r.id = ?
	`

	deleteRecipeStatement = `DELETE FROM recipes WHERE id = ?`

	toggleFavoriteStatement = `
	UPDATE recipes SET favorite = NOT favorite, modified_on = ? WHERE id = ?
	`

	markCookedStatement = `
	UPDATE recipes SET times_completed = times_completed + 1, modified_on = ? WHERE id = ?
	`

	insertInstructionStatement = `
	INSERT INTO instructions (recipe_id, position, step) VALUES (?, ?, ?)
	`

	listInstructionsStatement = `
	SELECT step FROM instructions WHERE recipe_id = ? ORDER BY position ASC
	`

	insertIngredientStatement = `
	INSERT INTO ingredients (id, recipe_id, position, base_ingredient_id, quantity, method, display)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	listIngredientsStatement = `
	SELECT i.id, b.name, i.quantity, i.method, i.display
	FROM ingredients i
	JOIN base_ingredients b ON b.id = i.base_ingredient_id
	WHERE i.recipe_id = ?
	ORDER BY i.position ASC
	`

	countRecipesStatement = `SELECT COUNT(*) FROM recipes`

	listAuthorsStatement = `
	SELECT a.name, a.website, COUNT(r.id)
	FROM authors a
	LEFT JOIN recipes r ON r.author_id = a.id
	GROUP BY a.id
	ORDER BY a.name ASC, a.website ASC
	`
)

// clearOwnedStatements drop the rows a recipe owns before they are rewritten.
var clearOwnedStatements = []string{
	`DELETE FROM instructions WHERE recipe_id = ?`,
	`DELETE FROM ingredients WHERE recipe_id = ?`,
	`DELETE FROM recipe_categories WHERE recipe_id = ?`,
	`DELETE FROM recipe_cuisines WHERE recipe_id = ?`,
}

// TagKind names one of the normalized tag tables.
type TagKind int

const (
	TagCategory TagKind = iota + 1
	TagCuisine
	TagBaseIngredient
)

// tagTable describes a tag table and, for recipe-level tags, its link table.
type tagTable struct {
	table      string
	linkTable  string
	linkColumn string
}

var (
	categoriesTable      = tagTable{table: "categories", linkTable: "recipe_categories", linkColumn: "category_id"}
	cuisinesTable        = tagTable{table: "cuisines", linkTable: "recipe_cuisines", linkColumn: "cuisine_id"}
	baseIngredientsTable = tagTable{table: "base_ingredients", linkTable: "ingredients", linkColumn: "base_ingredient_id"}
)

func (k TagKind) table() (tagTable, error) {
	switch k {
	case TagCategory:
		return categoriesTable, nil
	case TagCuisine:
		return cuisinesTable, nil
	case TagBaseIngredient:
		return baseIngredientsTable, nil
	default:
		return tagTable{}, fmt.Errorf("unknown tag kind %d", int(k))
	}
}

// ParseTagKind maps "category", "cuisine" or "ingredient" to a TagKind.
func ParseTagKind(s string) (TagKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "categories":
		return TagCategory, nil
	case "cuisine", "cuisines":
		return TagCuisine, nil
	case "ingredient", "ingredients", "base_ingredient":
		return TagBaseIngredient, nil
	default:
		return 0, fmt.Errorf("unknown tag kind %q (want category, cuisine or ingredient)", s)
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// resolveTag returns the id of the tag row named name, inserting it first
// when it does not exist yet.
func resolveTag(ctx context.Context, tx *sql.Tx, t tagTable, name string) (int64, error) {
	name = strings.TrimSpace(name)

	var id int64
	err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE name = ?`, t.table), name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (name) VALUES (?)`, t.table), name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// linkTags attaches recipeID to each named tag, in order, skipping repeats.
func linkTags(ctx context.Context, tx *sql.Tx, t tagTable, recipeID string, names []string) error {
	insert := fmt.Sprintf(`INSERT INTO %s (recipe_id, %s, position) VALUES (?, ?, ?)`, t.linkTable, t.linkColumn)
	seen := make(map[int64]bool, len(names))
	position := 0
	for _, name := range names {
		id, err := resolveTag(ctx, tx, t, name)
		if err != nil {
			return err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tx.ExecContext(ctx, insert, recipeID, id, position); err != nil {
			return err
		}
		position++
	}
	return nil
}

func categoryNames(cs []Category) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

func cuisineNames(cs []Cuisine) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

func loadRecipe(ctx context.Context, q queryer, id string) (Recipe, error) {
	var (
		r                     Recipe
		authorName, website   sql.NullString
		createdOn, modifiedOn int64
	)
	err := q.QueryRowContext(ctx, getRecipeStatement, id).Scan(
		&r.ID, &r.Name, &authorName, &website, &r.Detail, &r.PrepTime, &r.TotalTime, &r.Display, &r.Image,
		&r.SourceURL, &r.Favorite, &r.TimesCompleted, &createdOn, &modifiedOn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recipe{}, ErrRecipeNotFound
		}
		return Recipe{}, err
	}
	if authorName.Valid {
		r.Author = &Author{Name: authorName.String, Website: website.String}
	}
	r.CreatedOn = time.Unix(0, createdOn).UTC()
	r.ModifiedOn = time.Unix(0, modifiedOn).UTC()

	if r.Instructions, err = loadInstructions(ctx, q, id); err != nil {
		return Recipe{}, err
	}
	names, err := loadTagNames(ctx, q, categoriesTable, id)
	if err != nil {
		return Recipe{}, err
	}
	for _, n := range names {
		r.Categories = append(r.Categories, Category{Name: n})
	}
	if names, err = loadTagNames(ctx, q, cuisinesTable, id); err != nil {
		return Recipe{}, err
	}
	for _, n := range names {
		r.Cuisines = append(r.Cuisines, Cuisine{Name: n})
	}
	if r.Ingredients, err = loadIngredients(ctx, q, id); err != nil {
		return Recipe{}, err
	}
	return r, nil
}

func loadInstructions(ctx context.Context, q queryer, recipeID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, listInstructionsStatement, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []string
	for rows.Next() {
		var step string
		if err := rows.Scan(&step); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func loadTagNames(ctx context.Context, q queryer, t tagTable, recipeID string) ([]string, error) {
	query := fmt.Sprintf(`
	SELECT t.name FROM %s l JOIN %s t ON t.id = l.%s
	WHERE l.recipe_id = ? ORDER BY l.position ASC`, t.linkTable, t.table, t.linkColumn)

	rows, err := q.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func loadIngredients(ctx context.Context, q queryer, recipeID string) ([]Ingredient, error) {
	rows, err := q.QueryContext(ctx, listIngredientsStatement, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var (
			ing              Ingredient
			quantity, method sql.NullString
		)
		if err := rows.Scan(&ing.ID, &ing.Base.Name, &quantity, &method, &ing.Display); err != nil {
			return nil, err
		}
		if quantity.Valid {
			ing.Quantity = &quantity.String
		}
		if method.Valid {
			ing.Method = &method.String
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// Count returns the number of stored recipes.
func (g *Gateway) Count(ctx context.Context) (int, error) {
	var n int
	err := g.db.QueryRowContext(ctx, countRecipesStatement).Scan(&n)
	return n, err
}

// Tags lists every tag of the given kind with the number of recipes using it.
func (g *Gateway) Tags(ctx context.Context, kind TagKind) ([]TagUsage, error) {
	t, err := kind.table()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
	SELECT t.name, COUNT(DISTINCT l.recipe_id)
	FROM %s t LEFT JOIN %s l ON l.%s = t.id
	GROUP BY t.id
	ORDER BY t.name ASC`, t.table, t.linkTable, t.linkColumn)

	rows, err := g.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.table, err)
	}
	defer rows.Close()

	var out []TagUsage
	for rows.Next() {
		var u TagUsage
		if err := rows.Scan(&u.Name, &u.Recipes); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.table, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (g *Gateway) Categories(ctx context.Context) ([]TagUsage, error) {
	return g.Tags(ctx, TagCategory)
}

func (g *Gateway) Cuisines(ctx context.Context) ([]TagUsage, error) {
	return g.Tags(ctx, TagCuisine)
}

func (g *Gateway) BaseIngredients(ctx context.Context) ([]TagUsage, error) {
	return g.Tags(ctx, TagBaseIngredient)
}

// Authors lists every author row with the number of recipes referencing it.
func (g *Gateway) Authors(ctx context.Context) ([]AuthorUsage, error) {
	rows, err := g.db.QueryContext(ctx, listAuthorsStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var out []AuthorUsage
	for rows.Next() {
		var u AuthorUsage
		if err := rows.Scan(&u.Name, &u.Website, &u.Recipes); err != nil {
			return nil, fmt.Errorf("failed to scan author row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// RecipesTagged follows a tag's back-reference to the recipes using it.
// Recipes are returned newest first.
func (g *Gateway) RecipesTagged(ctx context.Context, kind TagKind, name string) ([]Reference, error) {
	t, err := kind.table()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
	SELECT DISTINCT r.id, r.created_on
	FROM %s t
	JOIN %s l ON l.%s = t.id
	JOIN recipes r ON r.id = l.recipe_id
	WHERE t.name = ?
	ORDER BY r.created_on DESC, r.id ASC`, t.table, t.linkTable, t.linkColumn)

	rows, err := g.db.QueryContext(ctx, query, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes tagged %q: %w", name, err)
	}
	defer rows.Close()

	var refs []Reference
	for rows.Next() {
		var id string
		var created int64
		if err := rows.Scan(&id, &created); err != nil {
			return nil, err
		}
		refs = append(refs, RecipeRef(id))
	}
	return refs, rows.Err()
}
