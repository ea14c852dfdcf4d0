package recipes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntityKind selects the entity a raw payload is decoded into by Save.
type EntityKind int

const (
	KindRecipe EntityKind = iota + 1
	KindWeekMenu
)

func (k EntityKind) String() string {
	switch k {
	case KindRecipe:
		return "recipe"
	case KindWeekMenu:
		return "week_menu"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Reference is an opaque handle to a stored record. Resolve it against the
// Gateway to get a live copy; a Reference never goes stale the way a copied
// Recipe does.
type Reference struct {
	kind EntityKind
	id   string
}

// RecipeRef builds a reference to the recipe with the given id.
func RecipeRef(id string) Reference { return Reference{kind: KindRecipe, id: id} }

// MenuRef builds a reference to a week menu entry.
func MenuRef(id string) Reference { return Reference{kind: KindWeekMenu, id: id} }

func (r Reference) ID() string       { return r.id }
func (r Reference) Kind() EntityKind { return r.kind }
func (r Reference) String() string   { return r.kind.String() + "/" + r.id }

// Gateway is the single write path into the local store. Writes on one
// Gateway are serialized; each call commits atomically or not at all.
type Gateway struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time

	mu sync.Mutex

	subsMu  sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithClock replaces time.Now for timestamp stamping.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway wraps an upgraded store connection.
func NewGateway(db *sql.DB, logger *zap.Logger, opts ...Option) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gateway{
		db:   db,
		log:  logger.Named("gateway"),
		now:  time.Now,
		subs: make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DB exposes the underlying connection for read-only collaborators.
func (g *Gateway) DB() *sql.DB { return g.db }

// Save decodes payload as kind and upserts it.
func (g *Gateway) Save(ctx context.Context, payload []byte, kind EntityKind) (Reference, error) {
	switch kind {
	case KindRecipe:
		var r Recipe
		if err := decodePayload(payload, &r); err != nil {
			return Reference{}, g.fail("decode", err, zap.Stringer("kind", kind))
		}
		return g.SaveRecipe(ctx, r)
	case KindWeekMenu:
		var m RecipeWeekMenu
		if err := decodePayload(payload, &m); err != nil {
			return Reference{}, g.fail("decode", err, zap.Stringer("kind", kind))
		}
		if m.RecipeID == nil || *m.RecipeID == "" {
			return Reference{}, g.fail("decode", decodeError("week_menu", errors.New("recipe_id is required")))
		}
		entry, err := g.PlanRecipe(ctx, *m.RecipeID, m.Date)
		if err != nil {
			return Reference{}, err
		}
		return MenuRef(entry.ID), nil
	default:
		return Reference{}, fmt.Errorf("unsupported entity kind %s", kind)
	}
}

// SaveAll decodes a JSON array of recipes and upserts all of them in one
// unit of work.
func (g *Gateway) SaveAll(ctx context.Context, payload []byte) ([]Reference, error) {
	var list []Recipe
	if err := decodePayload(payload, &list); err != nil {
		return nil, g.fail("decode", err, zap.String("kind", "recipe_list"))
	}
	return g.SaveRecipes(ctx, list)
}

// SaveRecipe upserts an in-memory recipe.
func (g *Gateway) SaveRecipe(ctx context.Context, r Recipe) (Reference, error) {
	refs, err := g.SaveRecipes(ctx, []Recipe{r})
	if err != nil {
		return Reference{}, err
	}
	return refs[0], nil
}

// SaveRecipes upserts every recipe inside a single transaction.
//
// An existing recipe (same id) keeps its created_on, takes every other field
// from the new value and gets a modified_on later than the previous one.
// Its ingredients, instructions and tag links are replaced. Author, category,
// cuisine and base ingredient rows are looked up by their unique key and
// created only when missing.
func (g *Gateway) SaveRecipes(ctx context.Context, list []Recipe) ([]Reference, error) {
	for _, r := range list {
		if err := Validate(r); err != nil {
			return nil, g.fail("validate", err, zap.String("recipe_id", r.ID))
		}
	}

	refs := make([]Reference, 0, len(list))
	err := g.write(ctx, "save_recipe", func(tx *sql.Tx) error {
		for _, r := range list {
			inserted, err := g.upsertRecipe(ctx, tx, r)
			if err != nil {
				return fmt.Errorf("recipe %s: %w", r.ID, err)
			}
			g.log.Debug("recipe upserted", zap.String("recipe_id", r.ID), zap.Bool("inserted", inserted))
			refs = append(refs, RecipeRef(r.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// Resolve loads the live recipe behind ref.
func (g *Gateway) Resolve(ctx context.Context, ref Reference) (Recipe, error) {
	if ref.kind != KindRecipe {
		return Recipe{}, fmt.Errorf("reference %s does not point at a recipe", ref)
	}
	return loadRecipe(ctx, g.db, ref.id)
}

// Get loads a recipe by id.
func (g *Gateway) Get(ctx context.Context, id string) (Recipe, error) {
	return loadRecipe(ctx, g.db, id)
}

// Delete removes a recipe with its ingredients, steps and tag links. Tags
// stay; week menu entries lose their recipe reference.
func (g *Gateway) Delete(ctx context.Context, ref Reference) error {
	return g.write(ctx, "delete_recipe", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, deleteRecipeStatement, ref.id)
		if err != nil {
			return err
		}
		return requireRow(res, ErrRecipeNotFound)
	})
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (g *Gateway) ToggleFavorite(ctx context.Context, ref Reference) (bool, error) {
	var favorite bool
	err := g.write(ctx, "toggle_favorite", func(tx *sql.Tx) error {
		modified, err := g.nextModified(ctx, tx, ref.id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, toggleFavoriteStatement, modified.UnixNano(), ref.id); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT favorite FROM recipes WHERE id = ?`, ref.id).Scan(&favorite)
	})
	return favorite, err
}

// MarkCooked records a finished cooking session and returns the new count.
func (g *Gateway) MarkCooked(ctx context.Context, ref Reference) (int, error) {
	var count int
	err := g.write(ctx, "mark_cooked", func(tx *sql.Tx) error {
		modified, err := g.nextModified(ctx, tx, ref.id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, markCookedStatement, modified.UnixNano(), ref.id); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT times_completed FROM recipes WHERE id = ?`, ref.id).Scan(&count)
	})
	return count, err
}

// write runs fn in a transaction under the gateway lock and signals
// subscribers after a successful commit.
func (g *Gateway) write(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return g.fail(op, storeError(op, err))
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return g.fail(op, storeError(op, err))
	}
	if err := tx.Commit(); err != nil {
		return g.fail(op, storeError(op, err))
	}

	g.notify()
	return nil
}

func (g *Gateway) fail(op string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("op", op), zap.Error(err))
	g.log.Error("store operation failed", fields...)
	return err
}

// nextModified returns a modification stamp strictly after the stored one.
func (g *Gateway) nextModified(ctx context.Context, tx *sql.Tx, id string) (time.Time, error) {
	var prev int64
	err := tx.QueryRowContext(ctx, `SELECT modified_on FROM recipes WHERE id = ?`, id).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrRecipeNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return g.stampAfter(time.Unix(0, prev)), nil
}

func (g *Gateway) stampAfter(prev time.Time) time.Time {
	now := g.now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond).UTC()
	}
	return now
}

func (g *Gateway) upsertRecipe(ctx context.Context, tx *sql.Tx, r Recipe) (bool, error) {
	var createdOn, modifiedOn int64
	err := tx.QueryRowContext(ctx, `SELECT created_on, modified_on FROM recipes WHERE id = ?`, r.ID).Scan(&createdOn, &modifiedOn)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	var authorID sql.NullInt64
	if r.Author != nil {
		id, err := resolveAuthor(ctx, tx, *r.Author)
		if err != nil {
			return false, err
		}
		authorID = sql.NullInt64{Int64: id, Valid: true}
	}

	if exists {
		modified := g.stampAfter(time.Unix(0, modifiedOn))
		_, err = tx.ExecContext(ctx, updateRecipeStatement,
			r.Name, authorID, r.Detail, r.PrepTime, r.TotalTime, r.Display, r.Image, r.SourceURL,
			r.Favorite, r.TimesCompleted, modified.UnixNano(), r.ID)
		if err != nil {
			return false, err
		}
		for _, stmt := range clearOwnedStatements {
			if _, err := tx.ExecContext(ctx, stmt, r.ID); err != nil {
				return false, err
			}
		}
	} else {
		now := g.now().UTC().UnixNano()
		_, err = tx.ExecContext(ctx, insertRecipeStatement,
			r.ID, r.Name, authorID, r.Detail, r.PrepTime, r.TotalTime, r.Display, r.Image, r.SourceURL,
			r.Favorite, r.TimesCompleted, now, now)
		if err != nil {
			return false, err
		}
	}

	for i, step := range r.Instructions {
		if _, err := tx.ExecContext(ctx, insertInstructionStatement, r.ID, i, step); err != nil {
			return false, err
		}
	}

	if err := linkTags(ctx, tx, categoriesTable, r.ID, categoryNames(r.Categories)); err != nil {
		return false, err
	}
	if err := linkTags(ctx, tx, cuisinesTable, r.ID, cuisineNames(r.Cuisines)); err != nil {
		return false, err
	}

	for i, ing := range r.Ingredients {
		baseID, err := resolveTag(ctx, tx, baseIngredientsTable, ing.Base.Name)
		if err != nil {
			return false, err
		}
		id := ing.ID
		if id == "" {
			id = newID()
		}
		_, err = tx.ExecContext(ctx, insertIngredientStatement,
			id, r.ID, i, baseID, nullString(ing.Quantity), nullString(ing.Method), ing.Label())
		if err != nil {
			return false, err
		}
	}

	return !exists, nil
}

func resolveAuthor(ctx context.Context, tx *sql.Tx, a Author) (int64, error) {
	name := strings.TrimSpace(a.Name)
	website := strings.TrimSpace(a.Website)

	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM authors WHERE name = ? AND website = ?`, name, website).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO authors (name, website) VALUES (?, ?)`, name, website)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func decodePayload(payload []byte, v any) error {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return decodeError("payload", errors.New("empty body"))
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return decodeError("payload", err)
	}
	return nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
