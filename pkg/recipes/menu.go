package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// dayLayout is how menu dates are stored.
const dayLayout = "2006-01-02"

const (
	insertMenuStatement = `
	INSERT INTO recipe_week_menus (id, recipe_id, date, created_on)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (recipe_id, date) DO NOTHING
	`

	getMenuByRecipeDayStatement = `
	SELECT id, recipe_id, date, created_on FROM recipe_week_menus WHERE recipe_id = ? AND date = ?
	`

	deleteMenuStatement = `DELETE FROM recipe_week_menus WHERE id = ?`

	listMenuRangeStatement = `
	SELECT m.id, m.recipe_id, m.date, m.created_on, COALESCE(r.name, '')
	FROM recipe_week_menus m
	LEFT JOIN recipes r ON r.id = m.recipe_id
	WHERE m.date >= ? AND m.date <= ?
	ORDER BY m.date ASC, m.created_on ASC, m.id ASC
	`
)

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekOf returns the Monday and Sunday of the week containing day.
func WeekOf(day time.Time) (time.Time, time.Time) {
	d := Day(day)
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// PlanRecipe puts a recipe on the menu for day. Planning the same recipe on
// the same day twice returns the existing entry.
func (g *Gateway) PlanRecipe(ctx context.Context, recipeID string, day time.Time) (RecipeWeekMenu, error) {
	if day.IsZero() {
		return RecipeWeekMenu{}, g.fail("plan_recipe", decodeError("week_menu", errors.New("date is required")))
	}
	date := Day(day).Format(dayLayout)

	var entry RecipeWeekMenu
	err := g.write(ctx, "plan_recipe", func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM recipes WHERE id = ?`, recipeID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, insertMenuStatement, newID(), recipeID, date, g.now().UTC().UnixNano()); err != nil {
			return err
		}
		entry, err = scanMenu(tx.QueryRowContext(ctx, getMenuByRecipeDayStatement, recipeID, date))
		return err
	})
	return entry, err
}

// RemoveFromMenu deletes a week menu entry.
func (g *Gateway) RemoveFromMenu(ctx context.Context, ref Reference) error {
	if ref.kind != KindWeekMenu {
		return fmt.Errorf("reference %s does not point at a week menu entry", ref)
	}
	return g.write(ctx, "remove_from_menu", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, deleteMenuStatement, ref.id)
		if err != nil {
			return err
		}
		return requireRow(res, ErrMenuEntryNotFound)
	})
}

// WeekMenu lists the entries planned for the Monday to Sunday week that
// contains day, ordered by date.
func (g *Gateway) WeekMenu(ctx context.Context, day time.Time) ([]MenuItem, error) {
	monday, sunday := WeekOf(day)

	rows, err := g.db.QueryContext(ctx, listMenuRangeStatement, monday.Format(dayLayout), sunday.Format(dayLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query week menu: %w", err)
	}
	defer rows.Close()

	items := []MenuItem{}
	for rows.Next() {
		var (
			item      MenuItem
			recipeID  sql.NullString
			date      string
			createdOn int64
		)
		if err := rows.Scan(&item.ID, &recipeID, &date, &createdOn, &item.RecipeName); err != nil {
			return nil, fmt.Errorf("failed to scan week menu row: %w", err)
		}
		if err := fillMenu(&item.RecipeWeekMenu, recipeID, date, createdOn); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanMenu(row *sql.Row) (RecipeWeekMenu, error) {
	var (
		m         RecipeWeekMenu
		recipeID  sql.NullString
		date      string
		createdOn int64
	)
	if err := row.Scan(&m.ID, &recipeID, &date, &createdOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RecipeWeekMenu{}, ErrMenuEntryNotFound
		}
		return RecipeWeekMenu{}, err
	}
	if err := fillMenu(&m, recipeID, date, createdOn); err != nil {
		return RecipeWeekMenu{}, err
	}
	return m, nil
}

func fillMenu(m *RecipeWeekMenu, recipeID sql.NullString, date string, createdOn int64) error {
	if recipeID.Valid {
		id := recipeID.String
		m.RecipeID = &id
	}
	d, err := time.Parse(dayLayout, date)
	if err != nil {
		return fmt.Errorf("invalid stored menu date %q: %w", date, err)
	}
	m.Date = d
	m.CreatedOn = time.Unix(0, createdOn).UTC()
	return nil
}
