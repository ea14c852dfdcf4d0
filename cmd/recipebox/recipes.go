package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/recipebox/pkg/query"
	"github.com/unowned-ai/recipebox/pkg/recipes"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Browse and manage stored recipes",
	Long:  `Provides commands for listing, searching, showing, favoriting and deleting stored recipes.`,
}

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored recipes",
	Long: `Lists stored recipes. --search keeps names containing the term (case-insensitive).
--sort is 'created' (default) or 'name'; --order is 'latest'/'oldest' or 'a-z'/'z-a'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		sortStr, _ := cmd.Flags().GetString("sort")
		orderStr, _ := cmd.Flags().GetString("order")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		key, err := query.ParseSortKey(sortStr)
		if err != nil {
			return err
		}
		order, err := query.ParseSortOrder(key, orderStr)
		if err != nil {
			return err
		}

		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		view := query.NewView(gateway, 0)
		defer view.Close()
		view.SelectKey(key)
		if err := view.SetOrder(order); err != nil {
			return err
		}
		view.SetTerm(search)

		refs, err := view.Page(cmd.Context(), offset, limit)
		if err != nil {
			return fmt.Errorf("failed to list recipes: %w", err)
		}
		if len(refs) == 0 {
			fmt.Println("No recipes found.")
			return nil
		}
		return printRecipeTable(cmd.Context(), gateway, refs)
	},
}

var recipeGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a stored recipe",
	Long:  `Shows a stored recipe with its ingredients and its instructions grouped into sections.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		r, err := gateway.Get(cmd.Context(), args[0])
		if errors.Is(err, recipes.ErrRecipeNotFound) {
			fmt.Printf("Recipe with ID %s not found.\n", args[0])
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get recipe: %w", err)
		}
		if asJSON {
			return printJSON(r)
		}
		printRecipe(r)
		return nil
	},
}

var recipeDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored recipe",
	Long:  `Deletes a recipe with its ingredients and instructions. Categories, cuisines and authors are kept; week menu entries lose their recipe.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := gateway.Delete(cmd.Context(), recipes.RecipeRef(args[0])); err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		fmt.Printf("Recipe %s deleted.\n", args[0])
		return nil
	},
}

var recipeFavoriteCmd = &cobra.Command{
	Use:   "favorite [id]",
	Short: "Toggle the favorite flag of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		fav, err := gateway.ToggleFavorite(cmd.Context(), recipes.RecipeRef(args[0]))
		if err != nil {
			return fmt.Errorf("failed to toggle favorite: %w", err)
		}
		fmt.Printf("Recipe %s favorite: %t\n", args[0], fav)
		return nil
	},
}

var recipeCookedCmd = &cobra.Command{
	Use:   "cooked [id]",
	Short: "Record that a recipe was cooked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := gateway.MarkCooked(cmd.Context(), recipes.RecipeRef(args[0]))
		if err != nil {
			return fmt.Errorf("failed to mark recipe cooked: %w", err)
		}
		fmt.Printf("Recipe %s cooked %d times.\n", args[0], n)
		return nil
	},
}

var recipeTagsCmd = &cobra.Command{
	Use:   "tags [category|cuisine|ingredient] [name]",
	Short: "List tags, or the recipes using one tag",
	Long: `Without a name, lists every tag of the kind with the number of recipes using it.
With a name, lists the recipes carrying that tag.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := recipes.ParseTagKind(args[0])
		if err != nil {
			return err
		}

		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		if len(args) == 2 {
			refs, err := gateway.RecipesTagged(cmd.Context(), kind, args[1])
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				fmt.Printf("No recipes tagged %q.\n", args[1])
				return nil
			}
			return printRecipeTable(cmd.Context(), gateway, refs)
		}

		tags, err := gateway.Tags(cmd.Context(), kind)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Println("No tags found.")
			return nil
		}
		return printJSON(tags)
	},
}

var recipeAuthorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "List authors with their recipe counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		authors, err := gateway.Authors(cmd.Context())
		if err != nil {
			return err
		}
		if len(authors) == 0 {
			fmt.Println("No authors found.")
			return nil
		}
		return printJSON(authors)
	},
}

var recipeSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search interactively",
	Long: `Reads search text from stdin, one line per keystroke batch, and prints the matching
recipes once input has been quiet for RECIPEBOX_SEARCH_DEBOUNCE. End with Ctrl-D.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sortStr, _ := cmd.Flags().GetString("sort")
		key, err := query.ParseSortKey(sortStr)
		if err != nil {
			return err
		}

		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		view := query.NewView(gateway, cfg.SearchDebounce)
		defer view.Close()
		view.SelectKey(key)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go func() {
			defer cancel()
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				view.Search(scanner.Text())
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-view.Changes():
				term, _, _ := view.State()
				fmt.Printf("-- %q --\n", term)
				n := 0
				for r, err := range view.Recipes(ctx) {
					if err != nil {
						return err
					}
					fmt.Printf("  %s  %s\n", r.ID, r.Name)
					n++
				}
				if n == 0 {
					fmt.Println("  (no matches)")
				}
			}
		}
	},
}

func printRecipeTable(ctx context.Context, gateway *recipes.Gateway, refs []recipes.Reference) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORIES\tTOTAL\tFAV\tCREATED")
	for _, ref := range refs {
		r, err := gateway.Resolve(ctx, ref)
		if errors.Is(err, recipes.ErrRecipeNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		fav := ""
		if r.Favorite {
			fav = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.CategoryLabel(), r.TotalDuration(), fav, formatTimestamp(r.CreatedOn))
	}
	return w.Flush()
}

func printRecipe(r recipes.Recipe) {
	fmt.Println(r.Name)
	fmt.Println(strings.Repeat("=", len(r.Name)))
	if r.Author != nil {
		fmt.Printf("By %s", r.Author.Name)
		if r.Author.Website != "" {
			fmt.Printf(" (%s)", r.Author.Website)
		}
		fmt.Println()
	}
	if label := r.CategoryLabel(); label != "" {
		fmt.Printf("Categories: %s\n", label)
	}
	if label := r.CuisineLabel(); label != "" {
		fmt.Printf("Cuisines: %s\n", label)
	}
	fmt.Printf("Prep: %s  Cook: %s  Total: %s\n", r.PrepDuration(), r.CookDuration(), r.TotalDuration())
	if u := r.ImageURL(); u != nil {
		fmt.Printf("Image: %s\n", u)
	}
	if r.SourceURL != "" {
		fmt.Printf("Source: %s\n", r.SourceURL)
	}
	fmt.Printf("Favorite: %t  Cooked: %d  Modified: %s\n", r.Favorite, r.TimesCompleted, formatTimestamp(r.ModifiedOn))
	if r.Detail != "" {
		fmt.Printf("\n%s\n", r.Detail)
	}

	if len(r.Ingredients) > 0 {
		fmt.Println("\nIngredients")
		for _, ing := range r.Ingredients {
			fmt.Printf("  - %s\n", ing.Label())
		}
	}
	for _, section := range r.DetailedInstructions() {
		fmt.Printf("\n%s\n", section.Title)
		for i, step := range section.Steps {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}
}

func initRecipeCmds() {
	recipeListCmd.Flags().StringP("search", "s", "", "Only recipes whose name contains this text")
	recipeListCmd.Flags().String("sort", "created", "Sort key: created or name")
	recipeListCmd.Flags().String("order", "", "latest/oldest for created, a-z/z-a for name (default: first for the key)")
	recipeListCmd.Flags().Int("limit", 0, "Maximum number of recipes (0 = all)")
	recipeListCmd.Flags().Int("offset", 0, "Number of recipes to skip")

	recipeGetCmd.Flags().Bool("json", false, "Print the stored recipe as JSON")

	recipeSearchCmd.Flags().String("sort", "name", "Sort key: created or name")

	recipesCmd.AddCommand(recipeListCmd, recipeGetCmd, recipeDeleteCmd, recipeFavoriteCmd,
		recipeCookedCmd, recipeTagsCmd, recipeAuthorsCmd, recipeSearchCmd)
}
