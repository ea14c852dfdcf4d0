package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

const dateLayout = "2006-01-02"

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Plan recipes for the week",
	Long:  `Provides commands for planning recipes on days and showing the Monday to Sunday week menu.`,
}

var menuPlanCmd = &cobra.Command{
	Use:   "plan [recipe-id] [YYYY-MM-DD]",
	Short: "Plan a recipe for a day",
	Long:  `Plans a recipe for a day. Planning the same recipe twice on one day keeps a single entry.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := time.Parse(dateLayout, args[1])
		if err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", args[1], err)
		}

		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		entry, err := gateway.PlanRecipe(cmd.Context(), args[0], day)
		if err != nil {
			return fmt.Errorf("failed to plan recipe: %w", err)
		}
		fmt.Printf("Planned %s on %s (entry %s).\n", args[0], entry.Date.Format(dateLayout), entry.ID)
		return nil
	},
}

var menuRemoveCmd = &cobra.Command{
	Use:   "remove [entry-id]",
	Short: "Remove a week menu entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := gateway.RemoveFromMenu(cmd.Context(), recipes.MenuRef(args[0])); err != nil {
			return fmt.Errorf("failed to remove menu entry: %w", err)
		}
		fmt.Printf("Menu entry %s removed.\n", args[0])
		return nil
	},
}

var menuWeekCmd = &cobra.Command{
	Use:   "week [YYYY-MM-DD]",
	Short: "Show the week menu",
	Long:  `Shows the entries planned for the Monday to Sunday week containing the given day (default: today).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now()
		if len(args) == 1 {
			parsed, err := time.Parse(dateLayout, args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", args[0], err)
			}
			day = parsed
		}

		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		items, err := gateway.WeekMenu(cmd.Context(), day)
		if err != nil {
			return err
		}

		monday, sunday := recipes.WeekOf(day)
		fmt.Printf("Week %s to %s\n", monday.Format(dateLayout), sunday.Format(dateLayout))
		if len(items) == 0 {
			fmt.Println("Nothing planned.")
			return nil
		}
		for _, item := range items {
			name := item.RecipeName
			if item.RecipeID == nil {
				name = "(deleted recipe)"
			}
			fmt.Printf("  %s %s  %s  [%s]\n", item.Date.Format("Mon"), item.Date.Format(dateLayout), name, item.ID)
		}
		return nil
	},
}

func initMenuCmds() {
	menuCmd.AddCommand(menuPlanCmd, menuRemoveCmd, menuWeekCmd)
}
