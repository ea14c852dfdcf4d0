package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/recipebox/pkg/api"
	"github.com/unowned-ai/recipebox/pkg/recipes"
)

var parseCmd = &cobra.Command{
	Use:   "parse [url]",
	Short: "Parse a recipe page and store the result",
	Long: `Sends the page URL to the parse service (RECIPEBOX_API_BASE_URL) and upserts the
returned recipe into the local store. Parsing the same page again updates the stored recipe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, prefs, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		client, err := newClient(prefs)
		if err != nil {
			return err
		}

		ref, err := api.RequestAndStore(cmd.Context(), client, api.ParseRecipe(args[0]), gateway, recipes.KindRecipe)
		if err != nil {
			return fmt.Errorf("failed to parse recipe: %w", err)
		}
		r, err := gateway.Resolve(cmd.Context(), ref)
		if err != nil {
			return fmt.Errorf("failed to load stored recipe: %w", err)
		}

		fmt.Printf("Stored %q (ID: %s)\n", r.Name, r.ID)
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch every recipe from the service into the local store",
	Long:  `Fetches the recipe list from the service and upserts all of it in one transaction.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, prefs, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		client, err := newClient(prefs)
		if err != nil {
			return err
		}

		refs, err := api.RequestAndStoreAll(cmd.Context(), client, api.FetchRecipes(), gateway)
		if err != nil {
			return fmt.Errorf("failed to sync recipes: %w", err)
		}
		fmt.Printf("Synced %d recipes.\n", len(refs))
		return nil
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload [id]",
	Short: "Send a stored recipe to the service",
	Long:  `Posts a locally stored recipe to the service as a new recipe, or as an update with --update.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		update, _ := cmd.Flags().GetBool("update")

		gateway, prefs, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		r, err := gateway.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get recipe: %w", err)
		}

		client, err := newClient(prefs)
		if err != nil {
			return err
		}
		if _, err := client.Upload(cmd.Context(), r, update); err != nil {
			return fmt.Errorf("failed to upload recipe: %w", err)
		}
		fmt.Printf("Uploaded %q.\n", r.Name)
		return nil
	},
}

func initParseCmds() {
	uploadCmd.Flags().Bool("update", false, "Send as an update of an existing recipe")
}
