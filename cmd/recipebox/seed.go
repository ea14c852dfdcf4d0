package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample recipes into the store",
	Long: `Loads sample recipes from a YAML file (--file) or the samples bundled with recipebox
and upserts them in one transaction. Running it twice updates the same recipes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		var (
			list []recipes.Recipe
			err  error
		)
		if file != "" {
			f, openErr := os.Open(file)
			if openErr != nil {
				return fmt.Errorf("failed to open samples: %w", openErr)
			}
			defer f.Close()
			list, err = recipes.LoadSamples(f)
		} else {
			list, err = recipes.BuiltinSamples()
		}
		if err != nil {
			return err
		}

		gateway, _, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		refs, err := gateway.SaveRecipes(cmd.Context(), list)
		if err != nil {
			return fmt.Errorf("failed to store samples: %w", err)
		}
		fmt.Printf("Seeded %d recipes.\n", len(refs))
		return nil
	},
}

func initSeedCmd() {
	seedCmd.Flags().StringP("file", "f", "", "YAML file with a top-level 'recipes' list")
}
