package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change local settings",
	Long:  `Provides commands for the onboarding flag and the access token sent to the parse service.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show local settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, prefs, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		done, err := prefs.OnboardingComplete(cmd.Context())
		if err != nil {
			return err
		}
		_, hasToken, err := prefs.AccessToken(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Onboarding complete: %t\n", done)
		fmt.Printf("Access token stored: %t\n", hasToken)
		fmt.Printf("Auth scheme: %s\n", cfg.AuthScheme)
		return nil
	},
}

var settingsOnboardingCmd = &cobra.Command{
	Use:   "onboarding [true|false]",
	Short: "Set the onboarding-complete flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		done, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[0], err)
		}

		_, prefs, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		return prefs.SetOnboardingComplete(cmd.Context(), done)
	},
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token [value]",
	Short: "Store or clear the access token",
	Long:  `Stores the access token sent with every request to the parse service. Use --clear to remove it.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clear, _ := cmd.Flags().GetBool("clear")
		if !clear && len(args) == 0 {
			return fmt.Errorf("a token value or --clear is required")
		}

		_, prefs, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		if clear {
			if err := prefs.ClearAccessToken(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Access token cleared.")
			return nil
		}
		if err := prefs.SetAccessToken(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Access token stored.")
		return nil
	},
}

func initSettingsCmds() {
	settingsTokenCmd.Flags().Bool("clear", false, "Remove the stored access token")
	settingsCmd.AddCommand(settingsShowCmd, settingsOnboardingCmd, settingsTokenCmd)
}
