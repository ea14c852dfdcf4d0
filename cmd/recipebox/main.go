package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	recipebox "github.com/unowned-ai/recipebox/pkg"
	"github.com/unowned-ai/recipebox/pkg/api"
	"github.com/unowned-ai/recipebox/pkg/config"
	pkgdb "github.com/unowned-ai/recipebox/pkg/db"
	"github.com/unowned-ai/recipebox/pkg/logging"
)

var (
	dbPath  string
	envFile string

	// cfg and logger are built once by the root command before any
	// subcommand runs.
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:     "recipebox",
	Short:   "Parse recipes from the web and keep them in a local store.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", recipebox.Version),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(envFile)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for recipebox.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(recipebox completion bash)

  Bash (persist):
    $ recipebox completion bash > /etc/bash_completion.d/recipebox

  Zsh:
    $ recipebox completion zsh > "${fpath[1]}/_recipebox"

  Fish:
    $ recipebox completion fish | source
    $ recipebox completion fish > ~/.config/fish/completions/recipebox.fish

  PowerShell:
    PS> recipebox completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of recipebox",
	Long:  `All software has versions. This is recipebox's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(recipebox.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the recipebox store",
	Long:  `Provides commands for managing the recipebox SQLite store, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the store schema to the latest version for the recipesdb component",
	Long: `Connects to the SQLite store (--db, RECIPEBOX_DB_PATH or the storage group default) and
applies any necessary schema migrations to bring the recipesdb component up to the current
application schema version. A missing or uninitialized store is created with the latest schema.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, wal, sync, err := storeOptions(cmd)
		if err != nil {
			return err
		}
		logger.Info("upgrading store", zap.String("path", path), zap.Bool("wal", wal), zap.String("sync", sync))

		dbConn, err := pkgdb.OpenDBConnection(path, wal, sync)
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		return pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion, logger)
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the recipebox SQLite store (default: RECIPEBOX_DB_PATH or the storage group location)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file read before the environment")
	rootCmd.PersistentFlags().Bool("wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode (default: RECIPEBOX_WAL)")
	rootCmd.PersistentFlags().String("sync", "", "SQLite synchronous pragma: OFF, NORMAL, FULL, EXTRA (default: RECIPEBOX_SYNC)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initRecipeCmds()
	initParseCmds()
	initMenuCmds()
	initSettingsCmds()
	initSeedCmd()

	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, recipesCmd, parseCmd, syncCmd, uploadCmd, menuCmd, settingsCmd, seedCmd, mcpCmd)
}

func main() {
	initCmd()

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var cfgErr *api.ConfigurationError
		if errors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
