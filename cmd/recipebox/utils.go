package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unowned-ai/recipebox/pkg/api"
	pkgdb "github.com/unowned-ai/recipebox/pkg/db"
	"github.com/unowned-ai/recipebox/pkg/recipes"
	"github.com/unowned-ai/recipebox/pkg/settings"
	"github.com/unowned-ai/recipebox/pkg/utils"
)

// storeOptions merges the --db/--wal/--sync flags over the configuration.
func storeOptions(cmd *cobra.Command) (path string, wal bool, sync string, err error) {
	path = dbPath
	if path == "" {
		path = cfg.DBPath
	}
	path, err = utils.ResolveAndEnsureDBPath(path, cfg.StorageGroup)
	if err != nil {
		return "", false, "", err
	}

	wal = cfg.WAL
	if cmd.Flags().Changed("wal") {
		wal, _ = cmd.Flags().GetBool("wal")
	}
	sync = cfg.SyncMode
	if cmd.Flags().Changed("sync") {
		sync, _ = cmd.Flags().GetString("sync")
	}
	return path, wal, sync, nil
}

// openStore opens and upgrades the store. Call the returned func when done.
func openStore(cmd *cobra.Command) (*recipes.Gateway, *settings.Store, func(), error) {
	path, wal, sync, err := storeOptions(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	conn, err := pkgdb.Open(path, wal, sync, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("store opened", zap.String("path", path))
	return recipes.NewGateway(conn, logger), settings.New(conn), func() { closeDB(conn) }, nil
}

// closeDB checkpoints the WAL back into the main file before closing.
func closeDB(conn *sql.DB) {
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := conn.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		logger.Warn("WAL checkpoint failed during close", zap.Error(err))
	}
	if err := conn.Close(); err != nil {
		logger.Warn("failed to close store", zap.Error(err))
	}
}

// newClient builds the parse service client. A missing base URL is a
// ConfigurationError.
func newClient(tokens api.TokenSource) (*api.Client, error) {
	builder, err := api.NewRequestBuilder(cfg.APIBaseURL, tokens, cfg.AuthScheme)
	if err != nil {
		logger.Error("parse service is not configured", zap.Error(err))
		return nil, err
	}
	return api.NewClient(builder, logger, api.WithRateLimit(cfg.RequestRate)), nil
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// formatTimestamp renders a stored time in the local zone, RFC3339.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}
