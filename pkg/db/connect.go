package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
)

// DriverName is the database/sql driver registered by this package. It wraps
// the stock sqlite3 driver with a per-connection hook.
const DriverName = "sqlite3_recipebox"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// fold() lets search compare names the same way Go code does.
			if err := conn.RegisterFunc("fold", Fold, true); err != nil {
				return fmt.Errorf("failed to register fold(): %w", err)
			}
			// Foreign keys are per connection in SQLite; cascades depend on them.
			if _, err := conn.Exec("PRAGMA foreign_keys = ON;", nil); err != nil {
				return fmt.Errorf("failed to enable foreign key support: %w", err)
			}
			return nil
		},
	})
}

// Fold returns the locale-independent case folding of s. It backs the fold()
// SQL function and must be applied to search terms before comparing.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// OpenDBConnection establishes a connection to a SQLite database with specified options.
// baseDSN is the initial data source name (e.g., file path or ":memory:").
// enableWAL sets the journal_mode to WAL if true.
// syncPragma sets the synchronous pragma (e.g., "OFF", "NORMAL", "FULL", "EXTRA").
//
// The returned handle is limited to a single open connection. Every caller
// sharing it is therefore serialized on that connection, and an in-memory
// database keeps its contents for the lifetime of the handle.
func OpenDBConnection(baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	params := url.Values{}

	if enableWAL {
		params.Add("_journal_mode", "WAL")
	}

	if syncPragma != "" {
		ucSyncPragma := strings.ToUpper(syncPragma)
		if !validSyncModes[ucSyncPragma] {
			return nil, fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", syncPragma)
		}
		params.Add("_synchronous", ucSyncPragma)
	}

	constructedDSN := baseDSN
	if len(params) > 0 {
		if strings.Contains(baseDSN, "?") {
			constructedDSN += "&" + params.Encode()
		} else {
			constructedDSN += "?" + params.Encode()
		}
	}

	db, err := sql.Open(DriverName, constructedDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", constructedDSN, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", constructedDSN, err)
	}

	return db, nil
}
