package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// TargetSchemaVersion is the highest schema version this version of the code supports for the recipesdb component.
	TargetSchemaVersion int64 = 1
	// RecipesDBComponent is the name for the main recipes database component.
	RecipesDBComponent = "recipesdb"
)

// GetComponentSchemaVersion retrieves the schema version for a given component.
// Returns 0 if the component is not found, the versions table is uninitialized, or the table doesn't exist.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	query := `SELECT version FROM recipebox_versions WHERE component = ?;`
	row := db.QueryRow(query, componentName)

	var version int64
	err := row.Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "recipebox_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates every recipesdb table and records schemaVersionToSet.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64, logger *zap.Logger) error {
	_, err := db.Exec(SchemaV1)
	if err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	insertVersionSQL := `
INSERT INTO recipebox_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	_, err = db.Exec(insertVersionSQL, RecipesDBComponent, schemaVersionToSet)
	if err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", RecipesDBComponent, schemaVersionToSet, err)
	}

	logger.Info("component schema initialized",
		zap.String("component", RecipesDBComponent),
		zap.Int64("version", schemaVersionToSet))
	return nil
}

// UpgradeDB applies necessary migrations to bring the database, represented by the *sql.DB connection,
// for the RecipesDBComponent to the appTargetSchemaVersion.
// dbIdentifierForLog is used for logging purposes only.
func UpgradeDB(db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64, logger *zap.Logger) error {
	currentDBVersion, err := GetComponentSchemaVersion(db, RecipesDBComponent)
	if err != nil {
		return err
	}

	log := logger.With(zap.String("component", RecipesDBComponent), zap.String("database", dbIdentifierForLog))

	switch {
	case currentDBVersion == 0:
		log.Info("initializing schema", zap.Int64("target_version", appTargetSchemaVersion))
		if err := InitializeSchema(db, appTargetSchemaVersion, logger); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", RecipesDBComponent, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		log.Debug("schema already up to date", zap.Int64("version", currentDBVersion))
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", RecipesDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", RecipesDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}

// Open resolves a ready-to-use store: it connects and brings the schema up to date.
func Open(path string, enableWAL bool, syncPragma string, logger *zap.Logger) (*sql.DB, error) {
	conn, err := OpenDBConnection(path, enableWAL, syncPragma)
	if err != nil {
		return nil, err
	}
	if err := UpgradeDB(conn, path, TargetSchemaVersion, logger); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
	}
	return conn, nil
}
