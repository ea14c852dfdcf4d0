package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the recipes store.
	//
	// Recipes own their ingredients, instruction steps and tag links (cascade).
	// Tag rows (authors, categories, cuisines, base ingredients) are shared and
	// outlive the recipes that reference them. Week menu entries keep their row
	// when the recipe goes away; only the reference is cleared.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS recipebox_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS authors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name VARCHAR(256) NOT NULL,
    website TEXT NOT NULL DEFAULT '',
    UNIQUE (name, website)
);

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name VARCHAR(256) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS cuisines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name VARCHAR(256) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS base_ingredients (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name VARCHAR(256) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS recipes (
    id TEXT PRIMARY KEY,
    name VARCHAR(512) NOT NULL,
    author_id INTEGER REFERENCES authors(id) ON DELETE SET NULL,
    detail TEXT NOT NULL DEFAULT '',
    prep_time INTEGER NOT NULL DEFAULT 0 CHECK (prep_time >= 0),
    total_time INTEGER NOT NULL DEFAULT 0 CHECK (total_time >= prep_time),
    display TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    source_url TEXT NOT NULL DEFAULT '',
    favorite BOOLEAN NOT NULL DEFAULT FALSE,
    times_completed INTEGER NOT NULL DEFAULT 0 CHECK (times_completed >= 0),
    created_on INTEGER NOT NULL,
    modified_on INTEGER NOT NULL,
    CHECK (created_on <= modified_on)
);

CREATE INDEX IF NOT EXISTS recipes_created_on_idx ON recipes (created_on);
CREATE INDEX IF NOT EXISTS recipes_name_idx ON recipes (name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS instructions (
    recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    step TEXT NOT NULL,
    PRIMARY KEY (recipe_id, position)
);

CREATE TABLE IF NOT EXISTS ingredients (
    id TEXT NOT NULL,
    recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    base_ingredient_id INTEGER NOT NULL REFERENCES base_ingredients(id),
    quantity TEXT,
    method TEXT,
    display TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (recipe_id, id),
    UNIQUE (recipe_id, position)
);

CREATE TABLE IF NOT EXISTS recipe_categories (
    recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
    category_id INTEGER NOT NULL REFERENCES categories(id),
    position INTEGER NOT NULL,
    PRIMARY KEY (recipe_id, category_id)
);

CREATE TABLE IF NOT EXISTS recipe_cuisines (
    recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
    cuisine_id INTEGER NOT NULL REFERENCES cuisines(id),
    position INTEGER NOT NULL,
    PRIMARY KEY (recipe_id, cuisine_id)
);

CREATE TABLE IF NOT EXISTS recipe_week_menus (
    id TEXT PRIMARY KEY,
    recipe_id TEXT REFERENCES recipes(id) ON DELETE SET NULL,
    date TEXT NOT NULL,
    created_on INTEGER NOT NULL,
    UNIQUE (recipe_id, date)
);

CREATE INDEX IF NOT EXISTS recipe_week_menus_date_idx ON recipe_week_menus (date);

CREATE TABLE IF NOT EXISTS settings (
    key VARCHAR(128) PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
