package store

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the rule table. seq preserves insertion order.
const Schema = `
CREATE TABLE IF NOT EXISTS rules (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    kind TEXT NOT NULL,
    rule_string TEXT NOT NULL DEFAULT '',
    sources TEXT,
    ast TEXT,
    origin TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rules_origin ON rules(origin);
CREATE INDEX IF NOT EXISTS idx_rules_created_at ON rules(created_at);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`

const (
	insertRule = `INSERT INTO rules (id, name, kind, rule_string, sources, ast, origin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectRules    = `SELECT id, name, kind, rule_string, sources, ast, origin, created_at FROM rules`
	selectRuleByID = selectRules + ` WHERE id = ?`
	listRules      = selectRules + ` ORDER BY seq`
	deleteRule     = `DELETE FROM rules WHERE id = ?`
	deleteByOrigin = `DELETE FROM rules WHERE origin = ?`
	deleteBefore   = `DELETE FROM rules WHERE created_at < ?`
	trimRules      = `DELETE FROM rules WHERE seq NOT IN (SELECT seq FROM rules ORDER BY seq DESC LIMIT ?)`
	countRules     = `SELECT COUNT(*) FROM rules`
)
