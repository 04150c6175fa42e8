package db

// SQL fragments and formats shared across queries
const (
	// sqlTimeFormat is how timestamps are written so SQLite date functions can read them.
	sqlTimeFormat = "2006-01-02 15:04:05"

	// sqlRecordedSinceClause filters the sample log by a lower time bound
	sqlRecordedSinceClause = "WHERE recorded_at >= ?"

	// schemaVersion is bumped whenever migrate gains a step
	schemaVersion = "1"

	metaSchemaVersion  = "schema_version"
	metaLegacyImported = "legacy_imported"
)
