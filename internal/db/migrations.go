package db

import "context"

// timeFixups trim the " +0000 UTC" suffix that time.Time's String form
// leaves on rows written before timestamps were formatted explicitly.
// SQLite's date functions cannot parse the longer form.
var timeFixups = []string{
	`UPDATE upload_hours SET recorded_at = SUBSTR(recorded_at, 1, 19)
	 WHERE length(recorded_at) > 19 AND recorded_at LIKE '% UTC'`,
	`UPDATE upload_hours SET published_at = SUBSTR(published_at, 1, 19)
	 WHERE length(published_at) > 19 AND published_at LIKE '% UTC'`,
	`UPDATE fetch_runs SET fetched_at = SUBSTR(fetched_at, 1, 19)
	 WHERE length(fetched_at) > 19 AND fetched_at LIKE '% UTC'`,
}

// migrate brings an existing database up to schemaVersion.
func (db *DB) migrate(ctx context.Context) error {
	if err := db.execAll(ctx, timeFixups); err != nil {
		return err
	}
	return db.SetMeta(ctx, metaSchemaVersion, schemaVersion)
}
