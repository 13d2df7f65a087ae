package postgres

import "context"

// tableStatements create every table the portal reads or writes.
var tableStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL,
		permissions   TEXT[] NOT NULL DEFAULT '{}',
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		company_name TEXT NOT NULL,
		email        TEXT NOT NULL UNIQUE,
		phone        TEXT NOT NULL DEFAULT '',
		address      TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		client_id   TEXT NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
		start_date  TIMESTAMPTZ,
		end_date    TIMESTAMPTZ,
		budget      DOUBLE PRECISION,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resources (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		url         TEXT NOT NULL DEFAULT '',
		type        TEXT NOT NULL,
		client_id   TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		action      TEXT NOT NULL,
		timestamp   TIMESTAMPTZ NOT NULL,
		entity_type TEXT NOT NULL DEFAULT '',
		entity_id   TEXT NOT NULL DEFAULT '',
		user_id     TEXT NOT NULL,
		client_id   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		type       TEXT NOT NULL,
		is_read    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// columnStatements add columns introduced after the first schema so older
// databases converge on the current shape.
var columnStatements = []string{
	`ALTER TABLE clients ADD COLUMN IF NOT EXISTS logo_url TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE clients ADD COLUMN IF NOT EXISTS user_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE projects ADD COLUMN IF NOT EXISTS manager_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE activities ADD COLUMN IF NOT EXISTS project_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE activities ADD COLUMN IF NOT EXISTS details JSONB`,
	`ALTER TABLE notifications ADD COLUMN IF NOT EXISTS client_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE notifications ADD COLUMN IF NOT EXISTS link TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS projects_client_id_idx ON projects (client_id)`,
	`CREATE INDEX IF NOT EXISTS activities_client_id_idx ON activities (client_id, timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS notifications_user_id_idx ON notifications (user_id, created_at DESC)`,
}

// InitializeDatabase creates the tables and columns the portal needs. It does
// nothing in fallback mode and reports failure instead of returning an error;
// the process keeps serving either way.
func (g *Gateway) InitializeDatabase(ctx context.Context) bool {
	if g.InFallback() {
		g.log.Warn().Msg("database in fallback mode, skipping schema bootstrap")
		return false
	}

	statements := append(append([]string{}, tableStatements...), columnStatements...)
	for _, stmt := range statements {
		if _, err := g.Exec(ctx, stmt); err != nil {
			g.log.Error().Err(err).Msg("schema bootstrap failed")
			return false
		}
	}
	g.log.Info().Int("statements", len(statements)).Msg("schema bootstrap complete")
	return true
}
