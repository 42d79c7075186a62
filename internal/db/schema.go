package db

// schema holds the table definitions applied on Open.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS study_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT,
		description TEXT,
		FOREIGN KEY (project_id) REFERENCES projects (id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_study_sessions_project ON study_sessions (project_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_study_sessions_start ON study_sessions (start_time)`,
}

// activeSessionIndexName is reported by SQLite when a second open session
// is inserted.
const activeSessionIndexName = "idx_study_sessions_single_active"

// activeSessionIndex allows at most one row with a NULL end_time: every
// such row has the same indexed value.
const activeSessionIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ` + activeSessionIndexName + `
	ON study_sessions ((end_time IS NULL)) WHERE end_time IS NULL`
