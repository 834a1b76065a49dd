package store

// schemaSQL is portable between SQLite and Dolt's MySQL dialect.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS scenarios (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    mode VARCHAR(16) NOT NULL,
    content_hash VARCHAR(16) NOT NULL,
    body TEXT NOT NULL,
    created_at VARCHAR(32) NOT NULL,
    updated_at VARCHAR(32) NOT NULL
)`

func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}
