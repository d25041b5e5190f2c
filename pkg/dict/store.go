package dict

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS definitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	term TEXT NOT NULL,
	reading TEXT NOT NULL DEFAULT '',
	html TEXT NOT NULL,
	UNIQUE(term, reading)
);
CREATE INDEX IF NOT EXISTS idx_definitions_term ON definitions(term)
`

// InitDefinitionDB runs migrations on the given DB connection.
func InitDefinitionDB(db *sql.DB) error {
	for _, s := range strings.Split(migrationsSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// ImportJMdict writes dictionary entries into the definitions table inside
// one transaction. Each surface form (kanji and kana elements alike) gets a
// row so lookups hit without a join. Returns the number of rows written.
func ImportJMdict(db *sql.DB, entries []JMdictEntry) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO definitions (term, reading, html) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, e := range entries {
		html := e.DefinitionHTML()
		if html == "" {
			continue
		}
		reading := e.PrimaryReading()

		terms := make([]string, 0, len(e.Kanji)+len(e.Kana))
		for _, k := range e.Kanji {
			terms = append(terms, k.Text)
		}
		for _, k := range e.Kana {
			terms = append(terms, k.Text)
		}
		for _, term := range terms {
			if term == "" {
				continue
			}
			res, err := stmt.Exec(term, reading, html)
			if err != nil {
				return count, fmt.Errorf("failed to insert %s: %w", term, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				count++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return count, err
	}
	return count, nil
}

// SQLiteDefinitions serves definition lookups from the sqlite store.
// database/sql pools connections, so the source is safe for concurrent
// reads without an Exclusive wrapper.
type SQLiteDefinitions struct {
	db   *sql.DB
	name string
}

// NewSQLiteDefinitions wraps an initialized definitions database.
func NewSQLiteDefinitions(db *sql.DB, name string) *SQLiteDefinitions {
	return &SQLiteDefinitions{db: db, name: name}
}

// OpenDefinitionStore opens (creating if needed) a definitions database at
// path and returns it as a DefinitionSource.
func OpenDefinitionStore(path, name string) (*SQLiteDefinitions, *sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open definition store: %w", err)
	}
	if err := InitDefinitionDB(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate definition store: %w", err)
	}
	return NewSQLiteDefinitions(db, name), db, nil
}

// Name implements Source.
func (s *SQLiteDefinitions) Name() string { return s.name }

// LookupDefinition implements DefinitionSource. Multiple entries under one
// term concatenate in insertion order.
func (s *SQLiteDefinitions) LookupDefinition(term string) (string, bool, error) {
	rows, err := s.db.Query(`SELECT html FROM definitions WHERE term = ? ORDER BY id`, term)
	if err != nil {
		return "", false, fmt.Errorf("definition query: %w", err)
	}
	defer rows.Close()

	var parts []string
	for rows.Next() {
		var html string
		if err := rows.Scan(&html); err != nil {
			return "", false, err
		}
		parts = append(parts, html)
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}
	if len(parts) == 0 {
		return "", false, nil
	}
	return strings.Join(parts, "\n"), true, nil
}
