package journal

import (
	"database/sql"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/rigup/internal/domain"
	"github.com/doeshing/rigup/internal/pkg/filesystem"
	"github.com/doeshing/rigup/internal/ports"
)

// SQLiteStore persists the session journal in a SQLite database.
// One row per guarded operation, simulated ones included: the journal
// is the durable record of what the guard decided, not just of what
// ran.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.rigup/journal.db database.
// When the database cannot be opened the store degrades to the JSONL
// file backend rather than losing records.
func NewSQLiteStore() *SQLiteStore {
	return newSQLiteStoreAt(filepath.Join(filesystem.RigupDir(), "journal.db"))
}

func newSQLiteStoreAt(path string) *SQLiteStore {
	mkdirAll(filepath.Dir(path))
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS operations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		session TEXT,
		stage TEXT,
		command TEXT,
		tier TEXT,
		mode TEXT,
		executed INTEGER,
		success INTEGER,
		exit_code INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

// Save implements ports.JournalStore.
func (s *SQLiteStore) Save(record domain.JournalRecord) error {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO operations
		(timestamp, session, stage, command, tier, mode, executed, success, exit_code, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(domain.TimestampFormat),
		record.Session,
		record.Stage,
		record.Command,
		string(record.Tier),
		string(record.Mode),
		boolToInt(record.Executed),
		boolToInt(record.Success),
		record.ExitCode,
		record.DurationMS,
	)
	return err
}

// Records returns journal entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.JournalRecord, error) {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, session, stage, command, tier, mode, executed, success, exit_code, duration_ms FROM operations")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE command LIKE ? OR stage LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC, id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.JournalRecord
	for rows.Next() {
		var rec domain.JournalRecord
		var ts, tier, mode string
		var executed, success int
		if err := rows.Scan(&ts, &rec.Session, &rec.Stage, &rec.Command, &tier, &mode, &executed, &success, &rec.ExitCode, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Tier = domain.RiskTier(tier)
		rec.Mode = domain.Mode(mode)
		rec.Executed = executed == 1
		rec.Success = success == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all journal entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Clear()
	}
	_, err := s.db.Exec("DELETE FROM operations")
	return err
}

// ExportJSON writes the journal to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, records)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func fallbackPath(dbPath string) string {
	return strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".jsonl"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.JournalStore = (*SQLiteStore)(nil)
