package journal

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/doeshing/rigup/internal/domain"
	"github.com/doeshing/rigup/internal/pkg/filesystem"
	"github.com/doeshing/rigup/internal/ports"
)

// FileStore appends journal records to a jsonl file. It backs the
// sqlite store when the database cannot be opened and serves as the
// standalone backend when the config selects "file".
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a journal store under ~/.rigup/journal.jsonl.
func NewFileStore() *FileStore {
	return &FileStore{
		path: filepath.Join(filesystem.RigupDir(), "journal.jsonl"),
	}
}

// Save implements ports.JournalStore.
func (f *FileStore) Save(record domain.JournalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := mkdirAll(filepath.Dir(f.path)); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = file.Write(data)
	return err
}

// Records loads journal entries, newest first (limit/search optional).
func (f *FileStore) Records(limit int, search string) ([]domain.JournalRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var records []domain.JournalRecord
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if len(line) == 0 {
			continue
		}
		var rec domain.JournalRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if search != "" && !matches(rec, search) {
			continue
		}
		records = append(records, rec)
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

// Clear removes the journal file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportJSON copies the journal to another jsonl file.
func (f *FileStore) ExportJSON(dest string) error {
	records, err := f.Records(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, records)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func matches(rec domain.JournalRecord, search string) bool {
	return strings.Contains(rec.Command, search) || strings.Contains(rec.Stage, search)
}

func writeJSONL(dest string, records []domain.JournalRecord) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func mkdirAll(dir string) error {
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

var _ ports.JournalStore = (*FileStore)(nil)
