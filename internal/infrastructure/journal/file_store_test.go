package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/rigup/internal/domain"
)

func sampleRecord(stage, command string) domain.JournalRecord {
	return domain.JournalRecord{
		Timestamp: time.Now(),
		Session:   "test-session",
		Stage:     stage,
		Command:   command,
		Tier:      domain.TierChecked,
		Mode:      domain.ModeSimulate,
	}
}

func TestFileStoreSaveAndRecords(t *testing.T) {
	store := &FileStore{path: filepath.Join(t.TempDir(), "journal.jsonl")}

	if err := store.Save(sampleRecord(domain.StagePartition, "parted -s /dev/sda mklabel gpt")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Save(sampleRecord(domain.StageMount, "mount /dev/sda2 /mnt")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	records, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Newest first.
	if records[0].Stage != domain.StageMount {
		t.Fatalf("records not newest-first: %+v", records[0])
	}
}

func TestFileStoreSearchAndLimit(t *testing.T) {
	store := &FileStore{path: filepath.Join(t.TempDir(), "journal.jsonl")}
	for _, cmd := range []string{"lsblk", "mount /dev/sda2 /mnt", "mount /dev/sda1 /mnt/boot"} {
		if err := store.Save(sampleRecord(domain.StageMount, cmd)); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	records, err := store.Records(1, "mount")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("limit ignored: got %d records", len(records))
	}
	if records[0].Command != "mount /dev/sda1 /mnt/boot" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestFileStoreClearOnMissingFile(t *testing.T) {
	store := &FileStore{path: filepath.Join(t.TempDir(), "journal.jsonl")}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on missing file should succeed, got %v", err)
	}
}

func TestSQLiteStoreFallsBackToFile(t *testing.T) {
	// A store whose db handle is nil must still persist records.
	store := &SQLiteStore{path: filepath.Join(t.TempDir(), "journal.db")}
	if err := store.Save(sampleRecord(domain.StageBase, "pacstrap /mnt base")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	records, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}
