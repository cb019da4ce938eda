package domain

import "time"

// Process exit codes. ExitDeclined covers operator-declined branch
// choices; ExitFatal covers failed required operations and rejected
// confirmations.
const (
	ExitOK       = 0
	ExitDeclined = 1
	ExitFatal    = 2
)

// Stage names, in execution order. The sequencer owns the order;
// these constants tag journal rows and diagnostics.
const (
	StageEnvironment = "environment"
	StageClock       = "clock"
	StagePartition   = "partition"
	StageEncrypt     = "encrypt"
	StageMount       = "mount"
	StageBase        = "base"
	StageSystem      = "system"
	StageBootloader  = "bootloader"
	StageUser        = "user"
)

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Journal constants
const (
	// DefaultJournalLimit is the default number of journal records to display
	DefaultJournalLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
