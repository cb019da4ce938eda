package domain

import "time"

// JournalRecord is one row in the session journal: a single guarded
// operation, whether it ran or was simulated, and how it ended.
type JournalRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Session    string    `json:"session"`
	Stage      string    `json:"stage"`
	Command    string    `json:"command"`
	Tier       RiskTier  `json:"tier"`
	Mode       Mode      `json:"mode"`
	Executed   bool      `json:"executed"`
	Success    bool      `json:"success"`
	ExitCode   int       `json:"exit_code"`
	DurationMS int64     `json:"duration_ms"`
}
