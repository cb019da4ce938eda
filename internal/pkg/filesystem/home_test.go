package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPathHomePrefix(t *testing.T) {
	want := filepath.Join(UserHomeDir(), ".rigup", "logs")
	if got := ExpandPath("~/.rigup/logs"); got != want {
		t.Fatalf("ExpandPath(~/.rigup/logs) = %q, want %q", got, want)
	}
	if got := ExpandPath("~"); got != UserHomeDir() {
		t.Fatalf("ExpandPath(~) = %q", got)
	}
}

func TestExpandPathAbsoluteUnchanged(t *testing.T) {
	if got := ExpandPath("/var/log/rigup"); got != "/var/log/rigup" {
		t.Fatalf("ExpandPath(/var/log/rigup) = %q", got)
	}
}

func TestExpandPathRelativeUsesWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	want := filepath.Join(wd, "logs")
	if got := ExpandPath("./logs"); got != want {
		t.Fatalf("ExpandPath(./logs) = %q, want %q", got, want)
	}
	if got := ExpandPath("logs"); got != want {
		t.Fatalf("ExpandPath(logs) = %q, want %q", got, want)
	}
}
