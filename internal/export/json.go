package export

import (
	"fmt"
	"os"

	"github.com/sadopc/woolywalk/internal/calendar"
	"github.com/sadopc/woolywalk/internal/challenge"
	"github.com/sadopc/woolywalk/internal/store"
)

// DefaultBackupName is the file name offered for progress backups.
const DefaultBackupName = "wooly-walking-progress.json"

// maxBackupSize bounds what ReadBackup will load into memory.
const maxBackupSize = 16 << 20

// ToJSON writes the whole progress document as indented JSON.
func ToJSON(doc *store.Document, path string) error {
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// ReadBackup loads a backup written by ToJSON (or by hand) and normalizes it
// against the roster and calendar.
func ReadBackup(path string, roster challenge.Roster, days []calendar.Day) (*store.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	if info.Size() > maxBackupSize {
		return nil, fmt.Errorf("read backup: %s is too large (%d bytes)", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return store.ParseDocument(data, roster, days)
}
