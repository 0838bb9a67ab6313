package eventlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Create makes the log file with its header row if it does not already
// exist, creating parent directories as needed. An existing file is left
// untouched; the header is written exactly once per file, ever.
func Create(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermissions)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("create log file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return fmt.Errorf("write log header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write log header: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync log file: %w", err)
	}
	return f.Close()
}

// Append durably writes one record as a CSV row. The row is flushed and
// fsynced before Append returns; on any error the caller must treat the
// operation that produced the record as not committed.
func Append(path string, r Record) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, filePermissions)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(r.fields()); err != nil {
		f.Close()
		return fmt.Errorf("append log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("append log row: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync log file: %w", err)
	}
	return f.Close()
}
