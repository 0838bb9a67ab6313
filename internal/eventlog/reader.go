package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"
)

// ReadFile parses an entire log file into records, header excluded.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// Read parses log rows from r. The first row must be the standard
// header; each following row must have exactly six fields.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected header column %d: %q", i+1, header[i])
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}

		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}
}

func parseRow(row []string) (Record, error) {
	if row[0] == "" {
		return Record{}, fmt.Errorf("empty event name")
	}

	start, err := parseStamp(row[1], row[2])
	if err != nil {
		return Record{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseStamp(row[3], row[4])
	if err != nil {
		return Record{}, fmt.Errorf("end: %w", err)
	}

	return Record{
		Event: row[0],
		Start: start,
		End:   end,
		Notes: row[5],
	}, nil
}

// parseStamp combines a date and time column into one timestamp. Both
// columns must agree on being present or absent.
func parseStamp(date, clock string) (time.Time, error) {
	if date == absent || clock == absent {
		if date != clock {
			return time.Time{}, fmt.Errorf("mismatched %s columns: %q / %q", absent, date, clock)
		}
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
