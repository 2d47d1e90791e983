// Package trafficstore manages the per-repository append-only log files that
// hold raw traffic API responses.
//
// The native format is newline-delimited JSON: one fetch response per line,
// each line independently parseable. Stores collected before the format
// change are a bare concatenation of JSON objects with no delimiter; those
// are read through the boundary-detecting splitter and can be rewritten in
// the native format with Migrate.
package trafficstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// Format identifies how a store file delimits its records.
type Format string

const (
	// FormatNDJSON is the native format: one record per line.
	FormatNDJSON Format = "ndjson"
	// FormatLegacy is the historical format: records concatenated with no
	// separator.
	FormatLegacy Format = "legacy"
)

const (
	ndjsonExt = ".ndjson"
	legacyExt = ".json"
)

// StoreReadError reports a store that could not be read at all: missing,
// unreadable, or empty. It is fatal for that repository's reconstruction
// only; other repositories proceed independently.
type StoreReadError struct {
	Name string
	Path string
	Err  error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

// Store is one repository's append-only log. Reads never mutate the file;
// appends never rewrite existing bytes.
type Store struct {
	name string
	dir  string
}

// Open returns a handle on the store for the named repository. The file
// itself is located lazily: the native file wins if present, otherwise the
// legacy file, otherwise appends create a native file.
func Open(dir, name string) *Store {
	return &Store{name: name, dir: dir}
}

// Name returns the display name the store is keyed by.
func (s *Store) Name() string { return s.name }

// Path returns the store file currently backing this repository, along with
// its format. If no file exists yet, it returns the native path the next
// append will create.
func (s *Store) Path() (string, Format) {
	native := filepath.Join(s.dir, s.name+ndjsonExt)
	if _, err := os.Stat(native); err == nil {
		return native, FormatNDJSON
	}
	legacy := filepath.Join(s.dir, s.name+legacyExt)
	if _, err := os.Stat(legacy); err == nil {
		return legacy, FormatLegacy
	}
	return native, FormatNDJSON
}

// Exists reports whether any store file is present for this repository.
func (s *Store) Exists() bool {
	path, _ := s.Path()
	_, err := os.Stat(path)
	return err == nil
}

// Append adds one raw fetch response to the store. On a native store the
// blob is written as a single line; on a legacy store it is written verbatim
// with no separator, preserving the format already on disk.
func (s *Store) Append(blob []byte) error {
	if !gjson.ValidBytes(blob) {
		return fmt.Errorf("store %s: refusing to append malformed JSON", s.name)
	}

	path, format := s.Path()
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("store %s: create directory: %w", s.name, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("store %s: open for append: %w", s.name, err)
	}
	defer f.Close()

	if format == FormatNDJSON {
		line := append(bytes.TrimRight(compactLine(blob), "\n"), '\n')
		_, err = f.Write(line)
	} else {
		_, err = f.Write(blob)
	}
	if err != nil {
		return fmt.Errorf("store %s: append: %w", s.name, err)
	}
	return nil
}

// compactLine flattens a JSON blob onto one line so it is safe as an NDJSON
// record. Content is untouched; only inter-token newlines are removed.
func compactLine(blob []byte) []byte {
	if !bytes.ContainsAny(blob, "\n\r") {
		return blob
	}
	var out bytes.Buffer
	inString := false
	escaped := false
	for _, b := range blob {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			out.WriteByte(b)
			continue
		}
		switch b {
		case '"':
			inString = true
			out.WriteByte(b)
		case '\n', '\r':
			// drop
		default:
			out.WriteByte(b)
		}
	}
	return out.Bytes()
}

// ReadRecords returns the store's raw records in append order, regardless of
// on-disk format. A missing or empty store is a StoreReadError.
func (s *Store) ReadRecords() ([]string, error) {
	path, format := s.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StoreReadError{Name: s.name, Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &StoreReadError{Name: s.name, Path: path, Err: fmt.Errorf("store is empty")}
	}

	if format == FormatNDJSON {
		return splitLines(data), nil
	}
	return Split(data)
}

// splitLines reads NDJSON records: every non-blank line is one record.
func splitLines(data []byte) []string {
	var records []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			records = append(records, line)
		}
	}
	return records
}

// Migrate rewrites a legacy store in the native NDJSON format. The original
// file is kept beside the new one with a .bak suffix. Returns false if the
// store is already native or does not exist.
func (s *Store) Migrate() (bool, error) {
	path, format := s.Path()
	if format != FormatLegacy {
		return false, nil
	}

	records, err := s.ReadRecords()
	if err != nil {
		return false, err
	}

	native := filepath.Join(s.dir, s.name+ndjsonExt)
	tmp := native + ".tmp"

	var buf bytes.Buffer
	for _, r := range records {
		buf.Write(compactLine([]byte(r)))
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("store %s: write migrated store: %w", s.name, err)
	}
	if err := os.Rename(tmp, native); err != nil {
		return false, fmt.Errorf("store %s: install migrated store: %w", s.name, err)
	}
	if err := os.Rename(path, path+".bak"); err != nil {
		return false, fmt.Errorf("store %s: archive legacy store: %w", s.name, err)
	}
	return true, nil
}

// Info describes a store file for status reporting.
type Info struct {
	Name      string
	Path      string
	Format    Format
	SizeBytes int64
	Records   int
}

// Stat returns on-disk details for this store. Records is -1 when the file
// exists but its records cannot be separated.
func (s *Store) Stat() (Info, error) {
	path, format := s.Path()
	info := Info{Name: s.name, Path: path, Format: format}

	fi, err := os.Stat(path)
	if err != nil {
		return info, &StoreReadError{Name: s.name, Path: path, Err: err}
	}
	info.SizeBytes = fi.Size()

	records, err := s.ReadRecords()
	if err != nil {
		info.Records = -1
		return info, nil
	}
	info.Records = len(records)
	return info, nil
}
