package trafficstore

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// SplitError reports a store whose concatenated records could not be
// separated into valid JSON objects.
type SplitError struct {
	Record int // 1-based position of the offending record
	Offset int // byte offset where the problem was detected
	Msg    string
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("split record %d at byte %d: %s", e.Record, e.Offset, e.Msg)
}

// Split separates a legacy store body into its individual JSON object
// strings, in append order.
//
// Legacy stores are successive API responses written back to back with no
// delimiter, so the only boundary is a top-level closing brace immediately
// followed by the next opening brace. The scan tracks string literals and
// brace depth rather than searching for "}{" textually: a "}{" inside a
// string or a nested object is not a boundary. A store holding exactly one
// object comes back as a one-element slice, unchanged.
//
// Every piece is verified to parse as JSON on its own; a piece that does not
// is reported as a SplitError with its record position rather than dropped.
func Split(data []byte) ([]string, error) {
	var records []string

	depth := 0
	inString := false
	escaped := false
	start := -1

	for i, b := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth < 0 {
				return nil, &SplitError{Record: len(records) + 1, Offset: i, Msg: "unbalanced closing brace"}
			}
			if depth == 0 {
				records = append(records, string(data[start:i+1]))
				start = -1
			}
		case ' ', '\t', '\r', '\n':
			// whitespace between objects is tolerated
		default:
			if depth == 0 {
				return nil, &SplitError{Record: len(records) + 1, Offset: i, Msg: fmt.Sprintf("unexpected byte %q outside any record", b)}
			}
		}
	}

	if depth != 0 {
		return nil, &SplitError{Record: len(records) + 1, Offset: len(data), Msg: "unterminated record"}
	}
	if len(records) == 0 {
		return nil, &SplitError{Record: 1, Offset: 0, Msg: "no records found"}
	}

	for i, r := range records {
		if !gjson.Valid(r) {
			return nil, &SplitError{Record: i + 1, Offset: 0, Msg: "record is not valid JSON"}
		}
	}

	return records, nil
}
