// Package series reconstructs daily traffic series from raw fetch records
// and computes derived metrics over them.
package series

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// DailyObservation is one day's traffic as reported by a single fetch.
// Day is normalized to midnight UTC.
type DailyObservation struct {
	Day     time.Time
	Count   int
	Uniques int
}

// FetchRecord is one parsed fetch response: the window totals reported by
// the API plus the per-day observations covering its rolling window.
type FetchRecord struct {
	Count   int
	Uniques int
	Days    []DailyObservation
}

// ParseError reports a record that could not be parsed. Index is the
// 1-based position of the record in its store, in append order.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// timestampFormats covers the day formats the traffic API has emitted.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDay parses an observation timestamp and truncates it to its UTC
// calendar day.
func parseDay(s string) (time.Time, error) {
	for _, f := range timestampFormats {
		if t, err := time.Parse(f, s); err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}

// ParseRecord converts one raw JSON record into a FetchRecord.
//
// Per-day entries may omit count or uniques (the API drops zero-traffic
// fields); those default to zero. Malformed JSON or a missing views list is
// fatal for the record.
func ParseRecord(raw string, index int) (FetchRecord, error) {
	if !gjson.Valid(raw) {
		return FetchRecord{}, &ParseError{Index: index, Err: fmt.Errorf("malformed JSON")}
	}

	root := gjson.Parse(raw)
	views := root.Get("views")
	if !views.Exists() || !views.IsArray() {
		return FetchRecord{}, &ParseError{Index: index, Err: fmt.Errorf("missing views list")}
	}

	rec := FetchRecord{
		Count:   int(root.Get("count").Int()),
		Uniques: int(root.Get("uniques").Int()),
	}

	var dayErr error
	views.ForEach(func(_, v gjson.Result) bool {
		day, err := parseDay(v.Get("timestamp").String())
		if err != nil {
			dayErr = err
			return false
		}
		rec.Days = append(rec.Days, DailyObservation{
			Day:     day,
			Count:   int(v.Get("count").Int()),
			Uniques: int(v.Get("uniques").Int()),
		})
		return true
	})
	if dayErr != nil {
		return FetchRecord{}, &ParseError{Index: index, Err: dayErr}
	}

	return rec, nil
}

// ParseAll converts raw records in append order. Records that fail to parse
// are skipped and reported in the returned error slice; valid records are
// always returned so one bad append never hides the rest of the history.
func ParseAll(raws []string) ([]FetchRecord, []*ParseError) {
	var records []FetchRecord
	var errs []*ParseError

	for i, raw := range raws {
		rec, err := ParseRecord(raw, i+1)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				errs = append(errs, pe)
			} else {
				errs = append(errs, &ParseError{Index: i + 1, Err: err})
			}
			continue
		}
		records = append(records, rec)
	}

	return records, errs
}
