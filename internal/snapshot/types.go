package snapshot

import "time"

// Meta records how a repository's snapshot was produced.
type Meta struct {
	TakenAt        time.Time
	RecordsRead    int
	RecordsSkipped int
}

// RepoStats summarizes one repository's snapshot for status reporting.
type RepoStats struct {
	Owner        string
	Name         string
	DisplayName  string
	Days         int64
	TotalCount   int64
	TotalUniques int64
	FirstDay     time.Time
	LastDay      time.Time
	TakenAt      time.Time
}

// Stats holds aggregate statistics about the snapshot database.
type Stats struct {
	Repos     []RepoStats
	TotalDays int64
}
