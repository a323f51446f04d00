package domain

import "time"

// SyncStats holds statistics about an ingestion run.
type SyncStats struct {
	SourceID      string
	StartID       int
	LastID        int // last draw written, 0 if none
	Written       int
	New           int
	Replaced      int
	Published     int
	PublishErrors int
	Duration      time.Duration
}
