package models

import (
	"time"
)

// RunStatus represents the outcome of an extraction run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IsValid checks if the run status is valid
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed:
		return true
	}
	return false
}

// Run records one execution of the fetch-and-extract pipeline
type Run struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Status        string     `gorm:"size:20;index" json:"status"`
	EmailsFetched int        `json:"emails_fetched"`
	EmailsNew     int        `json:"emails_new"`
	Rows          int        `json:"rows"`
	Error         string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt     time.Time  `gorm:"index" json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}
