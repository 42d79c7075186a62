package models

import (
	"fmt"
	"time"
)

// StudySession is a span of time spent on a project.
// A nil EndTime means the session is still running.
type StudySession struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	ProjectID   int64      `gorm:"not null" json:"project_id"`
	StartTime   Timestamp  `gorm:"not null" json:"start_time"`
	EndTime     *Timestamp `json:"end_time"`
	Description *string    `json:"description"`
}

// TableName pins the table name used by the schema.
func (StudySession) TableName() string {
	return "study_sessions"
}

// Active reports whether the session has not been clocked out.
func (s StudySession) Active() bool {
	return s.EndTime == nil
}

// Duration returns the session length, measured against now while active.
func (s StudySession) Duration(now time.Time) time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime.Time)
	}
	return now.Sub(s.StartTime.Time)
}

// ClockInInput is the optional request body for starting a session.
type ClockInInput struct {
	Description *string `json:"description"`
}

// ManualSession is a fully specified, closed session supplied by the caller.
// It is used both to insert past sessions and to replace an existing one.
type ManualSession struct {
	ProjectID   int64     `json:"project_id"`
	StartTime   Timestamp `json:"start_time"`
	EndTime     Timestamp `json:"end_time"`
	Description *string   `json:"description"`
}

// Validate checks the session is a well-formed closed interval.
func (m ManualSession) Validate() error {
	switch {
	case m.ProjectID <= 0:
		return fmt.Errorf("%w: project_id is required", ErrInvalid)
	case m.StartTime.IsZero():
		return fmt.Errorf("%w: start_time is required", ErrInvalid)
	case m.EndTime.IsZero():
		return fmt.Errorf("%w: end_time is required", ErrInvalid)
	case m.EndTime.Before(m.StartTime.Time):
		return fmt.Errorf("%w: end_time is before start_time", ErrInvalid)
	}
	return nil
}

// Session builds the stored form of m.
func (m ManualSession) Session() StudySession {
	end := NewTimestamp(m.EndTime.Time)
	return StudySession{
		ProjectID:   m.ProjectID,
		StartTime:   NewTimestamp(m.StartTime.Time),
		EndTime:     &end,
		Description: m.Description,
	}
}
