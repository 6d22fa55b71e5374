package entities

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// TimeSession is one recorded start/stop interval of active work on a task.
// A session belongs to exactly one task; at most one session per task is
// active at any moment.
type TimeSession struct {
	ID              string     `json:"id" validate:"required,uuid"`
	TaskID          string     `json:"task_id" validate:"required,uuid"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	IsActive        bool       `json:"is_active"`
}

// NewTimeSession creates an active session for a task starting at start.
func NewTimeSession(taskID string, start time.Time) *TimeSession {
	return &TimeSession{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		StartTime: start,
		IsActive:  true,
	}
}

// CloseAt stops the session, fixing DurationSeconds from the server-side
// timestamps. DurationSeconds is set once and never recomputed: closing an
// already-closed session is a no-op.
func (s *TimeSession) CloseAt(end time.Time) {
	if !s.IsActive || s.EndTime != nil {
		return
	}
	closed := end
	s.EndTime = &closed
	s.DurationSeconds = int64(end.Sub(s.StartTime) / time.Second)
	if s.DurationSeconds < 0 {
		s.DurationSeconds = 0
	}
	s.IsActive = false
}

// ElapsedSeconds returns the worked seconds as of now. For an active session
// this is derived from the wall clock on every call; for a closed session it
// is the frozen duration.
func (s *TimeSession) ElapsedSeconds(now time.Time) int64 {
	if !s.IsActive {
		return s.DurationSeconds
	}
	elapsed := int64(now.Sub(s.StartTime) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Validate checks if session fields meet business rules
func (s *TimeSession) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// GetID returns the session id.
func (s *TimeSession) GetID() string {
	return s.ID
}
