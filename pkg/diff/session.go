package diff

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the overall outcome of a comparison run
type Status string

const (
	// StatusMatch indicates the objects are fully equivalent
	StatusMatch Status = "match"
	// StatusMismatch indicates the comparison ran and found differences
	StatusMismatch Status = "mismatch"
	// StatusFailed indicates the comparison could not run
	StatusFailed Status = "failed"
)

// ExitCode returns the process exit code for the status, so scripts can
// tell "differences found" apart from "comparison failed"
func (s Status) ExitCode() int {
	switch s {
	case StatusMatch:
		return 0
	case StatusMismatch:
		return 1
	default:
		return 2
	}
}

// Session wraps a single comparison run with identity and timing
type Session struct {
	ID        string        `json:"id"`
	Left      string        `json:"left"`
	Right     string        `json:"right"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"-"`
	Status    Status        `json:"status"`
	Result    *Result       `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// NewSession starts a comparison session
func NewSession(left, right string) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Left:      left,
		Right:     right,
		StartTime: time.Now(),
	}
}

// Finish records the outcome and timing of the run
func (s *Session) Finish(result *Result, err error) {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
	s.Result = result

	switch {
	case err != nil:
		s.Status = StatusFailed
		s.Error = err.Error()
	case result.Matches:
		s.Status = StatusMatch
	default:
		s.Status = StatusMismatch
	}
}
