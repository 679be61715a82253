// Package loadtest drives concurrent signup and unregister traffic against a
// running activities server and verifies the resulting rosters.
package loadtest

import (
	"time"

	"github.com/mergington/activities/internal/domain/types"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Students   int           // Number of synthetic students to sign up
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Activities []string      // Target activities; empty means all
	Verbose    bool          // Enable verbose logging
}

// Op is a roster operation issued by a worker.
type Op string

// Roster operations.
const (
	OpSignup     Op = "signup"
	OpUnregister Op = "unregister"
)

// Job is one roster request.
type Job struct {
	Op       Op
	Activity string
	Email    string
}

// Assignment pairs a synthetic student with the activity they join.
type Assignment struct {
	Activity string
	Email    string
}

// Outcome tallies responses for one phase.
type Outcome struct {
	OK       int // 200
	Rejected int // 400 with a detail body
	Failed   int // transport errors and any other status
}

// Stats holds run statistics.
type Stats struct {
	Students   int
	Signups    Outcome
	Unregister Outcome
	Before     types.Directory
	After      types.Directory
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
