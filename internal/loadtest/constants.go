package loadtest

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultStudents      = 200
	DefaultTimeout       = 10 * time.Second
	EmailDomain          = "loadtest.mergington.edu"
	PercentageMultiplier = 100
)
