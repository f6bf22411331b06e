package loadgen

import (
	"time"
)

// Sampler is one HTTP request definition from the test plan.
type Sampler struct {
	Label  string
	Method string
	URL    string
	Body   string
}

type Config struct {
	Samplers []Sampler

	// Closed-loop virtual users, matching JMeter thread-group semantics
	NumUsers  int
	RampUpSec int
	SteadyDur int

	TimeoutSec int
	ThinkTime  time.Duration
}

type ExperimentResult struct {
	TimeStamp   time.Time
	Label       string
	Latency     time.Duration // Total Time
	ServiceTime time.Duration // Network/Server Time
	Status      int
	Success     bool
	Bytes       int64
	UserID      string
	Err         error
}
