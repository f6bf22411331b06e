package loadgen

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hybridtest/internal/stats"
)

type Runner struct {
	Cfg     Config
	Stats   *stats.Stats
	Client  *http.Client
	Results []ExperimentResult
	mu      sync.Mutex

	inflight int64
}

func NewRunner(cfg Config) *Runner {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxConnsPerHost = 2000
	t.MaxIdleConnsPerHost = 2000
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	client := &http.Client{
		Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		Transport: t,
	}

	return &Runner{
		Cfg:    cfg,
		Stats:  stats.NewStats(),
		Client: client,
	}
}

// Run drives closed-loop virtual users. Users start staggered across the
// ramp-up window, matching JMeter thread-group semantics, then loop over the
// plan's samplers until the steady duration ends or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup
	start := time.Now()
	totalDur := time.Duration(r.Cfg.RampUpSec+r.Cfg.SteadyDur) * time.Second

	var stagger time.Duration
	if r.Cfg.NumUsers > 0 && r.Cfg.RampUpSec > 0 {
		stagger = time.Duration(r.Cfg.RampUpSec) * time.Second / time.Duration(r.Cfg.NumUsers)
	}

	for i := 0; i < r.Cfg.NumUsers; i++ {
		wg.Add(1)
		delay := time.Duration(i) * stagger
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			userID := uuid.New().String()
			for n := 0; ; n++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if time.Since(start) > totalDur {
					return
				}
				sampler := r.Cfg.Samplers[n%len(r.Cfg.Samplers)]
				r.executeRequest(sampler, userID)
				if r.Cfg.ThinkTime > 0 {
					time.Sleep(r.Cfg.ThinkTime)
				}
			}
		}()
	}
	wg.Wait()
}

func (r *Runner) executeRequest(s Sampler, userID string) {
	start := time.Now()

	atomic.AddInt64(&r.inflight, 1)
	defer atomic.AddInt64(&r.inflight, -1)

	var body io.Reader
	if s.Body != "" {
		body = strings.NewReader(s.Body)
	}

	req, err := http.NewRequest(s.Method, s.URL, body)
	if err != nil {
		r.record(ExperimentResult{
			TimeStamp: start,
			Label:     s.Label,
			UserID:    userID,
			Err:       err,
		})
		return
	}
	if s.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)

	end := time.Now()
	res := ExperimentResult{
		TimeStamp:   start,
		Label:       s.Label,
		Latency:     end.Sub(start),
		ServiceTime: end.Sub(start),
		UserID:      userID,
		Err:         err,
	}

	if err == nil {
		res.Status = resp.StatusCode
		res.Bytes = resp.ContentLength
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			res.Success = true
		}
	}

	r.record(res)
}

func (r *Runner) record(res ExperimentResult) {
	r.Stats.Add(
		res.Success,
		uint64(max64(res.Bytes, 0)),
		res.ServiceTime.Microseconds(),
		res.Latency.Microseconds(),
	)

	r.mu.Lock()
	r.Results = append(r.Results, res)
	r.mu.Unlock()
}

func (r *Runner) GetInflight() int64 {
	return atomic.LoadInt64(&r.inflight)
}

// Snapshot returns a copy of the results collected so far.
func (r *Runner) Snapshot() []ExperimentResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ExperimentResult, len(r.Results))
	copy(out, r.Results)
	return out
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
