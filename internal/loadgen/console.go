package loadgen

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Outputs collects where the engine writes its artifacts.
type Outputs struct {
	ResultsFile   string
	HTMLReportDir string
}

// Start runs the engine to completion with console progress output, then
// writes the JTL results and the HTML summary. This is the entry point of the
// loadgen subcommand.
func Start(ctx context.Context, plan *Plan, cfg Config, out Outputs) error {
	printHeader(plan, cfg)

	r := NewRunner(cfg)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		r.Run(runCtx)
		close(done)
	}()

	// Monitor Loop
	startTime := time.Now()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	totalDuration := time.Duration(cfg.RampUpSec+cfg.SteadyDur) * time.Second

loop:
	for {
		select {
		case <-ctx.Done():
			cancel()
			<-done
			break loop
		case <-done:
			break loop
		case <-ticker.C:
			elapsed := time.Since(startTime)
			s := r.Stats
			inflight := r.GetInflight()
			rps := 0.0
			if elapsed.Seconds() > 0 {
				rps = float64(atomic.LoadUint64(&s.Requests)) / elapsed.Seconds()
			}

			pct := elapsed.Seconds() / totalDuration.Seconds()
			if pct > 1.0 {
				pct = 1.0
			}

			fmt.Printf("\r%s %3.0f%% | %s/%s | Inf: %3d | RPS: %.1f | OK: %d | Err: %d",
				progressBar(pct, 20), pct*100,
				elapsed.Round(time.Second), totalDuration,
				inflight,
				rps,
				atomic.LoadUint64(&s.Success),
				atomic.LoadUint64(&s.Fail),
			)
		}
	}

	printSummary(r, time.Since(startTime))

	results := r.Snapshot()
	if err := WriteJTL(results, out.ResultsFile); err != nil {
		return err
	}
	if err := WriteHTMLReport(plan.Name, r.Stats, out.HTMLReportDir); err != nil {
		return err
	}
	fmt.Printf("💾 Results: %s | HTML: %s\n", out.ResultsFile, out.HTMLReportDir)
	return nil
}

func printHeader(plan *Plan, cfg Config) {
	fmt.Printf("\n🚀 STARTING LOAD TEST\n")
	fmt.Printf("======================================================================\n")
	fmt.Printf("Plan       : %s\n", plan.Name)
	fmt.Printf("Samplers   : %d\n", len(cfg.Samplers))
	fmt.Printf("Users      : %d\n", cfg.NumUsers)
	fmt.Printf("Duration   : %ds (Steady) + %ds (RampUp)\n", cfg.SteadyDur, cfg.RampUpSec)
	fmt.Printf("Timeout    : %ds\n", cfg.TimeoutSec)
	fmt.Printf("======================================================================\n\n")
}

func progressBar(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("-", width-filled) + "]"
}

func printSummary(r *Runner, totalTime time.Duration) {
	s := r.Stats
	rps := float64(s.Requests) / totalTime.Seconds()

	fmt.Printf("\n\n📊 LOAD TEST RESULTS\n")
	fmt.Printf("======================================================================\n")
	fmt.Printf("Total Duration : %s\n", totalTime.Round(time.Second))
	fmt.Printf("Requests Sent  : %d\n", s.Requests)
	fmt.Printf("Success        : %d\n", s.Success)
	fmt.Printf("Failures       : %d\n", s.Fail)
	fmt.Printf("Actual RPS     : %.2f\n", rps)
	fmt.Printf("\n⏱️  RESPONSE TIMES (ms)\n")
	fmt.Printf("   P50 : %.2f\n", s.GetP50Service())
	fmt.Printf("   P90 : %.2f\n", s.GetP90Service())
	fmt.Printf("   P95 : %.2f\n", s.GetP95Service())
	fmt.Printf("   P99 : %.2f\n", s.GetP99Service())
	fmt.Printf("   Max : %d\n", s.ServiceTime.Max()/1000)
	fmt.Printf("======================================================================\n")
}
