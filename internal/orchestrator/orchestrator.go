package orchestrator

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"hybridtest/internal/config"
	"hybridtest/internal/report"
	"hybridtest/internal/storage"
	"hybridtest/internal/tui/styles"
)

// Orchestrator sequences the load-test and UI-test executors and presents a
// unified result. It owns every process it spawns and guarantees teardown on
// any exit path.
type Orchestrator struct {
	cfg   config.RunConfiguration
	exe   string // own binary, re-executed for built-in executors
	procs registry

	store *storage.Store // optional run-history sink

	cleanupOnce sync.Once

	// Injection points for tests
	lookPath  func(string) (string, error)
	rampSleep func(context.Context, time.Duration)
	killStray func()
}

func New(cfg config.RunConfiguration, store *storage.Store) *Orchestrator {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return &Orchestrator{
		cfg:      cfg,
		exe:      exe,
		store:    store,
		lookPath: exec.LookPath,
		rampSleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		},
		killStray: func() {
			// Browsers launched by a killed UI executor. The debugging-port
			// flag narrows the match to automation-launched instances.
			_ = exec.Command("pkill", "-f", "(chrome|chromium).*--remote-debugging-port").Run()
		},
	}
}

// Run executes the configured mode end to end. Only setup errors are
// returned; executor failures degrade to warnings and the run still reaches
// merge and summary.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer o.Cleanup()

	if err := o.CheckPrerequisites(); err != nil {
		return errors.Wrap(err, "prerequisite check failed")
	}
	if err := o.SetupDirectories(); err != nil {
		return errors.Wrap(err, "directory setup failed")
	}

	switch o.cfg.Mode {
	case config.ModeLoadOnly:
		handle, err := o.RunLoadTest(ctx)
		if err != nil {
			return err
		}
		o.WaitForLoadTest(handle)

	case config.ModeUIOnly:
		o.probeTarget(ctx)
		o.RunUITests(ctx)

	default: // combined
		handle, err := o.RunLoadTest(ctx)
		if err != nil {
			return err
		}
		o.probeTarget(ctx)
		o.RunUITests(ctx)
		o.WaitForLoadTest(handle)
	}

	o.MergeReports(ctx)
	o.DisplaySummary()
	return nil
}

// SetupDirectories idempotently creates every output directory.
func (o *Orchestrator) SetupDirectories() error {
	for _, dir := range o.cfg.OutputDirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return nil
}

// RunLoadTest launches the load executor in the background, then holds for
// the ramp-up interval so the generator approaches steady state before UI
// tests compete for the target.
func (o *Orchestrator) RunLoadTest(ctx context.Context) (*ProcessHandle, error) {
	var cmd *exec.Cmd
	if o.cfg.BuiltinLoad {
		cmd = exec.CommandContext(ctx, o.exe, "loadgen",
			"--plan", o.cfg.TestPlan,
			"--results", o.cfg.ResultsFile,
			"--html-dir", o.cfg.HTMLReportDir,
			"--base-url", o.cfg.BaseURL,
		)
	} else {
		cmd = exec.CommandContext(ctx, "jmeter",
			"-n",
			"-t", o.cfg.TestPlan,
			"-l", o.cfg.ResultsFile,
			"-e", "-o", o.cfg.HTMLReportDir,
		)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = groupCancel(cmd)

	fmt.Println("🚀 Starting load test in background...")
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "launch load test")
	}

	handle := newHandle("load-test", cmd)
	if err := o.procs.setLoad(handle); err != nil {
		handle.Terminate(time.Second)
		return nil, err
	}

	fmt.Printf("⏳ Ramp-up: waiting %s for load to reach steady state...\n", o.cfg.RampUp)
	o.rampSleep(ctx, o.cfg.RampUp)
	return handle, nil
}

// RunUITests launches the UI executor synchronously. A non-zero exit is
// fail-tolerant: the suite records its own failures, so the orchestrator
// only warns and proceeds to merge/summary.
func (o *Orchestrator) RunUITests(ctx context.Context) {
	args := []string{"uitest",
		"--base-url", o.cfg.BaseURL,
		"--report-dir", o.cfg.UIReportDir,
	}
	if o.cfg.Headless {
		args = append(args, "--headless")
	}
	if o.cfg.ChromePath != "" {
		args = append(args, "--chrome-path", o.cfg.ChromePath)
	}

	cmd := exec.CommandContext(ctx, o.exe, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = groupCancel(cmd)

	fmt.Println("🖥️  Running UI tests...")
	if err := cmd.Start(); err != nil {
		fmt.Printf("⚠️  Could not launch UI test executor: %v\n", err)
		return
	}

	// Registered so Cleanup can sweep browsers left in the executor's group.
	handle := newHandle("ui-test", cmd)
	o.procs.setUI(handle)

	if err := handle.Wait(); err != nil {
		fmt.Printf("⚠️  UI test executor reported failures: %v\n", err)
	}
}

// groupCancel makes context cancellation signal the executor's whole process
// group. The default Cancel kills only the lead process, stranding children
// like jmeter's JVM or the browser stack.
func groupCancel(cmd *exec.Cmd) func() error {
	return func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
}

// WaitForLoadTest blocks until the background load process exits. A nil
// handle is non-fatal: warn and move on. The handle stays registered so
// Cleanup still sweeps the group for children that outlived the wrapper.
func (o *Orchestrator) WaitForLoadTest(handle *ProcessHandle) {
	if handle == nil {
		fmt.Println("⚠️  No load-test process to wait for")
		return
	}
	fmt.Println("⏳ Waiting for load test to complete...")
	if err := handle.Wait(); err != nil {
		fmt.Printf("⚠️  Load test exited with error: %v\n", err)
	}
}

// probeTarget optionally polls the target URL before UI tests. A heuristic
// upgrade over the plain ramp-up sleep; failure never blocks the run.
func (o *Orchestrator) probeTarget(ctx context.Context) {
	if o.cfg.ProbeAttempts <= 0 {
		return
	}
	client := &http.Client{Timeout: 5 * time.Second}
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.cfg.BaseURL, nil)
			if err != nil {
				return err
			}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			resp.Body.Close()
			return nil
		},
		retry.Attempts(uint(o.cfg.ProbeAttempts)),
		retry.Delay(2*time.Second),
	)
	if err != nil {
		fmt.Printf("⚠️  Target %s not responding, continuing anyway: %v\n", o.cfg.BaseURL, err)
	}
}

// MergeReports combines both artifacts. With MergerPath set it invokes the
// external merger; otherwise the built-in one. Never fails the overall run.
func (o *Orchestrator) MergeReports(ctx context.Context) {
	fmt.Println("🔄 Merging reports...")

	if o.cfg.MergerPath != "" {
		if _, err := os.Stat(o.cfg.MergerPath); err != nil {
			fmt.Printf("⚠️  Merger not found at %s, skipping merge\n", o.cfg.MergerPath)
			return
		}
		cmd := exec.CommandContext(ctx, o.cfg.MergerPath)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fmt.Printf("⚠️  Merger failed: %v\n", err)
		}
		return
	}

	_, err := report.Merge(report.Inputs{
		ResultsFile: o.cfg.ResultsFile,
		UIReportDir: o.cfg.UIReportDir,
		HTMLOut:     o.cfg.MergedReport,
		JSONOut:     o.cfg.MergedJSON,
		JUnitOut:    o.cfg.MergedJUnit,
	})
	if err != nil {
		fmt.Printf("⚠️  Merge skipped: %v\n", err)
	}
}

// DisplaySummary prints a present/absent line per expected artifact and
// records the run in history. Always succeeds.
func (o *Orchestrator) DisplaySummary() {
	fmt.Println()
	fmt.Println(styles.Title.Render("📋 Run Summary"))
	fmt.Println()

	present := map[string]bool{}
	for _, a := range o.cfg.Artifacts() {
		ok := artifactExists(a)
		present[a.Name] = ok

		mark := styles.Error.Render("✗ absent ")
		if ok {
			mark = styles.Success.Render("✓ present")
		}
		fmt.Printf("  %s  %s (%s)\n", mark, a.Name, styles.Subtle.Render(a.Path))
	}
	fmt.Println()

	o.saveRun(present)
}

func artifactExists(a config.Artifact) bool {
	info, err := os.Stat(a.Path)
	if err != nil {
		return false
	}
	if a.Dir {
		return info.IsDir()
	}
	return !info.IsDir()
}

func (o *Orchestrator) saveRun(artifacts map[string]bool) {
	if o.store == nil {
		return
	}
	rec := storage.RunRecord{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Mode:      o.cfg.Mode,
		Headless:  o.cfg.Headless,
		Artifacts: artifacts,
	}
	var merged report.Merged
	if load, err := report.ParseJTL(o.cfg.ResultsFile); err == nil {
		rec.LoadRequests = load.TotalRequests
		merged.Load = load
	}
	if ui, err := report.ParseSelenium(o.cfg.UIReportDir); err == nil {
		rec.UITests = ui.TotalTests
		merged.UI = ui
	}
	rec.SuccessRate = merged.OverallSuccessRate()
	if err := o.store.Save(rec); err != nil {
		fmt.Printf("⚠️  Could not record run history: %v\n", err)
	}
}

// Cleanup terminates any still-live executor process groups. Idempotent, runs
// on every exit path, and never propagates secondary failures.
func (o *Orchestrator) Cleanup() {
	o.cleanupOnce.Do(func() {
		if h := o.procs.takeLoad(); h != nil {
			fmt.Println("🧹 Stopping background load test...")
			if err := h.Terminate(5 * time.Second); err != nil {
				fmt.Printf("   (already gone: %v)\n", err)
			}
		}
		if h := o.procs.takeUI(); h != nil {
			if err := h.Terminate(5 * time.Second); err != nil {
				fmt.Printf("   (already gone: %v)\n", err)
			}
		}

		o.killStray()
	})
}
