package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Mode selects which executors the orchestrator runs.
type Mode string

const (
	ModeCombined Mode = "combined"
	ModeLoadOnly Mode = "load-only"
	ModeUIOnly   Mode = "ui-only"
)

// RunConfiguration is built once at startup from flags + viper and never
// mutated afterwards. Every component receives it explicitly.
type RunConfiguration struct {
	Mode        Mode
	Headless    bool
	BuiltinLoad bool

	BaseURL string

	// Resolved file-system paths, relative to the working directory
	TestPlan      string
	ResultsFile   string
	HTMLReportDir string
	UIReportDir   string
	MergedReport  string
	MergedJSON    string
	MergedJUnit   string

	// Optional external merger executable. Empty means the built-in merger.
	MergerPath string

	// Chrome binary override for the UI executor
	ChromePath string

	// Ramp-up wait after launching the load generator
	RampUp time.Duration

	// Readiness probe before UI tests (0 disables)
	ProbeAttempts int
}

// Defaults registers viper defaults so a bare invocation works against the
// bundled dummy server.
func Defaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("test_plan", filepath.Join("jmeter", "test-plan.jmx"))
	v.SetDefault("reports_path", "reports")
	v.SetDefault("ramp_up", "30s")
	v.SetDefault("probe_attempts", 0)
	v.SetDefault("merger_path", "")
	v.SetDefault("chrome_path", "")
}

// New resolves a RunConfiguration from viper state and the mode/headless
// flags parsed by the CLI layer.
func New(v *viper.Viper, mode Mode, headless, builtinLoad bool) RunConfiguration {
	reports := v.GetString("reports_path")

	cfg := RunConfiguration{
		Mode:          mode,
		Headless:      headless,
		BuiltinLoad:   builtinLoad,
		BaseURL:       v.GetString("base_url"),
		TestPlan:      v.GetString("test_plan"),
		ResultsFile:   filepath.Join(reports, "jmeter-report", "results.jtl"),
		HTMLReportDir: filepath.Join(reports, "jmeter-report", "html"),
		UIReportDir:   filepath.Join(reports, "selenium-report"),
		MergedReport:  filepath.Join(reports, "merged-report.html"),
		MergedJSON:    filepath.Join(reports, "merged-report.json"),
		MergedJUnit:   filepath.Join(reports, "merged-report.xml"),
		MergerPath:    v.GetString("merger_path"),
		ChromePath:    chromePath(v),
		RampUp:        v.GetDuration("ramp_up"),
		ProbeAttempts: v.GetInt("probe_attempts"),
	}
	return cfg
}

// chromePath resolves the browser binary: config key first, then the
// CHROMEDRIVER_PATH environment variable carried over from the old setup.
func chromePath(v *viper.Viper) string {
	if p := v.GetString("chrome_path"); p != "" {
		return p
	}
	return os.Getenv("CHROMEDRIVER_PATH")
}

// OutputDirs lists every directory the orchestrator must create before
// launching executors.
func (c RunConfiguration) OutputDirs() []string {
	return []string{
		filepath.Dir(c.ResultsFile),
		c.HTMLReportDir,
		c.UIReportDir,
	}
}

// Artifact is a named path checked for existence at summary time.
type Artifact struct {
	Name string
	Path string
	Dir  bool
}

// Artifacts returns the report artifact set for the summary step.
func (c RunConfiguration) Artifacts() []Artifact {
	return []Artifact{
		{Name: "JMeter results", Path: c.ResultsFile},
		{Name: "JMeter HTML report", Path: c.HTMLReportDir, Dir: true},
		{Name: "Selenium report", Path: c.UIReportDir, Dir: true},
		{Name: "Merged report", Path: c.MergedReport},
	}
}
