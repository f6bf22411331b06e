package orchestrator

import (
	"os"
	"os/exec"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"hybridtest/internal/config"
)

// CheckPrerequisites verifies every external requirement before anything is
// launched. All failures are collected so the user fixes them in one pass.
// Any failure is fatal to the run.
func (o *Orchestrator) CheckPrerequisites() error {
	var result *multierror.Error

	if o.cfg.Mode != config.ModeUIOnly {
		if !o.cfg.BuiltinLoad {
			if _, err := o.lookPath("jmeter"); err != nil {
				result = multierror.Append(result, errors.New(
					"jmeter not found on PATH (install it or pass --builtin-load)"))
			}
		}
		if _, err := os.Stat(o.cfg.TestPlan); err != nil {
			result = multierror.Append(result, errors.Errorf(
				"test plan not found: %s", o.cfg.TestPlan))
		}
	}

	if o.cfg.Mode != config.ModeLoadOnly && o.cfg.ChromePath == "" {
		if _, err := findChrome(o.lookPath); err != nil {
			result = multierror.Append(result, errors.New(
				"no Chrome/Chromium binary found (set chrome_path or CHROMEDRIVER_PATH)"))
		}
	}

	return result.ErrorOrNil()
}

var chromeCandidates = []string{
	"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome",
}

func findChrome(lookPath func(string) (string, error)) (string, error) {
	for _, name := range chromeCandidates {
		if p, err := lookPath(name); err == nil {
			return p, nil
		}
	}
	return "", exec.ErrNotFound
}
