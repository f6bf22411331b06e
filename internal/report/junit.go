package report

import (
	"fmt"
	"os"
	"time"

	"github.com/jstemmer/go-junit-report/v2/junit"
)

// WriteJUnit emits the merged results as JUnit XML so CI systems can ingest
// the hybrid run. Load test results collapse to per-label cases; UI tests map
// one-to-one.
func WriteJUnit(m *Merged, path string) error {
	var suites junit.Testsuites
	suites.Name = "hybridtest"

	load := junit.Testsuite{Name: "jmeter-load"}
	for label, agg := range loadByLabel(m.Load) {
		tc := junit.Testcase{
			Name:      label,
			Classname: "jmeter",
			Time:      formatSeconds(time.Duration(agg.totalMs) * time.Millisecond),
		}
		if agg.failed > 0 {
			tc.Failure = &junit.Result{
				Message: fmt.Sprintf("%d of %d samples failed", agg.failed, agg.total),
			}
		}
		load.AddTestcase(tc)
	}
	suites.AddSuite(load)

	ui := junit.Testsuite{Name: "selenium-ui"}
	for _, t := range m.UI.Tests {
		tc := junit.Testcase{
			Name:      t.Test,
			Classname: "selenium",
			Time:      formatSeconds(time.Duration(t.ResponseTime) * time.Millisecond),
		}
		if !t.Success {
			tc.Failure = &junit.Result{Message: t.Message}
		}
		ui.AddTestcase(tc)
	}
	suites.AddSuite(ui)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return suites.WriteXML(f)
}

// formatSeconds renders a duration the way JUnit time attributes expect.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

type labelAgg struct {
	total   int
	failed  int
	totalMs int64
}

func loadByLabel(s LoadSummary) map[string]labelAgg {
	out := map[string]labelAgg{}
	for _, r := range s.Requests {
		agg := out[r.Label]
		agg.total++
		agg.totalMs += r.ResponseTime
		if !r.Success {
			agg.failed++
		}
		out[r.Label] = agg
	}
	return out
}
