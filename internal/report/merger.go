package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Merged is the combined result set of one hybrid run.
type Merged struct {
	Timestamp time.Time   `json:"timestamp"`
	Load      LoadSummary `json:"jmeter"`
	UI        UISummary   `json:"selenium"`
}

// Inputs names the artifacts the merger consumes and produces.
type Inputs struct {
	ResultsFile string // JMeter JTL
	UIReportDir string // selenium sink directory
	HTMLOut     string
	JSONOut     string
	JUnitOut    string
}

// Merge combines both tool outputs. A missing input degrades to an empty
// summary with a console warning, matching the merger's never-fatal contract;
// if both inputs are missing no output files are produced.
func Merge(in Inputs) (*Merged, error) {
	m := &Merged{Timestamp: time.Now()}

	haveLoad := true
	load, err := ParseJTL(in.ResultsFile)
	if os.IsNotExist(errors.Cause(err)) {
		fmt.Printf("⚠️  Warning: JMeter results file not found: %s\n", in.ResultsFile)
		haveLoad = false
	} else if err != nil {
		return nil, errors.Wrap(err, "parse jmeter results")
	}
	m.Load = load

	haveUI := true
	ui, err := ParseSelenium(in.UIReportDir)
	if os.IsNotExist(errors.Cause(err)) {
		fmt.Printf("⚠️  Warning: Selenium results not found in: %s\n", in.UIReportDir)
		haveUI = false
	} else if err != nil {
		return nil, errors.Wrap(err, "parse selenium results")
	}
	m.UI = ui

	if !haveLoad && !haveUI {
		return nil, errors.New("no test results to merge")
	}

	if err := WriteHTML(m, in.HTMLOut); err != nil {
		return nil, errors.Wrap(err, "write merged html")
	}
	if err := writeJSON(m, in.JSONOut); err != nil {
		return nil, errors.Wrap(err, "write merged json")
	}
	if in.JUnitOut != "" {
		if err := WriteJUnit(m, in.JUnitOut); err != nil {
			return nil, errors.Wrap(err, "write merged junit xml")
		}
	}
	return m, nil
}

// TotalTests is the combined count across both tools.
func (m *Merged) TotalTests() int {
	return m.Load.TotalRequests + m.UI.TotalTests
}

// OverallSuccessRate is the percentage of successful samples across both tools.
func (m *Merged) OverallSuccessRate() float64 {
	total := m.TotalTests()
	if total == 0 {
		return 0
	}
	ok := m.Load.Successful + m.UI.Successful
	return float64(ok) / float64(total) * 100
}

// CombinedAvgResponseTime weights each tool's average by its sample count.
func (m *Merged) CombinedAvgResponseTime() float64 {
	total := m.TotalTests()
	if total == 0 {
		return 0
	}
	loadTotal := m.Load.AvgResponseTime * float64(m.Load.TotalRequests)
	uiTotal := m.UI.AvgResponseTime * float64(m.UI.TotalTests)
	return (loadTotal + uiTotal) / float64(total)
}

// Recommendations applies the same thresholds the original merger used.
func (m *Merged) Recommendations() []string {
	var recs []string

	if m.Load.ErrorRate > 5 {
		recs = append(recs, "🔴 High error rate detected in load tests. Consider reducing load or optimizing backend.")
	}
	if m.Load.AvgResponseTime > 2000 {
		recs = append(recs, "🟡 High average response time in load tests. Consider performance optimization.")
	}
	if m.Load.TotalRequests > 0 && m.Load.Throughput < 10 {
		recs = append(recs, "🟡 Low throughput detected. Check server capacity and network conditions.")
	}
	if m.UI.Failed > 0 {
		recs = append(recs, "🔴 Some UI tests failed. Review test results and fix issues.")
	}
	if m.UI.AvgResponseTime > 3000 {
		recs = append(recs, "🟡 High UI response times. Consider frontend optimization.")
	}
	if len(recs) == 0 {
		recs = append(recs, "✅ All tests passed successfully! System performance looks good.")
	}
	return recs
}

type jsonSummary struct {
	Timestamp time.Time   `json:"timestamp"`
	JMeter    LoadSummary `json:"jmeter"`
	Selenium  UISummary   `json:"selenium"`
	Summary   struct {
		TotalTests      int     `json:"total_tests"`
		SuccessRate     float64 `json:"success_rate"`
		AvgResponseTime float64 `json:"avg_response_time"`
	} `json:"summary"`
}

func writeJSON(m *Merged, path string) error {
	out := jsonSummary{
		Timestamp: m.Timestamp,
		JMeter:    m.Load,
		Selenium:  m.UI,
	}
	out.Summary.TotalTests = m.TotalTests()
	out.Summary.SuccessRate = m.OverallSuccessRate()
	out.Summary.AvgResponseTime = m.CombinedAvgResponseTime()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
