package report

import (
	"os"
	"path/filepath"

	"hybridtest/internal/perflog"
)

// UISummary aggregates the selenium performance sinks.
type UISummary struct {
	TotalTests      int              `json:"total_tests"`
	Successful      int              `json:"successful_tests"`
	Failed          int              `json:"failed_tests"`
	AvgResponseTime float64          `json:"avg_response_time"`
	MinResponseTime int64            `json:"min_response_time"`
	MaxResponseTime int64            `json:"max_response_time"`
	Tests           []perflog.Record `json:"tests"`
}

// ParseSelenium reads the UI performance records from the report directory,
// preferring the JSON-lines sink and falling back to the CSV log, the same
// order the original merger used.
func ParseSelenium(dir string) (UISummary, error) {
	jsonPath := filepath.Join(dir, perflog.JSONFile)
	logPath := filepath.Join(dir, perflog.LogFile)

	var records []perflog.Record
	var err error
	if _, statErr := os.Stat(jsonPath); statErr == nil {
		records, err = perflog.ReadJSON(jsonPath)
	} else if _, statErr := os.Stat(logPath); statErr == nil {
		records, err = perflog.ReadLog(logPath)
	} else {
		return UISummary{}, os.ErrNotExist
	}
	if err != nil {
		return UISummary{}, err
	}

	return summarize(records), nil
}

func summarize(records []perflog.Record) UISummary {
	sum := UISummary{Tests: records}

	var total int64
	for i, r := range records {
		sum.TotalTests++
		total += r.ResponseTime
		if i == 0 || r.ResponseTime < sum.MinResponseTime {
			sum.MinResponseTime = r.ResponseTime
		}
		if r.ResponseTime > sum.MaxResponseTime {
			sum.MaxResponseTime = r.ResponseTime
		}
		if r.Success {
			sum.Successful++
		} else {
			sum.Failed++
		}
	}
	if sum.TotalTests > 0 {
		sum.AvgResponseTime = float64(total) / float64(sum.TotalTests)
	}
	return sum
}
