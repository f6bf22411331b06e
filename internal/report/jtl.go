package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// LoadRequest is one sampled request from a JMeter JTL results file.
type LoadRequest struct {
	Timestamp    int64  `json:"timestamp"` // unix ms
	Label        string `json:"label"`
	ResponseTime int64  `json:"response_time"`
	Success      bool   `json:"success"`
	ResponseCode string `json:"response_code"`
	Message      string `json:"message"`
}

// LoadSummary aggregates a JTL file the way the report merger presents it.
type LoadSummary struct {
	TotalRequests   int           `json:"total_requests"`
	Successful      int           `json:"successful_requests"`
	Failed          int           `json:"failed_requests"`
	AvgResponseTime float64       `json:"avg_response_time"`
	MinResponseTime int64         `json:"min_response_time"`
	MaxResponseTime int64         `json:"max_response_time"`
	Throughput      float64       `json:"throughput"`
	ErrorRate       float64       `json:"error_rate"`
	Requests        []LoadRequest `json:"requests"`
}

// ParseJTL reads a JMeter CSV results file. A missing file is not an error
// here; callers decide whether absence is fatal.
func ParseJTL(path string) (LoadSummary, error) {
	sum := LoadSummary{}

	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return sum, errors.Wrap(err, "read jtl header")
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var totalElapsed int64
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sum, errors.Wrap(err, "read jtl record")
		}

		elapsed, _ := strconv.ParseInt(field(rec, "elapsed"), 10, 64)
		ts, _ := strconv.ParseInt(field(rec, "timeStamp"), 10, 64)
		success := field(rec, "success") == "true"

		sum.TotalRequests++
		totalElapsed += elapsed
		if sum.TotalRequests == 1 || elapsed < sum.MinResponseTime {
			sum.MinResponseTime = elapsed
		}
		if elapsed > sum.MaxResponseTime {
			sum.MaxResponseTime = elapsed
		}
		if success {
			sum.Successful++
		} else {
			sum.Failed++
		}

		sum.Requests = append(sum.Requests, LoadRequest{
			Timestamp:    ts,
			Label:        field(rec, "label"),
			ResponseTime: elapsed,
			Success:      success,
			ResponseCode: field(rec, "responseCode"),
			Message:      field(rec, "responseMessage"),
		})
	}

	if sum.TotalRequests > 0 {
		sum.AvgResponseTime = float64(totalElapsed) / float64(sum.TotalRequests)
		sum.ErrorRate = float64(sum.Failed) / float64(sum.TotalRequests) * 100

		first := sum.Requests[0].Timestamp
		last := sum.Requests[len(sum.Requests)-1].Timestamp
		if dur := float64(last-first) / 1000; dur > 0 {
			sum.Throughput = float64(sum.TotalRequests) / dur
		}
	}

	return sum, nil
}
