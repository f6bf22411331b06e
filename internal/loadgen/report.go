package loadgen

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"hybridtest/internal/stats"
)

// WriteJTL writes results as a JMeter-compatible JTL (CSV) file.
// Schema: timeStamp,elapsed,label,responseCode,responseMessage,threadName,dataType,success,failureMessage,bytes,sentBytes,grpThreads,allThreads,URL,Latency,IdleTime,Connect
func WriteJTL(results []ExperimentResult, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "create results dir")
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create jtl file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"timeStamp", "elapsed", "label", "responseCode", "responseMessage",
		"threadName", "dataType", "success", "failureMessage", "bytes",
		"sentBytes", "grpThreads", "allThreads", "URL", "Latency", "IdleTime", "Connect",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, res := range results {
		successStr := "true"
		if !res.Success {
			successStr = "false"
		}

		errMsg := ""
		if res.Err != nil {
			errMsg = res.Err.Error()
		}

		record := []string{
			fmt.Sprintf("%d", res.TimeStamp.UnixMilli()),
			fmt.Sprintf("%d", res.Latency.Milliseconds()),
			res.Label,
			strconv.Itoa(res.Status),
			http.StatusText(res.Status),
			"User-" + res.UserID,
			"text",
			successStr,
			errMsg,
			strconv.FormatInt(res.Bytes, 10),
			"0", // Sent bytes (not tracked)
			"1",
			"1",
			"",
			fmt.Sprintf("%d", res.Latency.Milliseconds()),
			"0",
			"0", // Connect time (part of ServiceTime, not separated)
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

var htmlReportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Load Test Report - {{.Name}}</title>
<style>
body { font-family: sans-serif; margin: 2em; background: #f5f5f5; }
table { border-collapse: collapse; background: white; }
td, th { border: 1px solid #ccc; padding: 6px 14px; text-align: left; }
th { background: #667eea; color: white; }
h1 { color: #333; }
</style>
</head>
<body>
<h1>Load Test Report</h1>
<p>Plan: {{.Name}} &mdash; generated {{.Generated}}</p>
<table>
<tr><th>Metric</th><th>Value</th></tr>
<tr><td>Requests</td><td>{{.Requests}}</td></tr>
<tr><td>Success</td><td>{{.Success}}</td></tr>
<tr><td>Failures</td><td>{{.Fail}}</td></tr>
<tr><td>Error rate</td><td>{{printf "%.2f" .ErrorRate}}%</td></tr>
<tr><td>P50 (ms)</td><td>{{printf "%.2f" .P50}}</td></tr>
<tr><td>P90 (ms)</td><td>{{printf "%.2f" .P90}}</td></tr>
<tr><td>P99 (ms)</td><td>{{printf "%.2f" .P99}}</td></tr>
<tr><td>Max (ms)</td><td>{{.Max}}</td></tr>
</table>
</body>
</html>
`))

// WriteHTMLReport writes a small summary page into dir/index.html, standing in
// for the JMeter dashboard the external tool would have produced.
func WriteHTMLReport(name string, s *stats.Stats, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create html report dir")
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return errors.Wrap(err, "create html report")
	}
	defer f.Close()

	return htmlReportTmpl.Execute(f, struct {
		Name      string
		Generated string
		Requests  uint64
		Success   uint64
		Fail      uint64
		ErrorRate float64
		P50       float64
		P90       float64
		P99       float64
		Max       int64
	}{
		Name:      name,
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Requests:  s.Requests,
		Success:   s.Success,
		Fail:      s.Fail,
		ErrorRate: s.ErrorRate(),
		P50:       s.GetP50Service(),
		P90:       s.GetP90Service(),
		P99:       s.GetP99Service(),
		Max:       s.ServiceTime.Max() / 1000,
	})
}
