package report

import (
	"html/template"
	"os"
)

var mergedTmpl = template.Must(template.New("merged").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Hybrid Test Report - {{.Generated}}</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
.container { max-width: 1200px; margin: 0 auto; background: white; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); overflow: hidden; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; }
.header h1 { margin: 0; font-size: 2.5em; }
.header p { margin: 10px 0 0 0; opacity: 0.9; }
.summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(250px, 1fr)); gap: 20px; padding: 30px; background: #f8f9fa; }
.summary-card { background: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 5px rgba(0,0,0,0.1); text-align: center; }
.summary-card h3 { margin: 0 0 10px 0; color: #333; }
.summary-card .value { font-size: 2em; font-weight: bold; margin: 10px 0; }
.success { color: #28a745; }
.warning { color: #ffc107; }
.danger { color: #dc3545; }
.info { color: #17a2b8; }
.section { margin: 30px; }
.section h2 { color: #333; border-bottom: 2px solid #667eea; padding-bottom: 10px; }
.metrics-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 15px; margin: 20px 0; }
.metric { background: #f8f9fa; padding: 15px; border-radius: 5px; border-left: 4px solid #667eea; }
.metric-label { font-weight: bold; color: #666; font-size: 0.9em; }
.metric-value { font-size: 1.5em; color: #333; margin: 5px 0; }
.test-item { background: #f8f9fa; margin: 10px 0; padding: 15px; border-radius: 5px; border-left: 4px solid #28a745; }
.test-item.failed { border-left-color: #dc3545; }
.test-name { font-weight: bold; color: #333; }
.test-details { color: #666; font-size: 0.9em; margin-top: 5px; }
.footer { background: #333; color: white; text-align: center; padding: 20px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>🚀 Hybrid Test Report</h1>
    <p>JMeter Load Testing + Selenium UI Testing</p>
    <p>Generated on: {{.Generated}}</p>
  </div>

  <div class="summary">
    <div class="summary-card">
      <h3>📊 Total Tests</h3>
      <div class="value info">{{.TotalTests}}</div>
      <p>JMeter: {{.Load.TotalRequests}} | Selenium: {{.UI.TotalTests}}</p>
    </div>
    <div class="summary-card">
      <h3>✅ Success Rate</h3>
      <div class="value success">{{printf "%.1f" .SuccessRate}}%</div>
      <p>Overall test success rate</p>
    </div>
    <div class="summary-card">
      <h3>⚡ Avg Response Time</h3>
      <div class="value info">{{printf "%.0f" .AvgResponseTime}}ms</div>
      <p>Combined average response time</p>
    </div>
    <div class="summary-card">
      <h3>🔥 Throughput</h3>
      <div class="value warning">{{printf "%.1f" .Load.Throughput}} req/s</div>
      <p>JMeter requests per second</p>
    </div>
  </div>

  <div class="section">
    <h2>📈 JMeter Load Test Results</h2>
    <div class="metrics-grid">
      <div class="metric"><div class="metric-label">Total Requests</div><div class="metric-value">{{.Load.TotalRequests}}</div></div>
      <div class="metric"><div class="metric-label">Successful Requests</div><div class="metric-value success">{{.Load.Successful}}</div></div>
      <div class="metric"><div class="metric-label">Failed Requests</div><div class="metric-value danger">{{.Load.Failed}}</div></div>
      <div class="metric"><div class="metric-label">Error Rate</div><div class="metric-value {{if gt .Load.ErrorRate 5.0}}danger{{else}}success{{end}}">{{printf "%.2f" .Load.ErrorRate}}%</div></div>
      <div class="metric"><div class="metric-label">Average Response Time</div><div class="metric-value info">{{printf "%.0f" .Load.AvgResponseTime}}ms</div></div>
      <div class="metric"><div class="metric-label">Min Response Time</div><div class="metric-value info">{{.Load.MinResponseTime}}ms</div></div>
      <div class="metric"><div class="metric-label">Max Response Time</div><div class="metric-value info">{{.Load.MaxResponseTime}}ms</div></div>
      <div class="metric"><div class="metric-label">Throughput</div><div class="metric-value warning">{{printf "%.2f" .Load.Throughput}} req/s</div></div>
    </div>
  </div>

  <div class="section">
    <h2>🖥️ Selenium UI Test Results</h2>
    <div class="metrics-grid">
      <div class="metric"><div class="metric-label">Total Tests</div><div class="metric-value">{{.UI.TotalTests}}</div></div>
      <div class="metric"><div class="metric-label">Successful Tests</div><div class="metric-value success">{{.UI.Successful}}</div></div>
      <div class="metric"><div class="metric-label">Failed Tests</div><div class="metric-value danger">{{.UI.Failed}}</div></div>
      <div class="metric"><div class="metric-label">Average Response Time</div><div class="metric-value info">{{printf "%.0f" .UI.AvgResponseTime}}ms</div></div>
      <div class="metric"><div class="metric-label">Min Response Time</div><div class="metric-value info">{{.UI.MinResponseTime}}ms</div></div>
      <div class="metric"><div class="metric-label">Max Response Time</div><div class="metric-value info">{{.UI.MaxResponseTime}}ms</div></div>
    </div>

    <h3>Test Details</h3>
    {{if .UI.Tests}}
    {{range .UI.Tests}}
    <div class="test-item {{if not .Success}}failed{{end}}">
      <div class="test-name">{{.Test}}</div>
      <div class="test-details">
        Response Time: {{.ResponseTime}}ms |
        Status: {{if .Success}}✅ Passed{{else}}❌ Failed{{end}} |
        Message: {{.Message}}
      </div>
    </div>
    {{end}}
    {{else}}
    <p>No test details available.</p>
    {{end}}
  </div>

  <div class="section">
    <h2>📋 Recommendations</h2>
    <ul>
    {{range .Recommendations}}<li>{{.}}</li>
    {{end}}</ul>
  </div>

  <div class="footer">
    <p>Hybrid Test Framework | Generated by hybridtest merge</p>
  </div>
</div>
</body>
</html>
`))

// WriteHTML renders the unified HTML report.
func WriteHTML(m *Merged, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return mergedTmpl.Execute(f, struct {
		Generated       string
		Load            LoadSummary
		UI              UISummary
		TotalTests      int
		SuccessRate     float64
		AvgResponseTime float64
		Recommendations []string
	}{
		Generated:       m.Timestamp.Format("2006-01-02 15:04:05"),
		Load:            m.Load,
		UI:              m.UI,
		TotalTests:      m.TotalTests(),
		SuccessRate:     m.OverallSuccessRate(),
		AvgResponseTime: m.CombinedAvgResponseTime(),
		Recommendations: m.Recommendations(),
	})
}
