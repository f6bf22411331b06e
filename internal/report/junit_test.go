package report

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hybridtest/internal/perflog"
)

type junitDoc struct {
	Suites []struct {
		Name     string `xml:"name,attr"`
		Tests    int    `xml:"tests,attr"`
		Failures int    `xml:"failures,attr"`
		Cases    []struct {
			Name      string `xml:"name,attr"`
			Classname string `xml:"classname,attr"`
			Time      string `xml:"time,attr"`
			Failure   *struct {
				Message string `xml:"message,attr"`
			} `xml:"failure"`
		} `xml:"testcase"`
	} `xml:"testsuite"`
}

func TestWriteJUnit(t *testing.T) {
	m := &Merged{
		Timestamp: time.Now(),
		Load: LoadSummary{
			TotalRequests: 3,
			Requests: []LoadRequest{
				{Label: "Homepage", ResponseTime: 100, Success: true},
				{Label: "Homepage", ResponseTime: 140, Success: true},
				{Label: "Checkout", ResponseTime: 450, Success: false},
			},
		},
		UI: UISummary{
			TotalTests: 2,
			Tests: []perflog.Record{
				{Test: "homepage_load", ResponseTime: 800, Success: true},
				{Test: "user_login", ResponseTime: 1400, Success: false, Message: "login redirect missing"},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "merged-report.xml")
	require.NoError(t, WriteJUnit(m, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc junitDoc
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Suites, 2)

	byName := map[string]int{}
	for i, s := range doc.Suites {
		byName[s.Name] = i
	}

	load := doc.Suites[byName["jmeter-load"]]
	assert.Equal(t, 2, load.Tests) // one case per label
	assert.Equal(t, 1, load.Failures)
	for _, c := range load.Cases {
		switch c.Name {
		case "Checkout":
			require.NotNil(t, c.Failure)
			assert.Contains(t, c.Failure.Message, "1 of 1 samples failed")
			assert.Equal(t, "0.450", c.Time)
		case "Homepage":
			assert.Equal(t, "0.240", c.Time)
		}
	}

	ui := doc.Suites[byName["selenium-ui"]]
	assert.Equal(t, 2, ui.Tests)
	assert.Equal(t, 1, ui.Failures)
	for _, c := range ui.Cases {
		if c.Name == "user_login" {
			require.NotNil(t, c.Failure)
			assert.Equal(t, "login redirect missing", c.Failure.Message)
			assert.Equal(t, "1.400", c.Time)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0.000", formatSeconds(0))
	assert.Equal(t, "0.812", formatSeconds(812*time.Millisecond))
	assert.Equal(t, "90.500", formatSeconds(90*time.Second+500*time.Millisecond))
}
