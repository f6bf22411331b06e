package uitest

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hybridtest/internal/perflog"
)

func TestSuiteOrder(t *testing.T) {
	require.Len(t, Suite, 3)
	assert.Equal(t, "homepage_load", Suite[0].name)
	assert.Equal(t, "user_login", Suite[1].name)
	assert.Equal(t, "dashboard_load", Suite[2].name)
}

func TestWaitTimeoutDefault(t *testing.T) {
	assert.Equal(t, 10*time.Second, Options{}.waitTimeout())
	assert.Equal(t, 3*time.Second, Options{WaitTimeout: 3 * time.Second}.waitTimeout())
}

// The browser stack is only launched when a case actually drives it, so
// stub cases exercise the timing and record-append wrapper on their own.
func TestRunCaseRecordsOutcome(t *testing.T) {
	dir := t.TempDir()
	w, err := perflog.NewWriter(dir)
	require.NoError(t, err)

	opts := Options{BaseURL: "http://localhost:8080", ReportDir: dir}

	ok, msg := runCase(context.Background(), opts, w, testCase{
		name: "stub_pass",
		run: func(context.Context, Options) (bool, string, error) {
			return true, "all good", nil
		},
	})
	assert.True(t, ok)
	assert.Equal(t, "all good", msg)

	ok, msg = runCase(context.Background(), opts, w, testCase{
		name: "stub_error",
		run: func(context.Context, Options) (bool, string, error) {
			return true, "ignored", errors.New("browser exploded")
		},
	})
	assert.False(t, ok)
	assert.Equal(t, "browser exploded", msg)

	records, err := perflog.ReadJSON(dir + "/" + perflog.JSONFile)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "stub_pass", records[0].Test)
	assert.True(t, records[0].Success)
	assert.Equal(t, "stub_error", records[1].Test)
	assert.False(t, records[1].Success)
	assert.Equal(t, "browser exploded", records[1].Message)

	logRecords, err := perflog.ReadLog(dir + "/" + perflog.LogFile)
	require.NoError(t, err)
	assert.Len(t, logRecords, len(records))
}
