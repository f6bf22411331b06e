package perflog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	LogFile  = "selenium_performance.log"
	JSONFile = "selenium_performance.json"

	// TimeLayout matches the timestamp format in both sink files.
	TimeLayout = "2006-01-02 15:04:05"
)

// Record is one performance measurement for a single UI test case.
// Records are append-only: every test case writes exactly one, pass or fail.
type Record struct {
	Timestamp    time.Time
	Test         string
	ResponseTime int64 // ms
	Success      bool
	Message      string
}

type jsonRecord struct {
	Timestamp    string `json:"timestamp"`
	Test         string `json:"test"`
	ResponseTime int64  `json:"responseTime"`
	Success      bool   `json:"success"`
	Message      string `json:"message"`
}

// Writer appends records to the two sink files (CSV line + JSON-lines).
type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create report dir")
	}
	return &Writer{dir: dir}, nil
}

// Append writes the record to both sinks. A failure on either sink is
// reported but the sinks never get out of step silently: the CSV line is
// written first, and a JSON failure surfaces as an error.
func (w *Writer) Append(r Record) error {
	ts := r.Timestamp.Format(TimeLayout)

	line := fmt.Sprintf("%s,%s,%d,%t,%s\n",
		ts, r.Test, r.ResponseTime, r.Success, sanitize(r.Message))
	if err := appendLine(filepath.Join(w.dir, LogFile), line); err != nil {
		return errors.Wrap(err, "append performance log")
	}

	b, err := json.Marshal(jsonRecord{
		Timestamp:    ts,
		Test:         r.Test,
		ResponseTime: r.ResponseTime,
		Success:      r.Success,
		Message:      r.Message,
	})
	if err != nil {
		return errors.Wrap(err, "marshal performance record")
	}
	if err := appendLine(filepath.Join(w.dir, JSONFile), string(b)+"\n"); err != nil {
		return errors.Wrap(err, "append performance json")
	}
	return nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}

// sanitize keeps the CSV line format stable: messages may contain commas or
// newlines (browser errors often do).
func sanitize(msg string) string {
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.ReplaceAll(msg, ",", ";")
}

// ReadJSON parses a JSON-lines sink file. Blank lines are skipped, malformed
// lines abort the parse.
func ReadJSON(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var jr jsonRecord
		if err := json.Unmarshal([]byte(line), &jr); err != nil {
			return nil, errors.Wrapf(err, "parse json record %q", line)
		}
		out = append(out, fromJSON(jr))
	}
	return out, sc.Err()
}

// ReadLog parses the line-delimited CSV sink file.
func ReadLog(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// timestamp,testName,responseTimeMs,success,message
		// The message may itself contain separators, so split bounded.
		parts := strings.SplitN(line, ",", 5)
		if len(parts) < 5 {
			return nil, errors.Errorf("malformed performance log line %q", line)
		}
		ts, err := time.Parse(TimeLayout, parts[0])
		if err != nil {
			return nil, errors.Wrap(err, "parse timestamp")
		}
		rt, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "parse response time")
		}
		out = append(out, Record{
			Timestamp:    ts,
			Test:         parts[1],
			ResponseTime: rt,
			Success:      parts[3] == "true",
			Message:      parts[4],
		})
	}
	return out, sc.Err()
}

func fromJSON(jr jsonRecord) Record {
	ts, _ := time.Parse(TimeLayout, jr.Timestamp)
	return Record{
		Timestamp:    ts,
		Test:         jr.Test,
		ResponseTime: jr.ResponseTime,
		Success:      jr.Success,
		Message:      jr.Message,
	}
}
