// internal/runs/runid.go
package runs

import (
	"regexp"
	"strings"
	"time"
)

// RunTimestampLayout is the timestamp prefix of every run id.
const RunTimestampLayout = "20060102_150405"

var runIDPattern = regexp.MustCompile(`^(\d{8}_\d{6})(?:__([A-Za-z0-9._-]+))?$`)

// ParseRunTime extracts the run time from the run id, falling back to RunDatetime.
func ParseRunTime(r Record) (time.Time, bool) {
	if m := runIDPattern.FindStringSubmatch(r.RunID); m != nil {
		if t, err := time.ParseInLocation(RunTimestampLayout, m[1], time.Local); err == nil {
			return t, true
		}
	}
	value := strings.TrimSpace(r.RunDatetime)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FolderLabel returns the label suffix encoded in a run id ("" when absent).
func FolderLabel(runID string) string {
	if m := runIDPattern.FindStringSubmatch(runID); m != nil {
		return m[2]
	}
	return ""
}

// DisplayLabel builds the human label shown in run selectors.
func DisplayLabel(r Record) string {
	source := strings.TrimSpace(r.SourceInputName)
	if source == "" {
		source = strings.TrimSpace(r.RunLabel)
	}
	t, ok := ParseRunTime(r)
	if !ok {
		if source != "" {
			return source
		}
		return r.RunID
	}
	formatted := t.Format("02 January 2006 15:04")
	if source != "" {
		return source + " | " + formatted
	}
	return formatted
}
