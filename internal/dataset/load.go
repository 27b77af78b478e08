// internal/dataset/load.go
// Package dataset loads the run batch published by the matching pipeline.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mwiater/matchboard/internal/logging"
	"github.com/mwiater/matchboard/internal/runs"
)

// ScriptPrefix introduces the payload when it is published as a dashboard data script.
const ScriptPrefix = "window.MVP_DASHBOARD_DATA ="

// ErrUnexpectedFormat is returned when a file is neither JSON nor a dashboard data script.
var ErrUnexpectedFormat = errors.New("unexpected dataset format")

// Payload is the decoded dataset. Upstream summaries are not trusted; see metrics.Summarize.
type Payload struct {
	GeneratedAt string        `json:"generated_at,omitempty"`
	OutputRoot  string        `json:"output_root,omitempty"`
	Runs        []runs.Record `json:"runs"`
}

// Load reads, validates and decodes a dataset file.
func Load(path string) (Payload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("unable to read dataset %s: %w", path, err)
	}
	payload, err := Parse(raw)
	if err != nil {
		return Payload{}, fmt.Errorf("unable to load dataset %s: %w", path, err)
	}
	logging.LogEvent("[DATASET] loaded %d runs from %s", len(payload.Runs), path)
	return payload, nil
}

// Parse decodes a dataset from plain JSON or from the dashboard data script form.
func Parse(raw []byte) (Payload, error) {
	body, err := ExtractJSON(raw)
	if err != nil {
		return Payload{}, err
	}
	if err := Validate(body); err != nil {
		return Payload{}, err
	}
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Payload{}, fmt.Errorf("unable to decode dataset: %w", err)
	}
	if payload.Runs == nil {
		payload.Runs = []runs.Record{}
	}
	return payload, nil
}

// ExtractJSON strips the script wrapper, if any, and returns the JSON object bytes.
func ExtractJSON(raw []byte) ([]byte, error) {
	body := bytes.TrimSpace(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")))
	if bytes.HasPrefix(body, []byte(ScriptPrefix)) {
		body = bytes.TrimSpace(body[len(ScriptPrefix):])
		body = bytes.TrimSuffix(body, []byte(";"))
		body = bytes.TrimSpace(body)
	}
	if len(body) == 0 || body[0] != '{' {
		return nil, ErrUnexpectedFormat
	}
	return body, nil
}
