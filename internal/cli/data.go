// internal/cli/data.go
package matchboard

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mwiater/matchboard/internal/dashboard"
	"github.com/mwiater/matchboard/internal/dataset"
)

// loadStore loads the configured dataset into a dashboard store.
func loadStore() (*dashboard.Store, dataset.Payload, error) {
	path := config().DataFilePath()
	payload, err := dataset.Load(path)
	if err != nil {
		return nil, dataset.Payload{}, err
	}
	return dashboard.NewStore(payload.Runs), payload, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
