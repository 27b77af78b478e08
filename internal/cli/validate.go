// internal/cli/validate.go
package matchboard

import (
	"errors"
	"fmt"

	"github.com/mwiater/matchboard/internal/dataset"
	"github.com/spf13/cobra"
)

// validateCmd implements 'validate', which checks the dataset envelope
// against its JSON schema.
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a dataset file against the dataset schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config().DataFilePath()
		if len(args) == 1 {
			path = args[0]
		}
		out := cmd.OutOrStdout()

		payload, err := dataset.Load(path)
		if err != nil {
			var invalid *dataset.ValidationError
			if errors.As(err, &invalid) {
				if JSONModeEnabled() {
					_ = writeJSON(out, map[string]any{"path": path, "valid": false, "violations": invalid.Violations})
				} else {
					fmt.Fprintf(out, "%s is invalid:\n", path)
					for _, v := range invalid.Violations {
						fmt.Fprintf(out, "  - %s\n", v)
					}
				}
			}
			return err
		}

		if JSONModeEnabled() {
			return writeJSON(out, map[string]any{"path": path, "valid": true, "runs": len(payload.Runs)})
		}
		fmt.Fprintf(out, "%s is valid (%d runs)\n", path, len(payload.Runs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
