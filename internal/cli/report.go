// internal/cli/report.go
package matchboard

import (
	"fmt"
	"time"

	"github.com/mwiater/matchboard/internal/logging"
	"github.com/mwiater/matchboard/internal/report"
	"github.com/mwiater/matchboard/internal/util"
	"github.com/spf13/cobra"
)

// reportCmd implements 'report', which writes the standalone HTML report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a standalone HTML report of every successful run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := loadStore()
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("output")
		if path == "" {
			path = config().ReportFilePath()
		}

		html, err := report.GenerateHTML(store, config().TopKeysLimit(), time.Now())
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if err := util.WriteFile(path, []byte(html)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logging.LogEvent("[REPORT] %d runs written to %s", len(store.Successful()), path)

		if JSONModeEnabled() {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"path": path, "runs": len(store.Successful())})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("output", "o", "", "report destination (defaults to reportPath)")
	rootCmd.AddCommand(reportCmd)
}
