// internal/cli/dashboard.go
package matchboard

import (
	"fmt"

	"github.com/mwiater/matchboard/internal/dashboard"
	"github.com/mwiater/matchboard/internal/logging"
	"github.com/mwiater/matchboard/internal/tui"
	"github.com/spf13/cobra"
)

// startDashboard is swapped out in tests.
var startDashboard = tui.Start

// dashboardCmd implements 'dashboard', the interactive terminal dashboard.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Browse runs in an interactive terminal dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := loadStore()
		if err != nil {
			return err
		}
		// The TUI owns the terminal; keep log lines in the file only.
		if err := logging.InitQuiet(config().LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		var sel dashboard.Selection
		if err := startDashboard(store, &sel, config()); err != nil {
			return err
		}
		if sel.RunID != "" {
			logging.LogRunEvent("dashboard-exit", sel.RunID, nil)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
