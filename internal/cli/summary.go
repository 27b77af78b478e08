// internal/cli/summary.go
package matchboard

import (
	"fmt"

	"github.com/mwiater/matchboard/internal/dashboard"
	"github.com/mwiater/matchboard/internal/logging"
	"github.com/mwiater/matchboard/internal/metrics"
	"github.com/mwiater/matchboard/internal/runs"
	"github.com/spf13/cobra"
)

// summaryCmd implements 'summary', the batch-level overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the run batch",
	Long:  `Count runs by status and pool precision and recall over the runs evaluated against ground truth. Pooled values come from summed confusion counts.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, payload, err := loadStore()
		if err != nil {
			return err
		}
		summary := metrics.Summarize(store.All())
		logging.LogEvent("[SUMMARY] runs=%d successful=%d quality=%d", summary.RunsTotal, summary.SuccessfulRuns, summary.QualityRunsTotal)

		out := cmd.OutOrStdout()
		if JSONModeEnabled() {
			return writeJSON(out, summary)
		}

		fmt.Fprintln(out, headingStyle.Render("Batch Summary"))
		if payload.GeneratedAt != "" {
			fmt.Fprintln(out, mutedStyle.Render("generated "+payload.GeneratedAt))
		}
		count := func(n int) string { return dashboard.FormatInt(runs.Some(float64(n))) }
		latest := summary.LatestRunID
		if latest == "" {
			latest = dashboard.NotAvailable
		}
		rows := [][2]string{
			{"Runs", count(summary.RunsTotal)},
			{"Successful", count(summary.SuccessfulRuns)},
			{"Failed", count(summary.FailedRuns)},
			{"Incomplete", count(summary.IncompleteRuns)},
			{"Quality runs", count(summary.QualityRunsTotal)},
			{"Latest run", latest},
			{"Records input (quality runs)", dashboard.FormatInt(runs.Some(summary.RecordsInputTotal))},
			{"Matched pairs (quality runs)", dashboard.FormatInt(runs.Some(summary.MatchedPairsTotal))},
			{"Pooled precision", dashboard.FormatPct(summary.PooledPrecisionPct)},
			{"Pooled recall", dashboard.FormatPct(summary.PooledRecallPct)},
		}
		for _, row := range rows {
			fmt.Fprintf(out, "  %-30s %s\n", row[0]+":", row[1])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
