// internal/cli/runs.go
package matchboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/k0kubun/pp"
	"github.com/mwiater/matchboard/internal/dashboard"
	"github.com/mwiater/matchboard/internal/logging"
	"github.com/mwiater/matchboard/internal/metrics"
	"github.com/mwiater/matchboard/internal/runs"
	"github.com/mwiater/matchboard/internal/util"
	"github.com/spf13/cobra"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

// runsCmd groups the run-level subcommands.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect individual matching runs",
}

// runsListCmd implements 'runs list'.
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List successful runs in dataset order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := loadStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if JSONModeEnabled() {
			return writeJSON(out, runListing(store))
		}
		printRunList(out, store)
		return nil
	},
}

// runsShowCmd implements 'runs show [id]'.
var runsShowCmd = &cobra.Command{
	Use:   "show [run-id|all]",
	Short: "Show the metric cards of one run or of all runs combined",
	Long:  `Show the metric cards, distributions and ranked match keys of a run. Pass 'all' for the aggregate of every successful run. Without an argument the configured defaultRun, or the first successful run, is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := loadStore()
		if err != nil {
			return err
		}

		sel := dashboard.Selection{RunID: config().DefaultRun}
		if len(args) == 1 {
			sel.Select(args[0])
		} else {
			sel.Ensure(store)
		}
		if sel.RunID == "" {
			return fmt.Errorf("%w: no successful runs in %s", dashboard.ErrRunNotFound, config().DataFilePath())
		}
		rec, err := store.Lookup(sel.RunID)
		if err != nil {
			return fmt.Errorf("%w: %s", err, sel.RunID)
		}
		logging.LogRunEvent("show", rec.RunID, map[string]any{"aggregate": metrics.IsAggregate(rec)})

		out := cmd.OutOrStdout()
		raw, _ := cmd.Flags().GetBool("raw")
		switch {
		case raw:
			_, err := pp.Fprintln(out, rec)
			return err
		case JSONModeEnabled():
			return writeJSON(out, runDetail{
				Record:    rec,
				Derived:   metrics.Resolve(rec),
				Cards:     dashboard.Cards(rec),
				MatchKeys: dashboard.MatchKeyRows(store.TopKeys(rec, config().TopKeysLimit())),
			})
		default:
			printRun(out, store, rec, config().TopKeysLimit())
			return nil
		}
	},
}

func init() {
	runsShowCmd.Flags().Bool("raw", false, "dump the decoded record instead of cards")
	runsCmd.AddCommand(runsListCmd, runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// runListEntry is one row of 'runs list --json'.
type runListEntry struct {
	RunID        string   `json:"run_id"`
	Label        string   `json:"label"`
	RecordsInput runs.Num `json:"records_input"`
	MatchedPairs runs.Num `json:"matched_pairs"`
	PrecisionPct runs.Num `json:"precision_pct"`
}

// runDetail is the JSON form of 'runs show'.
type runDetail struct {
	Record    runs.Record             `json:"record"`
	Derived   metrics.Derived         `json:"derived"`
	Cards     []dashboard.Card        `json:"cards"`
	MatchKeys []dashboard.MatchKeyRow `json:"match_keys"`
}

func runListing(store *dashboard.Store) []runListEntry {
	entries := make([]runListEntry, 0, len(store.Successful()))
	for _, rec := range store.Successful() {
		entries = append(entries, runListEntry{
			RunID:        rec.RunID,
			Label:        runs.DisplayLabel(rec),
			RecordsInput: rec.RecordsInput,
			MatchedPairs: rec.MatchedPairs,
			PrecisionPct: metrics.Precision(rec),
		})
	}
	return entries
}

func printRunList(out io.Writer, store *dashboard.Store) {
	entries := runListing(store)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No successful runs found.")
		return
	}
	idWidth, labelWidth := len("RUN ID"), len("LABEL")
	for _, e := range entries {
		idWidth = util.Max(idWidth, len([]rune(e.RunID)))
		labelWidth = util.Max(labelWidth, len([]rune(e.Label)))
	}
	labelWidth = min(labelWidth, 48)

	header := fmt.Sprintf("%s  %s  %12s  %12s  %10s",
		util.PadRunes("RUN ID", idWidth), util.PadRunes("LABEL", labelWidth), "RECORDS", "PAIRS", "PRECISION")
	fmt.Fprintln(out, headingStyle.Render(header))
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s  %12s  %12s  %10s\n",
			util.PadRunes(e.RunID, idWidth),
			util.PadRunes(e.Label, labelWidth),
			dashboard.FormatInt(e.RecordsInput),
			dashboard.FormatInt(e.MatchedPairs),
			dashboard.FormatPct(e.PrecisionPct),
		)
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d successful of %d runs", len(entries), len(store.All()))))
}

func printRun(out io.Writer, store *dashboard.Store, rec runs.Record, topKeys int) {
	fmt.Fprintln(out, headingStyle.Render(dashboard.Title(rec)))
	if !metrics.IsAggregate(rec) {
		fmt.Fprintln(out, mutedStyle.Render(rec.RunID))
	}

	cards := dashboard.Cards(rec)
	labelWidth := 0
	for _, c := range cards {
		labelWidth = util.Max(labelWidth, len(c.Label))
	}
	lines := make([]string, 0, len(cards))
	for _, c := range cards {
		lines = append(lines, fmt.Sprintf("%s  %s", util.PadRunes(c.Label, labelWidth), c.Value))
	}
	fmt.Fprintln(out, boxStyle.Render(strings.Join(lines, "\n")))

	printDistribution(out, "Entity Size Distribution", rec.EntitySizeDistribution)
	printDistribution(out, "Match Level Distribution", rec.MatchLevelDistribution)

	fmt.Fprintln(out, headingStyle.Render("Top Match Keys"))
	rows := dashboard.MatchKeyRows(store.TopKeys(rec, topKeys))
	if len(rows) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  no match keys reported"))
	}
	for _, row := range rows {
		fmt.Fprintf(out, "  %2d. %s %s (%.1f%%)\n", row.Rank, util.PadRunes(row.Label, 32), dashboard.FormatInt(runs.Some(row.Count)), row.SharePct)
	}
}

func printDistribution(out io.Writer, title string, dist runs.Distribution) {
	fmt.Fprintln(out, headingStyle.Render(title))
	bars := dashboard.DistributionBars(dist)
	if len(bars) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  no data"))
		return
	}
	total := dist.Total()
	for _, bar := range bars {
		share := 0.0
		if total > 0 {
			share = bar.Value / total * 100
		}
		fmt.Fprintf(out, "  %s %s %s\n", util.PadRunes(bar.Key, 8), util.PadRunes(util.Bar(share, 30), 30), dashboard.FormatInt(runs.Some(bar.Value)))
	}
}
