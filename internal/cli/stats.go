package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/report"
)

var (
	statsPlayer  string
	statsDays    int
	statsSummary bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show win rates per time class over a recent window",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsPlayer, "player", "", "restrict to one player (default: all)")
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "window size in days")
	statsCmd.Flags().BoolVar(&statsSummary, "summary", false, "also print the narrated insight")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsDays <= 0 {
		return fmt.Errorf("--days must be a positive integer (got %d)", statsDays)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	filter := models.StatsFilter{Player: statsPlayer, Days: statsDays}
	out := cmd.OutOrStdout()

	if !statsSummary {
		res, err := a.Stats.Aggregate(cmd.Context(), filter)
		if err != nil {
			return err
		}
		report.PrintAggregation(out, *res)
		return nil
	}

	summary, err := a.Stats.Summary(cmd.Context(), filter)
	if err != nil {
		return err
	}
	report.PrintAggregation(out, summary.AggregationResult)
	fmt.Fprintf(out, "\n%s\n\n(source: %s)\n", summary.Insight, summary.Source)
	return nil
}
