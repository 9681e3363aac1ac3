package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/vytor/chesspulse/internal/models"
	"github.com/vytor/chesspulse/internal/narrator"
)

// PrintAggregation writes the record header and a per-bucket table.
func PrintAggregation(w io.Writer, res models.AggregationResult) {
	who := res.Player
	if who == "" {
		who = "all players"
	}
	fmt.Fprintf(w, "\nPlayer: %s  |  Last %d days  |  Record: %dW-%dD-%dL (%s)  |  Streak: %s\n\n",
		who, res.WindowDays, res.Wins, res.Draws, res.Losses,
		narrator.Percent(res.WinRate), narrator.DescribeStreak(res.CurrentStreak))

	if res.Total == 0 {
		fmt.Fprintln(w, "No games in this window.")
		return
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("TIME_CLASS", "GAMES", "W", "D", "L", "WIN%")
	for _, b := range res.Buckets {
		table.Append(
			b.Key,
			strconv.Itoa(b.Games),
			strconv.Itoa(b.Wins),
			strconv.Itoa(b.Draws),
			strconv.Itoa(b.Losses),
			narrator.Percent(b.WinRate),
		)
	}
	table.Render()
}

// PrintIngestResult writes a one-line ingestion report.
func PrintIngestResult(w io.Writer, res models.IngestResult) {
	fmt.Fprintf(w, "%s (%s: new=%d existing=%d unclassified=%d)\n",
		res.Message, res.Username, res.GamesIngested, res.SkippedExisting, res.SkippedUnknown)
}
