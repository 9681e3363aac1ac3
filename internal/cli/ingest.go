package cli

import (
	"github.com/spf13/cobra"

	"github.com/vytor/chesspulse/internal/report"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <username>",
	Short: "Ingest a player's recent games from chess.com",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Ingest.Ingest(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	report.PrintIngestResult(cmd.OutOrStdout(), *res)
	return nil
}
