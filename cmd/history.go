package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/tender"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored readiness scores and their average",
	Run: func(_ *cobra.Command, _ []string) {
		showHistory()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func showHistory() {
	logger, config := setup()

	if config.HistoryFile == "" {
		logger.Fatal("history-file is not configured")
	}

	history, err := tender.LoadHistory(config.HistoryFile)
	if err != nil {
		logger.Fatal("loading score history", zap.Error(err))
	}

	for _, entry := range history.Entries {
		fmt.Printf("%s  %3d/100  %s  %s\n",
			entry.CreatedAt.Format("2006-01-02 15:04"), entry.Score, entry.OCID, entry.Title,
		)
	}

	fmt.Printf("\nTotal matches: %d, average score: %.1f\n", history.Len(), history.Average())
}
