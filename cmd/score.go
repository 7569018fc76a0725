package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/logger"
	"github.com/spigell/tender-responder/internal/readiness"
	"github.com/spigell/tender-responder/internal/report"
	"github.com/spigell/tender-responder/internal/summary"
	"github.com/spigell/tender-responder/internal/tender"
)

var scoreCmd = &cobra.Command{
	Use:   "score [files...]",
	Short: "Score how ready the company is to bid on a tender",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && cmd.Flag("ocid").Value.String() == "" {
			return fmt.Errorf("provide document files or --ocid")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("ocid", "", "OCID of a published tender to score")
	scoreCmd.Flags().StringP("profile", "p", "", "company profile file. The demo profile is used when unset")
	scoreCmd.Flags().String("docx", "", "write the summary and score to a Word document")
	scoreCmd.Flags().String("out", "", "write the summary and score to a JSON file")
}

func score(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	log, config := setup()

	company, err := loadCompany(cmd.Flag("profile").Value.String(), config, log)
	if err != nil {
		log.Fatal("loading the company profile", zap.Error(err))
	}

	text, release, err := tenderText(ctx, config, log, args, cmd.Flag("ocid").Value.String())
	if err != nil {
		log.Fatal("getting tender text", zap.Error(err))
	}

	ocid, title := reportIdentity(release, args)
	log = logger.WithTenderFields(log, ocid, title)

	result := readiness.New(log).Score(text, company)

	fmt.Printf("Suitability score: %d/100 (%d/%d criteria)\n", result.SuitabilityScore, result.MatchedCriteria, result.TotalCriteria)
	for _, line := range result.Checklist {
		fmt.Println("  " + line)
	}
	fmt.Println(result.Recommendation)

	if err := recordHistory(config, ocid, title, company.Name, result); err != nil {
		log.Warn("saving score history failed", zap.Error(err))
	}

	if err := writeReports(cmd, report.New(ocid, title, summary.Compose(text), &result), log); err != nil {
		log.Fatal("writing report", zap.Error(err))
	}
}

// recordHistory appends the result to the history file when one is configured.
// Degraded results are not recorded.
func recordHistory(config *Config, ocid, title, company string, result readiness.ScoreResult) error {
	if config.HistoryFile == "" || result.Degraded {
		return nil
	}

	history, err := tender.LoadHistory(config.HistoryFile)
	if err != nil {
		return err
	}

	history.Add(&tender.HistoryEntry{
		OCID:            ocid,
		Title:           title,
		Company:         company,
		Score:           result.SuitabilityScore,
		Recommendation:  result.Recommendation,
		MatchedCriteria: result.MatchedCriteria,
		TotalCriteria:   result.TotalCriteria,
	})

	return history.ToFile(config.HistoryFile)
}
