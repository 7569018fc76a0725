package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/report"
	"github.com/spigell/tender-responder/internal/summary"
	"github.com/spigell/tender-responder/internal/tender"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [files...]",
	Short: "Summarize tender documents or a published tender",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && cmd.Flag("ocid").Value.String() == "" {
			return fmt.Errorf("provide document files or --ocid")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		summarize(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().String("ocid", "", "OCID of a published tender to summarize")
	summarizeCmd.Flags().String("docx", "", "write the summary to a Word document")
	summarizeCmd.Flags().String("out", "", "write the summary to a JSON file")
}

func summarize(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, config := setup()

	text, release, err := tenderText(ctx, config, logger, args, cmd.Flag("ocid").Value.String())
	if err != nil {
		logger.Fatal("getting tender text", zap.Error(err))
	}

	s := summary.Compose(text)

	fmt.Println(s.Text)
	fmt.Println("\nKey points:")
	for _, highlight := range s.Highlights {
		fmt.Println("  " + highlight)
	}

	ocid, title := reportIdentity(release, args)
	if err := writeReports(cmd, report.New(ocid, title, s, nil), logger); err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}
}

func reportIdentity(release *tender.Release, files []string) (string, string) {
	if release != nil {
		return release.OCID, release.Title()
	}
	return "", strings.Join(files, ", ")
}

func writeReports(cmd *cobra.Command, r *report.Report, logger *zap.Logger) error {
	if path := cmd.Flag("docx").Value.String(); path != "" {
		if err := r.WriteDocx(path); err != nil {
			return err
		}
		logger.Info("report written", zap.String("filename", path), zap.String("report_id", r.ID.String()))
	}

	if path := cmd.Flag("out").Value.String(); path != "" {
		if err := r.WriteJSON(path); err != nil {
			return err
		}
		logger.Info("report written", zap.String("filename", path), zap.String("report_id", r.ID.String()))
	}

	return nil
}
