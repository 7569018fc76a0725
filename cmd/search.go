package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/document"
	"github.com/spigell/tender-responder/internal/etenders"
	"github.com/spigell/tender-responder/internal/filtering"
	"github.com/spigell/tender-responder/internal/readiness"
	"github.com/spigell/tender-responder/internal/relevance"
	"github.com/spigell/tender-responder/internal/summary"
	"github.com/spigell/tender-responder/internal/tender"
)

const (
	PromptYes                 = "Yes"
	PromptNo                  = "No"
	PromptBack                = "back"
	PromptReportByBuyers      = "Report by buyers"
	PromptReview              = "Review tenders one by one"
	PromptAppendToExcludeFile = "Append all tenders to exclude file"
	PromptTendersToFile       = "Dump tenders to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Score and show the tenders?",
	Items: []string{PromptYes, PromptNo, PromptReportByBuyers, PromptReview, PromptTendersToFile},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search tenders, filter them and review the result",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("keywords", "k", "", "keywords to search for. Overrides search.keywords")
	searchCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation, score and print the found tenders")
	searchCmd.Flags().StringP("exclude-file", "e", "", "special file with tenders to exclude. Default is unset.")
	searchCmd.Flags().StringP("profile", "p", "", "company profile file used for readiness scoring")

	viper.BindPFlag("search.keywords", searchCmd.Flags().Lookup("keywords"))
	viper.BindPFlag("exclude-file", searchCmd.Flags().Lookup("exclude-file"))
}

func search(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup()

	logger.Info("starting the tender-responder", zap.String("version", version))

	source, closeSource, err := newSource(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the tender source", zap.Error(err))
	}
	defer closeSource()

	company, err := loadCompany(cmd.Flag("profile").Value.String(), config, logger)
	if err != nil {
		logger.Fatal("loading the company profile", zap.Error(err))
	}

	logger.Info("starting the search", zap.String("keywords", config.searchParams().Keywords))

	listings, err := source.Search(ctx, config.searchParams())
	if err != nil {
		logger.Fatal("getting tenders", zap.Error(err))
	}

	logger.Info("getting tenders", zap.Int("count", listings.Len()))

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no tenders found"))
		return
	}

	listings, err = prepareFilters(config, company, logger).RunFilters(ctx, listings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no tenders left after filters"))
		return
	}

	for {
		action := PromptYes
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of tenders", zap.Int("count", listings.Len()))

		if err := handleAction(action, logger, config, company, listings); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (c *Config) searchParams() *etenders.SearchParams {
	if c.Search == nil {
		return &etenders.SearchParams{}
	}
	return c.Search
}

func handleAction(action string, logger *zap.Logger, config *Config, company *readiness.CompanyProfile, listings *tender.Listings) error {
	switch action {
	case PromptYes:
		for _, release := range listings.Items {
			printTender(release, company)
		}
		logger.Info("all tenders printed", zap.Int("count", listings.Len()))
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReview:
		return review(logger, config, company, listings)
	case PromptReportByBuyers:
		pretty, _ := json.MarshalIndent(listings.ReportByBuyer(), "", "  ")
		logger.Info(string(pretty), zap.Int("tenders count", listings.Len()))
		return nil
	case PromptTendersToFile:
		filename, err := listings.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func review(logger *zap.Logger, config *Config, company *readiness.CompanyProfile, listings *tender.Listings) error {
	for {
		items := make([]string, 0, listings.Len()+2)
		for _, release := range listings.Items {
			items = append(items, fmt.Sprintf("%s %s / %s / closes %s",
				release.OCID, release.Title(), release.BuyerName(), release.Tender.TenderPeriod.EndDate,
			))
		}

		excludeFile := config.ExcludeFile
		if excludeFile != "" && listings.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		tenderPrompt := promptui.Select{
			Label: "Choose a tender and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		_, selected, err := tenderPrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptBack:
			return nil
		case PromptAppendToExcludeFile:
			excluded, err := tender.GetExcludedFromFile(excludeFile)
			if err != nil {
				return err
			}

			excluded.Append(listings.ToExcluded(tender.ExcludeActorManual, ""))

			if err = excluded.ToFile(excludeFile); err != nil {
				return err
			}

			logger.Info("appended to exclude file", zap.String("filename", excludeFile))

			listings.Exclude(tender.OCIDField, excluded.OCIDs())
		default:
			ocid := strings.Split(selected, " ")[0]

			release := listings.FindByOCID(ocid)
			if release == nil {
				return fmt.Errorf("there is no such tender %s", ocid)
			}

			printTender(release, company)

			listings.Exclude(tender.OCIDField, []string{ocid})
		}
	}
}

// printTender shows the summary and readiness of a listing. A readiness assessment
// attached by the pipeline is reused.
func printTender(release *tender.Release, company *readiness.CompanyProfile) {
	s := summary.Compose(release.Text())

	fmt.Printf("\n%s (%s)\n", release.Title(), release.OCID)
	fmt.Printf("Buyer: %s | Closes: %s\n\n", release.BuyerName(), release.Tender.TenderPeriod.EndDate)
	fmt.Println(s.Text)

	if release.Readiness == nil {
		result := readiness.Score(release.Text(), company)
		release.Readiness = &tender.Assessment{
			Score:          result.SuitabilityScore,
			Recommendation: result.Recommendation,
			Checklist:      result.Checklist,
			Degraded:       result.Degraded,
		}
	}

	fmt.Printf("\nSuitability score: %d/100\n", release.Readiness.Score)
	for _, line := range release.Readiness.Checklist {
		fmt.Println("  " + line)
	}
	fmt.Println(release.Readiness.Recommendation)
}

func prepareFilters(config *Config, company *readiness.CompanyProfile, logger *zap.Logger) *filtering.Filtering {
	query := relevance.Query{}
	if config.Search != nil {
		query.Keywords = config.Search.Keywords
		query.Filters = config.Search.Filters()
	}

	var buyers []string
	if config.Exclude != nil {
		buyers = config.Exclude.Buyers
	}

	readinessCfg := &filtering.ReadinessFilterConfig{}
	deps := &filtering.ReadinessFilterDeps{
		Logger:      logger,
		Company:     company,
		ExcludeFile: config.ExcludeFile,
	}
	if config.Readiness != nil {
		readinessCfg.Enabled = config.Readiness.Enabled
		readinessCfg.MinimumScore = config.Readiness.MinimumScore
		if config.Readiness.Documents {
			deps.Documents = document.NewFetcher(logger)
		}
	}

	steps := []filtering.Filter{
		filtering.NewRelevance(query, logger),
		filtering.NewExcludedBuyers(buyers),
		filtering.NewExcludeFile(config.ExcludeFile),
		filtering.NewReadiness(readinessCfg, deps),
	}

	return filtering.New(steps, logger)
}
