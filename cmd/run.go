package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nikhil-rg/salespipe/internal/application/service"
	"github.com/nikhil-rg/salespipe/internal/config"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/api"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
)

var (
	flagInput       string
	flagOutput      string
	flagReport      string
	flagRegion      string
	flagMinAmount   string
	flagMaxAmount   string
	flagInteractive bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sales analytics pipeline",
	RunE:  runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&flagInput, "input", "", "input sales data file (overrides config)")
	runCmd.Flags().StringVar(&flagOutput, "output", "", "enriched dataset output file (overrides config)")
	runCmd.Flags().StringVar(&flagReport, "report", "", "report output file (overrides config)")
	runCmd.Flags().StringVar(&flagRegion, "region", "", "only include transactions from this region")
	runCmd.Flags().StringVar(&flagMinAmount, "min-amount", "", "inclusive lower bound on transaction amount")
	runCmd.Flags().StringVar(&flagMaxAmount, "max-amount", "", "inclusive upper bound on transaction amount")
	runCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "prompt for filter criteria")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if flagInput != "" {
		cfg.InputPath = flagInput
	}
	if flagOutput != "" {
		cfg.EnrichedPath = flagOutput
	}
	if flagReport != "" {
		cfg.ReportPath = flagReport
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	criteria, err := buildCriteria()
	if err != nil {
		return err
	}

	catalog := api.NewCatalogAPIClient(
		cfg.Catalog.BaseURL,
		cfg.Catalog.Timeout(),
		cfg.Catalog.RequestsPerSecond,
		log,
	)

	pipeline := service.NewPipelineService(cfg, catalog, log)
	result, err := pipeline.Run(cmd.Context(), criteria)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s complete.\n", result.Stats.RunID)
	fmt.Printf("  Enriched dataset: %s\n", result.EnrichedPath)
	fmt.Printf("  Report:           %s\n", result.ReportPath)
	fmt.Printf("  Valid: %d  Rejected: %d  Enriched: %d/%d\n",
		result.Stats.Rejections.Valid,
		result.Stats.Rejections.Rejected(),
		result.Stats.Enrichment.Matched,
		result.Stats.Enrichment.Matched+result.Stats.Enrichment.Unmatched)
	return nil
}

// buildCriteria assembles filter criteria from flags, or from interactive
// prompts when --interactive is set. Empty input means no constraint.
func buildCriteria() (service.Criteria, error) {
	region := flagRegion
	minAmount := flagMinAmount
	maxAmount := flagMaxAmount

	if flagInteractive {
		reader := bufio.NewReader(os.Stdin)
		region = prompt(reader, "Enter region (or press Enter to skip): ")
		minAmount = prompt(reader, "Enter minimum amount (or press Enter to skip): ")
		maxAmount = prompt(reader, "Enter maximum amount (or press Enter to skip): ")
	}

	var criteria service.Criteria
	if region != "" {
		criteria.Region = &region
	}

	var err error
	if criteria.MinAmount, err = parseAmount(minAmount, "minimum amount"); err != nil {
		return criteria, err
	}
	if criteria.MaxAmount, err = parseAmount(maxAmount, "maximum amount"); err != nil {
		return criteria, err
	}
	return criteria, nil
}

func prompt(reader *bufio.Reader, msg string) string {
	fmt.Print(msg)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func parseAmount(s, name string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return &d, nil
}
