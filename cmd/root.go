// Package cmd implements the flats-scraper command line using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flats-scraper/config"
	"flats-scraper/observability"
	"flats-scraper/scraper"
	"flats-scraper/services"
	"flats-scraper/storage"
	"flats-scraper/utils"
)

// Flag variables. Flags left unset keep the value from the environment.
var (
	flagPrices     bool
	flagFloorPlans bool
	flagOutputDir  string
	flagSchema     string
	flagBrowser    bool
	flagXLSX       bool
)

var rootCmd = &cobra.Command{
	Use:   "flats-scraper",
	Short: "Scrape the unit listing of a housing promotion into a CSV file",
	Long: `flats-scraper fetches the availability table of a housing promotion, reads
each unit's floor plan and the promotion's price document, and writes one
normalized row per unit to a timestamped CSV file.

Run without arguments to execute the full pipeline with the settings from the
environment (or a .env file).`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScrape,
}

func init() {
	rootCmd.Flags().BoolVar(&flagPrices, "prices", true, "Merge the price document into the output")
	rootCmd.Flags().BoolVar(&flagFloorPlans, "floor-plans", true, "Read each unit's floor plan")
	rootCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Output directory (default: $OUTPUT_DIR or output_files)")
	rootCmd.Flags().StringVar(&flagSchema, "schema", "", "Extraction schema YAML (default: built-in)")
	rootCmd.Flags().BoolVar(&flagBrowser, "browser", false, "Render the listing page with headless Chrome")
	rootCmd.Flags().BoolVar(&flagXLSX, "xlsx", false, "Also write an XLSX copy of the output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags overrides configuration with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("prices") {
		cfg.IncludePrices = flagPrices
	}
	if flags.Changed("floor-plans") {
		cfg.IncludeFloorPlans = flagFloorPlans
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if flags.Changed("schema") {
		cfg.SchemaPath = flagSchema
	}
	if flags.Changed("browser") {
		cfg.FetchMode = config.FetchModeHTTP
		if flagBrowser {
			cfg.FetchMode = config.FetchModeBrowser
		}
	}
	if flags.Changed("xlsx") {
		cfg.WriteXLSX = flagXLSX
	}
}

func runScrape(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := utils.NewLogger()
	cfg := config.Load()
	applyFlags(cmd, cfg)
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	logger.Info("=== Flats scraper starting ===")
	logger.Info("Config: floor plans=%t | prices=%t | fetch=%s | output=%s",
		cfg.IncludeFloorPlans, cfg.IncludePrices, cfg.FetchMode, cfg.OutputDir)

	schema, err := config.LoadSchema(cfg.SchemaPath)
	if err != nil {
		return err
	}

	metrics := observability.New()
	docFetcher := scraper.NewHTTPFetcher(logger, metrics, cfg.HTTPTimeout, cfg.UserAgent)
	var pageFetcher scraper.Fetcher = docFetcher
	if cfg.FetchMode == config.FetchModeBrowser {
		pageFetcher = scraper.NewBrowserFetcher(logger, metrics, cfg.ChromeBin, "table")
	}

	pipeline, err := services.NewPipeline(cfg, schema, pageFetcher, docFetcher,
		storage.NewCSVWriter(cfg.OutputDir), logger, metrics)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	if cfg.WriteXLSX {
		pipeline.AddSink(storage.NewXLSXWriter(cfg.OutputDir))
	}
	if cfg.PostgresEnabled {
		pg, err := storage.NewPostgresWriter(ctx, cfg.DSN(), schema.Listing.IDColumn)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			pipeline.AddSink(pg)
		}
	}
	if cfg.S3.Enabled() {
		up, err := storage.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			logger.Error("Failed to configure S3 upload: %v", err)
		} else {
			pipeline.SetUploader(up)
		}
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	insightSvc := services.NewInsightService(schema.Insights, logger)
	insightSvc.Print(insightSvc.Generate(result.Table))

	fmt.Printf("  Done. Output → %s\n\n", result.OutputPath)
	return nil
}
