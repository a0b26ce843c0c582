package main

import (
	"jobmate/internal/config"
	"jobmate/internal/scraper"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape URL [URL...]",
	Short: "Scrape one or more job postings and print the extracted records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().Bool("headless", false, "render pages with a headless browser")
	scrapeCmd.Flags().Int("retries", scraper.DefaultRetries, "attempts per page")
	scrapeCmd.Flags().Int("workers", 4, "concurrent fetches for several URLs")

	for key, name := range map[string]string{
		"SCRAPER_HEADLESS": "headless",
		"SCRAPER_RETRIES":  "retries",
		"SCRAPER_WORKERS":  "workers",
	} {
		if err := viper.BindPFlag(key, scrapeCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func newScraper(cfg config.ScraperConfig, log *zap.Logger) *scraper.Scraper {
	return scraper.New(scraper.Options{
		Retries:   cfg.Retries,
		BaseDelay: cfg.BaseDelay,
		Timeout:   cfg.Timeout,
		Headless:  cfg.Headless,
	}, nil, log)
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s := newScraper(cfg.Scraper, log)

	if len(args) == 1 {
		rec, err := s.ScrapeJob(ctx, args[0])
		if err != nil {
			log.Error("scrape failed", zap.String("url", args[0]), zap.Error(err))
			return err
		}
		return printJSON(cmd.OutOrStdout(), rec)
	}

	results := s.ScrapeBatch(ctx, args, cfg.Scraper.Workers, scraper.NewHostLimiter(cfg.Scraper.HostRPS))
	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		item := map[string]any{"url": r.URL}
		if r.Err != nil {
			item["error"] = r.Err.Error()
		} else {
			item["record"] = r.Record
		}
		out = append(out, item)
	}
	return printJSON(cmd.OutOrStdout(), out)
}
