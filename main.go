package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/term"

	"property-scraper/config"
	"property-scraper/scraper/browser"
	"property-scraper/scraper/rightmove"
	"property-scraper/services"
	"property-scraper/storage"
	"property-scraper/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("%v", err)
		return 1
	}

	urlFile := flag.String("urls", cfg.URLFile, "file with one listing-search URL per line")
	mode := flag.String("mode", cfg.Mode, "scrape mode: browser or embedded")
	normalize := flag.Bool("normalize", false, "write the normalized CSV even in browser mode")
	flag.Parse()

	cfg.URLFile = *urlFile
	cfg.Mode = *mode
	if err := cfg.Validate(); err != nil {
		logger.Error("%v", err)
		return 1
	}
	logger.SetDebug(cfg.Debug)

	runID := uuid.New()
	logger.Info("=== Property scraper starting (run %s) ===", runID)
	logger.Info("Config: mode=%s | urls=%s | json=%s | csv=%s",
		cfg.Mode, cfg.URLFile, cfg.JSONPath, cfg.CSVPath)

	urls, err := utils.ReadURLFile(cfg.URLFile)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	if len(urls) == 0 {
		logger.Warn("No URLs in %s", cfg.URLFile)
	}
	logger.Info("Loaded %d URLs", len(urls))

	var mirrors []storage.RecordWriter
	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		pgWriter, err = storage.NewPostgresWriter(cfg.DSN(), runID)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			return 1
		}
		mirrors = append(mirrors, pgWriter)
	}

	persister := storage.NewMultiFormatPersister(storage.Paths{
		JSON:        cfg.JSONPath,
		CSV:         cfg.CSVPath,
		CompactJSON: cfg.CompactPath,
	}, logger, mirrors...)
	defer persister.Close()

	extractor := rightmove.NewExtractor(cfg.Selectors, logger)
	var source services.Source
	switch cfg.Mode {
	case config.ModeEmbedded:
		var gate *rightmove.RobotsGate
		if cfg.RespectRobots {
			gate = rightmove.NewRobotsGate(nil, cfg.UserAgent)
		}
		fetcher := rightmove.NewFetcher(cfg.HTTPTimeout, cfg.UserAgent, gate)
		source = rightmove.NewEmbeddedSource(fetcher, extractor, cfg.PayloadDir, logger)
	default:
		driver := browser.NewChromeDriver(browser.Options{
			ChromeBin: cfg.ChromeBin,
			Headless:  cfg.Headless,
			UserAgent: cfg.UserAgent,
		})
		source = rightmove.NewBrowserSource(driver, extractor, cfg.Selectors, rightmove.Timeouts{
			PageLoad:    cfg.PageLoadTimeout,
			Consent:     cfg.ConsentTimeout,
			ListingWait: cfg.ListingWaitTimeout,
		}, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := services.NewRunner(source, persister, logger)
	records, outcomes, err := runner.Run(ctx, urls)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}

	if cfg.Mode == config.ModeEmbedded || *normalize {
		n, err := storage.Normalize(cfg.JSONPath, cfg.NormalizedCSVPath)
		if err != nil {
			logger.Error("Normalization failed: %v", err)
		} else {
			logger.Info("[normalize] %d rows written to %s", n, cfg.NormalizedCSVPath)
		}
	}

	if pgWriter != nil {
		if n, err := pgWriter.Count(); err != nil {
			logger.Error("%v", err)
		} else {
			logger.Info("[postgres] %d rows stored for run %s", n, runID)
		}
	}

	reportSvc := services.NewReportService(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	reportSvc.Print(reportSvc.Generate(runID.String(), records, outcomes))

	fmt.Printf("  Done. JSON → %s | CSV → %s | Compact → %s\n\n",
		cfg.JSONPath, cfg.CSVPath, cfg.CompactPath)
	return 0
}
