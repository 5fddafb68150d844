package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devraulu/politecrawl/pkg/config"
	"github.com/devraulu/politecrawl/pkg/crawler"
	"github.com/devraulu/politecrawl/pkg/process"
	"github.com/devraulu/politecrawl/pkg/storage"
)

func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <start_url>",
		Short: "Crawl a website to gather its content",
		Long: `Crawl fetches pages breadth first from start_url, never leaving its host.
robots.txt is honored, one request is made per politeness interval and the
crawl stops after --max-pages URLs.

The cleaned text of every page is written to
<output_dir>/<host>/crawled_content.json as {"url": "text", ...}. When a dsn is
configured, pages are also stored in Postgres as they are fetched.

Examples:
  crawler crawl https://docs.example.com
  crawler crawl https://docs.example.com --max-pages 10 --politeness 500`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().IntP("max-pages", "p", 0, "Maximum number of pages to visit (default from config: 50)")
	cmd.Flags().Int("politeness", 0, "Milliseconds to wait between requests (default from config: 1000)")
	cmd.Flags().String("user-agent", "", "User-Agent header and robots.txt agent")
	cmd.Flags().StringP("output-dir", "o", "", "Directory for crawl output")
	cmd.Flags().String("dsn", "", "Postgres DSN; pages are also stored there when set")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyCrawlFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, args[0], cmd.OutOrStdout())
}

func applyCrawlFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("max-pages") {
		n, err := flags.GetInt("max-pages")
		if err != nil {
			return err
		}
		cfg.Crawler.MaxPages = n
	}
	if flags.Changed("politeness") {
		ms, err := flags.GetInt("politeness")
		if err != nil {
			return err
		}
		cfg.Crawler.Delay = (time.Duration(ms) * time.Millisecond).String()
	}
	for flag, dst := range map[string]*string{
		"user-agent": &cfg.Crawler.UserAgent,
		"output-dir": &cfg.Crawler.OutputDir,
		"dsn":        &cfg.DSN,
	} {
		if !flags.Changed(flag) {
			continue
		}
		v, err := flags.GetString(flag)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

type crawlSummary struct {
	Status       string `json:"status"`
	StartURL     string `json:"start_url"`
	PagesVisited int    `json:"pages_visited"`
	PagesCrawled int    `json:"pages_crawled"`
	PagesSaved   int    `json:"pages_saved,omitempty"`
	OutputFile   string `json:"output_file"`
	Duration     string `json:"total_duration"`
}

func runCrawl(ctx context.Context, cfg *config.Config, startURL string, out io.Writer) error {
	log := slog.Default()

	var recorder *storage.Recorder
	observers := []crawler.Observer{crawler.NewLogObserver(log)}

	if cfg.DSN != "" {
		store, err := storage.OpenPostgres(cfg.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		host := ""
		if normalized, err := process.Normalize(startURL); err == nil {
			host = process.Host(normalized)
		}
		recorder = storage.NewRecorder(store, host, log)
		observers = append(observers, recorder)
	}

	log.Info("initializing crawler", slog.String("start_url", startURL))
	crawlCfg := crawler.Config{
		StartURL:     startURL,
		MaxPages:     cfg.Crawler.MaxPages,
		Delay:        cfg.Crawler.GetDelay(),
		UserAgent:    cfg.Crawler.UserAgent,
		FetchTimeout: cfg.Crawler.GetFetchTimeout(),
	}
	c, err := crawler.New(ctx, crawlCfg,
		crawler.WithLogger(log),
		crawler.WithObserver(crawler.Observers(observers...)),
	)
	if err != nil {
		return err
	}

	record := c.Run(ctx)

	path := storage.RecordPath(cfg.Crawler.OutputDir, process.Host(c.StartURL()))
	if err := storage.WriteRecord(path, record); err != nil {
		return fmt.Errorf("couldn't save crawl output: %w", err)
	}
	log.Info("crawl output saved", slog.String("path", path), slog.Int("pages", len(record)))

	stats := c.Stats()
	summary := crawlSummary{
		Status:       "Success",
		StartURL:     c.StartURL(),
		PagesVisited: stats.PagesVisited,
		PagesCrawled: len(record),
		OutputFile:   path,
		Duration:     stats.Elapsed().Round(time.Millisecond).String(),
	}
	if ctx.Err() != nil {
		summary.Status = "Interrupted"
	}
	if recorder != nil {
		summary.PagesSaved = recorder.Saved
	}

	resultsPath := storage.ResultsPath(cfg.Crawler.OutputDir, process.Host(c.StartURL()))
	if err := storage.AppendResult(resultsPath, "crawl", summary, stats.EndTime); err != nil {
		log.Warn("couldn't append crawl result", slog.String("path", resultsPath), slog.Any("err", err))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
