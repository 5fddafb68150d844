package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/devraulu/politecrawl/pkg/storage"
)

func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <host>",
		Short: "Write the Page Record of a host stored in Postgres to JSON",
		Long: `Export reads every page stored for host (as given to crawl, including any
non-default port) and writes them to <output_dir>/<host>/crawled_content.json.`,
		Args: cobra.ExactArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("output-dir", "o", "", "Directory for the exported record")
	cmd.Flags().String("dsn", "", "Postgres DSN (default from config)")

	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyCrawlFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.DSN == "" {
		return fmt.Errorf("export needs a dsn: set it in the config file or pass --dsn")
	}

	store, err := storage.OpenPostgres(cfg.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	host := args[0]
	record, err := store.PageRecord(cmd.Context(), host)
	if err != nil {
		return fmt.Errorf("couldn't read pages for %s: %w", host, err)
	}

	path := storage.RecordPath(cfg.Crawler.OutputDir, host)
	if err := storage.WriteRecord(path, record); err != nil {
		return err
	}

	slog.Info("exported page record", slog.String("host", host), slog.Int("pages", len(record)), slog.String("path", path))

	resultsPath := storage.ResultsPath(cfg.Crawler.OutputDir, host)
	result := map[string]any{"status": "Success", "pages_exported": len(record), "output_file": path}
	if err := storage.AppendResult(resultsPath, "export", result, time.Now()); err != nil {
		slog.Warn("couldn't append export result", slog.String("path", resultsPath), slog.Any("err", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
