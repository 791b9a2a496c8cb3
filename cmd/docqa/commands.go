package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chiTransport "github.com/kailas-cloud/docqa/internal/transport/chi"
	"github.com/kailas-cloud/docqa/internal/version"
	"github.com/kailas-cloud/docqa/internal/watcher"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts, rebuild)
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "rebuild the index from the raw directory before serving")
	return cmd
}

func serve(ctx context.Context, opts *rootOptions, rebuild bool) error {
	cfg, logger := opts.cfg, opts.logger

	logger.Info("Starting docqa API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", opts.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("raw_dir", cfg.Storage.RawDir),
		zap.String("index_dir", cfg.Storage.IndexDir),
	)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if rebuild {
		if _, err := a.ingest.Ingest(ctx, ""); err != nil {
			logger.Error("Startup rebuild failed, serving without an index", zap.Error(err))
		}
	}

	if cfg.Watch.Enabled {
		w := watcher.New(cfg.Storage.RawDir, a.formats, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond,
			func(ctx context.Context) error {
				_, err := a.ingest.Ingest(ctx, "")
				return err
			}, logger)
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
	}

	server := chiTransport.NewServer(a.qa, a.ingest, a.corpus, a.formats, a.health,
		cfg.HTTP.MaxUploadMB<<20, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func ingestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [dir]",
		Short: "Rebuild the index from a directory of pdf, md and txt files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.close()

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			report, err := a.ingest.Ingest(cmd.Context(), dir)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"documents": report.Documents,
				"chunks":    report.Chunks,
				"skipped":   report.Skipped,
				"version":   report.Version,
				"duration":  report.Duration.String(),
			})
		},
	}
}

func askCmd(opts *rootOptions) *cobra.Command {
	var document string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the indexed documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.close()

			answer, err := a.qa.Answer(cmd.Context(), strings.Join(args, " "), nil, document)
			if err != nil {
				return err
			}
			return printJSON(cmd, answer)
		},
	}
	cmd.Flags().StringVar(&document, "document", "", "restrict retrieval to one source file")
	return cmd
}

func summarizeCmd(opts *rootOptions) *cobra.Command {
	var document string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize the indexed documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.close()

			summary, err := a.qa.Summarize(cmd.Context(), document)
			if err != nil {
				return err
			}
			return printJSON(cmd, summary)
		},
	}
	cmd.Flags().StringVar(&document, "document", "", "summarize a single source file")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
