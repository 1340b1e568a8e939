package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler"
	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
	binaryfetcher "github.com/ozanunsal/hikmet-crawler/internal/fetch/binary"
	collyfetcher "github.com/ozanunsal/hikmet-crawler/internal/fetch/colly"
	"github.com/ozanunsal/hikmet-crawler/internal/fetch/headless"
	"github.com/ozanunsal/hikmet-crawler/internal/logging"
	"github.com/ozanunsal/hikmet-crawler/internal/pipeline"
	"github.com/ozanunsal/hikmet-crawler/internal/publisher"
	pubsubpublisher "github.com/ozanunsal/hikmet-crawler/internal/publisher/pubsub"
	"github.com/ozanunsal/hikmet-crawler/internal/storage/gcs"
	"github.com/ozanunsal/hikmet-crawler/internal/storage/postgres"
)

// newCrawlCmd creates and configures the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	var (
		sourceNames []string
		safeMode    bool
		dryRun      bool
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Runs the crawl pipeline",
		Long: `Crawls the configured sources, runs the extracted records through
normalization, deduplication, and validation, and upserts the surviving
documents into Postgres. A run summary is published when Pub/Sub is
configured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var safeModeOverride *bool
			if cmd.Flags().Changed("safe-mode") {
				safeModeOverride = &safeMode
			}
			return runCrawl(cmd.Context(), sourceNames, safeModeOverride, dryRun, concurrency)
		},
	}
	cmd.Flags().StringSliceVar(&sourceNames, "sources", nil, "crawl only the named sources (default: all)")
	cmd.Flags().BoolVar(&safeMode, "safe-mode", false, "redact full texts to short excerpts")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "crawl and validate without writing to the database")
	cmd.Flags().IntVar(&concurrency, "concurrency", pipeline.DefaultConcurrency, "number of sources crawled in parallel")
	return cmd
}

func runCrawl(ctx context.Context, sourceNames []string, safeModeOverride *bool, dryRun bool, concurrency int) error {
	logger, err := logging.New(viper.GetBool("log.development"))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	file, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	selected, err := config.Select(file.Sources, sourceNames)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no sources configured")
	}

	deps, cleanup, err := buildDeps(ctx, selected, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := buildStore(ctx, dryRun, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	pub, pubClose, err := buildPublisher(ctx, logger)
	if err != nil {
		return err
	}
	if pubClose != nil {
		defer pubClose()
	}

	pipe := pipeline.New(pipeline.NewDefaultRegistry(), deps, asPipelineStore(store), pub, logger, pipeline.Config{
		Concurrency:     concurrency,
		SafeMode:        safeModeOverride,
		SafeModeDefault: file.SafeMode,
	})

	report, err := pipe.Run(ctx, selected)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}
	logger.Info("crawl finished",
		zap.String("run_id", report.RunID),
		zap.Int("extracted", report.Extracted),
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("failed_sources", report.Failed),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d sources failed", report.Failed, len(report.Sources))
	}
	return nil
}

// buildDeps assembles the shared crawler collaborators. The headless browser
// is started only when at least one selected source needs rendering.
func buildDeps(ctx context.Context, sources []config.Source, logger *zap.Logger) (crawler.Deps, func(), error) {
	deps := crawler.Deps{
		HTML: collyfetcher.New(collyfetcher.Config{
			Timeout: viper.GetDuration("fetch.timeout"),
		}, logger),
		NewBinary: func(cfg binaryfetcher.Config) fetch.Fetcher {
			return binaryfetcher.New(cfg, logger)
		},
		Logger: logger,
	}
	cleanup := func() {}

	needsRender := false
	for _, src := range sources {
		if src.Render {
			needsRender = true
			break
		}
	}
	if needsRender {
		browser, err := headless.New(headless.Config{
			MaxParallel:       viper.GetInt("headless.max_parallel"),
			NavigationTimeout: viper.GetDuration("headless.navigation_timeout"),
		})
		if err != nil {
			return crawler.Deps{}, nil, fmt.Errorf("init headless fetcher: %w", err)
		}
		deps.Headless = browser
		cleanup = browser.Close
	} else {
		deps.Headless = headless.Noop{}
	}

	if bucket := viper.GetString("archive.bucket"); bucket != "" {
		archive, err := gcs.New(ctx, bucket, logger)
		if err != nil {
			return crawler.Deps{}, nil, fmt.Errorf("init archive store: %w", err)
		}
		deps.Archive = archive
		prev := cleanup
		cleanup = func() {
			if cerr := archive.Close(); cerr != nil {
				logger.Warn("close archive store", zap.Error(cerr))
			}
			prev()
		}
	}
	return deps, cleanup, nil
}

func buildStore(ctx context.Context, dryRun bool, logger *zap.Logger) (*postgres.DocumentStore, error) {
	if dryRun {
		logger.Info("dry run, documents will not be written")
		return nil, nil
	}
	store, err := postgres.NewDocumentStore(ctx, postgres.DocumentStoreConfig{
		DSN:             viper.GetString("database.dsn"),
		Table:           viper.GetString("database.table"),
		MaxConns:        viper.GetInt32("database.max_conns"),
		MinConns:        viper.GetInt32("database.min_conns"),
		MaxConnLifetime: viper.GetDuration("database.max_conn_lifetime"),
	})
	if err != nil {
		return nil, fmt.Errorf("init document store: %w", err)
	}
	return store, nil
}

func buildPublisher(ctx context.Context, logger *zap.Logger) (publisher.Publisher, func(), error) {
	project := viper.GetString("pubsub.project")
	topic := viper.GetString("pubsub.topic")
	if project == "" || topic == "" {
		logger.Debug("pubsub not configured, run summaries will not be published")
		return nil, nil, nil
	}
	pub, closer, err := pubsubpublisher.Connect(ctx, project, topic)
	if err != nil {
		return nil, nil, fmt.Errorf("init pubsub publisher: %w", err)
	}
	return pub, closer, nil
}

// asPipelineStore converts the concrete store to the pipeline interface while
// keeping a nil pointer as a true nil interface.
func asPipelineStore(store *postgres.DocumentStore) pipeline.Store {
	if store == nil {
		return nil
	}
	return store
}
