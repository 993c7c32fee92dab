package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	csvAdapter "github.com/iho/txledger/internal/adapter/csv"
	redisRepo "github.com/iho/txledger/internal/adapter/repository/redis"
	"github.com/iho/txledger/internal/infrastructure/config"
	"github.com/iho/txledger/internal/infrastructure/eventpublisher"
	"github.com/iho/txledger/internal/infrastructure/logger"
	"github.com/iho/txledger/internal/infrastructure/metrics"
	"github.com/iho/txledger/internal/infrastructure/redis"
	"github.com/iho/txledger/internal/usecase"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type flags struct {
	strict      bool
	earlyEmit   bool
	sink        string
	logLevel    string
	metricsFile string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "txengine [flags] <transactions.csv>",
		Short: "Replay a transaction log into client account balances",
		Long: `txengine reads deposits, withdrawals, disputes, resolves and chargebacks
from a CSV file and writes the resulting client accounts as CSV to stdout,
or to Redis with --sink redis. Logs go to stderr.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logger.New(logger.Config{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Output: stderr,
			})

			return run(cmd.Context(), cfg, args[0], stdout, log)
		},
	}

	rootCmd.Flags().BoolVar(&f.strict, "strict", false, "Abort on the first invalid record instead of skipping it")
	rootCmd.Flags().BoolVar(&f.earlyEmit, "early-emit", false, "Write accounts as soon as a chargeback locks them")
	rootCmd.Flags().StringVar(&f.sink, "sink", config.SinkCSV, "Output sink: csv or redis")
	rootCmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error, disabled")
	rootCmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")

	rootCmd.AddCommand(newGenerateCmd(stdout))

	return rootCmd
}

// apply overrides environment configuration with explicitly set flags.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("strict") {
		cfg.Mode = config.ModePermissive
		if f.strict {
			cfg.Mode = config.ModeStrict
		}
	}
	if changed("early-emit") {
		cfg.EarlyEmit = f.earlyEmit
	}
	if changed("sink") {
		cfg.Sink = f.sink
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("metrics-file") {
		cfg.MetricsTextfile = f.metricsFile
	}
}

func run(ctx context.Context, cfg *config.Config, path string, stdout io.Writer, log zerolog.Logger) error {
	runID := ulid.Make().String()
	log = log.With().Str("run_id", runID).Logger()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	if cfg.MetricsTextfile != "" {
		defer func() {
			if err := metrics.WriteTextfile(cfg.MetricsTextfile, registry); err != nil {
				log.Error().Err(err).Str("path", cfg.MetricsTextfile).Msg("failed to write metrics textfile")
			}
		}()
	}

	reader, err := csvAdapter.Open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	writer, closeWriter, err := newAccountWriter(ctx, cfg, runID, stdout, log, m)
	if err != nil {
		return err
	}
	defer closeWriter()

	publisher := eventpublisher.NewAccountPublisher(eventpublisher.Config{
		Writer:     writer,
		Logger:     log,
		BufferSize: cfg.EmitBuffer,
		Metrics:    m,
		Sink:       cfg.Sink,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return publisher.Start(gctx)
	})

	ledger := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		Strict:             cfg.Strict(),
		EarlyEmit:          cfg.EarlyEmit,
		EnforceClientMatch: cfg.EnforceClientMatch,
	}, publisher, log, m)

	log.Info().
		Str("input", path).
		Str("mode", cfg.Mode).
		Str("sink", cfg.Sink).
		Bool("early_emit", cfg.EarlyEmit).
		Msg("processing transactions")

	stats, err := ledger.Load(reader)
	if err != nil {
		publisher.Abort()
		_ = g.Wait()
		return err
	}

	if err := ledger.Finalize(); err != nil {
		publisher.Abort()
		_ = g.Wait()
		return err
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().
		Int("records", stats.Records).
		Int("applied", stats.Applied).
		Int("ignored", stats.Ignored).
		Int("decode_errors", stats.DecodeErrors).
		Int("locked", stats.Locked).
		Int("accounts", stats.Accounts).
		Msg("transactions processed")

	return nil
}

func newAccountWriter(
	ctx context.Context,
	cfg *config.Config,
	runID string,
	stdout io.Writer,
	log zerolog.Logger,
	m *metrics.Metrics,
) (usecase.AccountWriter, func(), error) {
	if cfg.Sink != config.SinkRedis {
		return csvAdapter.NewWriter(stdout), func() {}, nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, nil, err
	}

	sink := redisRepo.NewAccountSink(client, redisRepo.SinkConfig{
		Prefix:    cfg.RedisKeyPrefix,
		RunID:     runID,
		TTL:       cfg.RedisKeyTTL,
		BatchSize: cfg.RedisBatchSize,
		Retrier:   redisRepo.NewRetrier(log, m.SinkRetries.Inc),
	})
	log.Info().Str("clients_key", sink.ClientsKey()).Msg("writing accounts to redis")

	return sink, func() { _ = client.Close() }, nil
}
