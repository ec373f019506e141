package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/hupe1980/sigcarve"
	"github.com/hupe1980/sigcarve/catalog"
	"github.com/hupe1980/sigcarve/codec"
	"github.com/hupe1980/sigcarve/internal/mmap"
	"github.com/hupe1980/sigcarve/observability"
	"github.com/hupe1980/sigcarve/router"
)

const carveUsage = `Usage:
  sigcarve carve --catalog sigs.yaml [flags] FILE...

Examples:
  # Carve into ./carved
  sigcarve carve --catalog sigs.yaml disk.img

  # Carve into a MinIO bucket with zstd compressed streams
  sigcarve carve --catalog sigs.yaml --store minio --endpoint localhost:9000 \
      --bucket evidence --out case-42/ --compress zstd disk.img

Flags:
`

type carveConfig struct {
	catalog     string
	logLevel    string
	logFormat   string
	metricsAddr string
	manifest    string
	codec       string
	prefix      string
	seed        uint64
	workers     int
	chunkSize   int
	window      int
	ioLimit     int64
	store       storeConfig
}

func (c *carveConfig) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.catalog, "catalog", "", "path to the YAML signature catalog (required)")
	flagSet.StringVar(&c.prefix, "prefix", "", "prefix of output stream names")
	flagSet.Uint64Var(&c.seed, "seed", 0, "seed for output name ids (0 picks a random seed)")
	flagSet.IntVar(&c.workers, "workers", 1, "parallel scan workers per signature")
	flagSet.IntVar(&c.chunkSize, "chunk-size", 4<<20, "bytes per parallel scan chunk")
	flagSet.IntVar(&c.window, "window", 0, "only search the first N bytes of each input (0 searches all)")
	flagSet.Int64Var(&c.ioLimit, "io-limit", 0, "output throughput limit in bytes per second (0 is unlimited)")
	flagSet.StringVar(&c.manifest, "manifest", "manifest.json", "manifest name written next to the streams (empty disables)")
	flagSet.StringVar(&c.codec, "codec", "json", "manifest codec: json or go-json")
	flagSet.StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flagSet.StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flagSet.StringVar(&c.logFormat, "log-format", "text", "log format: text or json")
	c.store.addFlags(flagSet)
}

func (c *carveConfig) logger() (*sigcarve.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	switch c.logFormat {
	case "text":
		return sigcarve.NewTextLogger(level), nil
	case "json":
		return sigcarve.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("--log-format: unknown format %q", c.logFormat)
	}
}

func runCarve(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cfg carveConfig
	flagSet := pflag.NewFlagSet("carve", pflag.ContinueOnError)
	cfg.addFlags(flagSet)
	if err := parseFlags(flagSet, args, carveUsage, stderr); err != nil {
		return err
	}

	inputs := flagSet.Args()
	if cfg.catalog == "" {
		return errors.New("--catalog is required")
	}
	if len(inputs) == 0 {
		return errors.New("no input files")
	}

	logger, err := cfg.logger()
	if err != nil {
		return err
	}

	cat, err := catalog.LoadFile(cfg.catalog)
	if err != nil {
		return err
	}
	sigs, err := cat.Compile()
	if err != nil {
		return err
	}

	store, err := cfg.store.open(ctx)
	if err != nil {
		return err
	}

	opts := []sigcarve.Option{
		sigcarve.WithLogger(logger),
		sigcarve.WithPrefix(cfg.prefix),
		sigcarve.WithWorkers(cfg.workers),
		sigcarve.WithChunkSize(cfg.chunkSize),
		sigcarve.WithWindow(cfg.window),
		sigcarve.WithIOLimit(cfg.ioLimit),
	}
	if cfg.seed != 0 {
		opts = append(opts, sigcarve.WithIDSource(router.RandomIDs(cfg.seed)))
	}
	if cfg.manifest != "" {
		c, ok := codec.ByName(cfg.codec)
		if !ok {
			return fmt.Errorf("--codec: unknown codec %q (want one of %s)", cfg.codec, strings.Join(codec.Names(), ", "))
		}
		opts = append(opts, sigcarve.WithManifest(cfg.manifest, c))
	}

	if cfg.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, sigcarve.WithMetricsCollector(observability.NewPrometheusCollector(reg)))
		srv := &http.Server{
			Addr:              cfg.metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	carver, err := sigcarve.New(store, sigs, opts...)
	if err != nil {
		return err
	}

	var carveErr error
	for _, path := range inputs {
		if carveErr = carveFile(ctx, carver, logger.WithInput(path), path, stdout); carveErr != nil {
			break
		}
	}

	closeErr := carver.Close(ctx)
	streams := carver.Streams()
	fmt.Fprintf(stdout, "%d streams, %d bytes written\n", len(streams), carver.Written())
	return errors.Join(carveErr, closeErr)
}

func carveFile(ctx context.Context, c *sigcarve.Carver, logger *sigcarve.Logger, path string, stdout io.Writer) error {
	m, err := mmap.Open(path)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Advise(mmap.AccessSequential); err != nil {
		logger.DebugContext(ctx, "madvise failed", "error", err)
	}

	rep, err := c.Carve(ctx, m.Bytes())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(stdout, "%s: %d matches, %d extracted, %d rejected, %d signatures skipped\n",
		path, rep.Matches(), rep.Extracted(), rep.Rejected(), len(rep.Skipped))
	return nil
}
