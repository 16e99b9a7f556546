// Command hyperagg computes the per-key min/mean/max of a `<key>;<value>`
// input file and writes the summary atomically to an output file.
//
//	hyperagg [flags] <input>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"syscall"
	"time"

	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hyp3rd/hyperagg"
	"github.com/hyp3rd/hyperagg/internal/constants"
	"github.com/hyp3rd/hyperagg/internal/sentinel"
	"github.com/hyp3rd/hyperagg/pkg/middleware"
	"github.com/hyp3rd/hyperagg/pkg/sink"
)

const (
	instrumentationName = "github.com/hyp3rd/hyperagg"
	shutdownTimeout     = 5 * time.Second
)

//nolint:gochecknoglobals
var formats = []string{
	constants.DefaultFormat,
	constants.JSONFormat,
	constants.MsgpackFormat,
	constants.CBORFormat,
}

type config struct {
	input     string
	out       string
	workers   int
	strategy  string
	format    string
	redisAddr string
	redisKey  string
	mgmtAddr  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)

	stop()
	os.Exit(code)
}

// run executes the command and returns its exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "hyperagg: %s error: %v\n", hyperagg.ErrorKind(err), err)

		return 1
	}

	logger := newLogger(stderr)
	defer func() { _ = logger.Sync() }()

	err = execute(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("run failed: %v", err)
		fmt.Fprintf(stderr, "hyperagg: %s error: %v\n", hyperagg.ErrorKind(err), err)

		return 1
	}

	return 0
}

func parseArgs(args []string, stderr io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("hyperagg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: hyperagg [flags] <input>")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.out, "out", constants.DefaultOutputPath, "output file")
	fs.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0), "number of partitions and workers")
	fs.StringVar(&cfg.strategy, "strategy", constants.LocalStrategy, "accumulation strategy: local or sharded")
	fs.StringVar(&cfg.format, "format", constants.DefaultFormat, "output format: text, json, msgpack or cbor")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "also publish the summary to this redis server")
	fs.StringVar(&cfg.redisKey, "redis-key", constants.RedisDefaultKey, "redis key of the summary")
	fs.StringVar(&cfg.mgmtAddr, "mgmt-addr", "", "serve progress and report over HTTP on this address")

	err := fs.Parse(args)
	if err != nil {
		return cfg, ewrap.Wrap(sentinel.ErrArgument, err.Error())
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return cfg, ewrap.Wrapf(sentinel.ErrArgument, "expected exactly one input path, got %d", fs.NArg())
	}

	cfg.input = fs.Arg(0)

	if !slices.Contains(formats, cfg.format) {
		return cfg, ewrap.Wrapf(sentinel.ErrArgument, "unknown format %q", cfg.format)
	}

	if !slices.Contains(hyperagg.Strategies(), cfg.strategy) {
		return cfg, ewrap.Wrapf(sentinel.ErrArgument, "unknown strategy %q", cfg.strategy)
	}

	if cfg.workers < 1 {
		return cfg, ewrap.Wrapf(sentinel.ErrArgument, "workers must be positive, got %d", cfg.workers)
	}

	if cfg.out == "" {
		return cfg, ewrap.Wrap(sentinel.ErrArgument, "output path cannot be empty")
	}

	return cfg, nil
}

func newLogger(stderr io.Writer) *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(stderr),
		zap.InfoLevel,
	)

	return zap.New(core).Sugar()
}

func execute(ctx context.Context, cfg config, logger *zap.SugaredLogger) error {
	agg, err := hyperagg.New(
		hyperagg.WithWorkers(cfg.workers),
		hyperagg.WithStrategy(cfg.strategy),
		hyperagg.WithLogger(logger),
	)
	if err != nil {
		return ewrap.Wrap(sentinel.ErrArgument, err.Error())
	}

	svc, err := newService(agg, logger)
	if err != nil {
		return err
	}

	out, closeSink, err := newSink(cfg)
	if err != nil {
		return err
	}

	defer closeSink()

	if cfg.mgmtAddr != "" {
		mgmt := hyperagg.NewManagementHTTPServer(cfg.mgmtAddr)

		err = mgmt.Start(ctx, svc.Progress())
		if err != nil {
			return ewrap.Wrap(sentinel.ErrIO, err.Error())
		}

		logger.Infof("management server listening on %s", mgmt.Address())

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			_ = mgmt.Shutdown(shutdownCtx)
		}()
	}

	rep, err := svc.Run(ctx, cfg.input)
	if err != nil {
		return err
	}

	payload, err := rep.Encode(cfg.format)
	if err != nil {
		return err
	}

	if cfg.format == constants.DefaultFormat {
		payload = append(payload, '\n')
	}

	return out.Write(ctx, payload)
}

func newService(agg *hyperagg.Aggregator, logger *zap.SugaredLogger) (hyperagg.Service, error) {
	metrics, err := middleware.NewOTelMetricsMiddleware(agg, otel.GetMeterProvider().Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	return hyperagg.ApplyMiddleware(metrics,
		func(next hyperagg.Service) hyperagg.Service {
			return middleware.NewOTelTracingMiddleware(next, otel.Tracer(instrumentationName))
		},
		func(next hyperagg.Service) hyperagg.Service {
			return middleware.NewLoggingMiddleware(next, logger)
		},
	), nil
}

// newSink returns the output file sink, followed by the redis sink when an
// address is configured, and the function releasing them.
func newSink(cfg config) (sink.Sink, func(), error) {
	file, err := sink.NewFileSink(cfg.out)
	if err != nil {
		return nil, nil, ewrap.Wrap(sentinel.ErrArgument, err.Error())
	}

	if cfg.redisAddr == "" {
		return file, func() {}, nil
	}

	redisSink, err := sink.NewRedisSink(cfg.redisKey, 0, sink.WithRedisAddr(cfg.redisAddr))
	if err != nil {
		return nil, nil, ewrap.Wrap(sentinel.ErrArgument, err.Error())
	}

	return sink.Multi{file, redisSink}, func() { _ = redisSink.Close() }, nil
}
