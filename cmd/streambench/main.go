// Command streambench compares sequential and parallel evaluation of the
// same pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/kbukum/gostream/collector"
	"github.com/kbukum/gostream/config"
	"github.com/kbukum/gostream/forkjoin"
	"github.com/kbukum/gostream/logger"
	"github.com/kbukum/gostream/observability"
	"github.com/kbukum/gostream/stream"
	"github.com/kbukum/gostream/version"
)

const appName = "streambench"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Benchmark sequential against parallel stream evaluation",
		Version:      version.Get().String(),
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

type runOptions struct {
	size       int64
	buckets    int
	configFile string
	envFile    string
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the range, map, filter, groupingBy pipeline in both modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, opts)
		},
	}
	cmd.Flags().Int64Var(&opts.size, "size", 10_000_000, "number of source elements")
	cmd.Flags().IntVar(&opts.buckets, "buckets", 16, "number of grouping keys")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "path to a .env file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.Get().String())
		},
	}
}

func run(ctx context.Context, opts runOptions) error {
	if opts.size < 0 || opts.buckets <= 0 {
		return fmt.Errorf("size must be non-negative and buckets positive")
	}
	log := logger.WithComponent(appName)
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug(fmt.Sprintf(format, args...))
	})); err != nil {
		log.Warn("failed to set GOMAXPROCS", logger.Fields(logger.FieldError, err.Error()))
	}

	var cfg config.EngineConfig
	var loadOpts []config.LoaderOption
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(opts.envFile))
	}
	if err := config.Load(appName, &cfg, loadOpts...); err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = appName
	}
	if err := stream.Configure(&cfg); err != nil {
		return err
	}
	log = logger.WithComponent(appName)

	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.Tracing)
		if err != nil {
			return err
		}
		defer shutdown(log, "tracer", tp.Shutdown)
	}
	if cfg.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, &cfg.Metrics)
		if err != nil {
			return err
		}
		defer shutdown(log, "meter", mp.Shutdown)
	}

	seqStart := time.Now()
	seq, err := groups(ctx, opts, false)
	if err != nil {
		return err
	}
	seqElapsed := time.Since(seqStart)

	parStart := time.Now()
	par, err := groups(ctx, opts, true)
	if err != nil {
		return err
	}
	parElapsed := time.Since(parStart)

	if diff := cmp.Diff(seq, par); diff != "" {
		log.Error("parallel result differs from sequential", logger.Fields("diff", diff))
		return fmt.Errorf("results differ")
	}

	speedup := 0.0
	if parElapsed > 0 {
		speedup = float64(seqElapsed) / float64(parElapsed)
	}
	log.Info("benchmark finished", logger.Fields(
		"size", opts.size,
		"groups", len(seq),
		logger.FieldParallelism, forkjoin.Default().Parallelism(),
		"sequential_ms", ms(seqElapsed),
		"parallel_ms", ms(parElapsed),
		"speedup", speedup,
	))
	return nil
}

// groups counts the even squares of [0, size) per bucket.
func groups(ctx context.Context, opts runOptions, parallel bool) (map[int64]int64, error) {
	src := stream.Range(0, opts.size)
	if parallel {
		src = src.Parallel()
	}
	squares := stream.Map(src, func(n int64) int64 { return n * n })
	evens := stream.Filter(squares, func(n int64) bool { return n%2 == 0 })
	buckets := int64(opts.buckets)
	return stream.Collect(ctx, evens, collector.GroupingBy(func(n int64) int64 {
		return n % buckets
	}, collector.Counting[int64]()))
}

func shutdown(log *logger.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("shutdown failed", logger.Fields("provider", name, logger.FieldError, err.Error()))
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
