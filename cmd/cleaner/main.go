package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/app"
	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/datasets"
	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/logger"
	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "help", "-h", "--help":
		usage(os.Stdout)
	case "run":
		code = runClean(ctx, os.Args[2:], os.Stdout, os.Stderr)
	case "datasets":
		code = runDatasets(os.Args[2:], os.Stdout, os.Stderr)
	case "version":
		_, _ = fmt.Fprintln(os.Stdout, version.Current)
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage(os.Stderr)
		code = 2
	}
	stop()
	os.Exit(code)
}

func runClean(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	env, err := loadOptionsFromEnv()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "config error: %s\n", err)
		return 2
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rawDir := fs.String("raw-dir", env.RawDir, "Directory holding the raw CSV files (env: RAW_DIR)")
	cleanDir := fs.String("clean-dir", env.CleanDir, "Directory the cleaned CSV files are written to (env: CLEAN_DIR)")
	workers := fs.Int("workers", env.Workers, "Number of datasets cleaned concurrently (env: WORKERS)")
	maxRetries := fs.Int("max-retries", env.MaxRetries, "Max retries per dataset for transient I/O failures (env: MAX_RETRIES)")
	rateLimitRPS := fs.Float64("rate-limit-rps", env.RateLimitRPS, "Dataset start rate limit (per second), 0 disables (env: RATE_LIMIT_RPS)")
	failFast := fs.Bool("fail-fast", env.FailFast, "Stop starting datasets after the first failure (env: FAIL_FAST)")
	configPath := fs.String("datasets-config", env.DatasetsConfig, "YAML dataset registry; built-in registry when empty (env: DATASETS_CONFIG)")
	only := fs.String("only", "", "Comma-separated dataset names to clean (default: all)")
	logLevel := fs.String("log-level", env.LogLevel, "debug, info, warn or error (env: LOG_LEVEL)")
	logFormat := fs.String("log-format", env.LogFormat, "text or json (env: LOG_FORMAT)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		_, _ = fmt.Fprintf(stderr, "run takes no positional arguments, got %q\n", fs.Args())
		return 2
	}

	defs, err := loadRegistry(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "dataset registry error: %s\n", err)
		return 2
	}
	defs, err = datasets.Select(defs, splitNames(*only))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "dataset selection error: %s\n", err)
		return 2
	}

	log := logger.New(logger.Config{Level: *logLevel, Format: *logFormat, Output: stderr})
	summary, err := app.RunLocal(ctx, defs, app.Options{
		RawDir:       *rawDir,
		CleanDir:     *cleanDir,
		Workers:      *workers,
		MaxRetries:   *maxRetries,
		RateLimitRPS: *rateLimitRPS,
		FailFast:     *failFast,
	}, log)
	if rerr := summary.Render(stdout); rerr != nil {
		log.Error("failed to write summary", "err", rerr)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "run interrupted: %s\n", err)
		return 1
	}
	if !summary.OK() {
		return 1
	}
	return 0
}

func runDatasets(args []string, stdout, stderr io.Writer) int {
	configPath := envString("DATASETS_CONFIG", "")

	fs := flag.NewFlagSet("datasets", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "datasets-config", configPath, "YAML dataset registry; built-in registry when empty (env: DATASETS_CONFIG)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	defs, err := loadRegistry(configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "dataset registry error: %s\n", err)
		return 2
	}
	out, err := datasets.Marshal(defs)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "encode registry: %s\n", err)
		return 1
	}
	if _, err := stdout.Write(out); err != nil {
		return 1
	}
	return 0
}

func loadRegistry(path string) ([]datasets.Definition, error) {
	if path == "" {
		return datasets.Default(), nil
	}
	return datasets.Load(path)
}

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintf(w, `cleaner: batch cleaning of raw CSV datasets

Usage:
  cleaner <command> [flags]

Commands:
  run       Clean every registered dataset from the raw dir into the clean dir
  datasets  Print the effective dataset registry as YAML
  version   Print the version
  help      Show this message

Examples:
  cleaner run
  cleaner run --raw-dir data_raw --clean-dir data_clean --only orders,targets
  cleaner datasets > datasets.yaml

Exit codes:
  0  every dataset cleaned
  1  at least one dataset failed, or the run was interrupted
  2  usage or configuration error

Environment:
  RAW_DIR          Raw CSV directory (default data_raw)
  CLEAN_DIR        Clean CSV directory (default data_clean)
  WORKERS          Concurrent datasets (default 4)
  MAX_RETRIES      Retries for transient I/O failures (default 2)
  RATE_LIMIT_RPS   Dataset start rate limit, 0 disables (default 0)
  FAIL_FAST        If true/1, stop after the first failed dataset
  DATASETS_CONFIG  Optional YAML dataset registry
  LOG_LEVEL        debug, info, warn, error (default info)
  LOG_FORMAT       text or json (default text)

`)
}
