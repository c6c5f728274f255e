package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/datasets"
	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/logger"
	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/pipeline"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/core"
	localio "github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/io/local"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/schema"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/worker"
)

type Options struct {
	RawDir       string
	CleanDir     string
	Workers      int
	MaxRetries   int
	RateLimitRPS float64
	FailFast     bool
}

// Job binds a dataset definition to where it is read from and written to.
type Job struct {
	Def    datasets.Definition
	Source core.Source
	Sink   core.Sink
	// Output is a display name for the sink.
	Output string
}

// Stage names the step a dataset failed in.
type Stage string

const (
	StageLoad  Stage = "load"
	StageClean Stage = "clean"
	StageStore Stage = "store"
)

// DatasetError attributes a failure to a dataset and stage. Its message
// carries only the stage; reports show the dataset alongside it.
type DatasetError struct {
	Dataset string
	Stage   Stage
	Err     error
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *DatasetError) Unwrap() error { return e.Err }

// RunLocal cleans every definition from opts.RawDir into opts.CleanDir.
func RunLocal(ctx context.Context, defs []datasets.Definition, opts Options, log *logger.Logger) (Summary, error) {
	jobs := make([]Job, 0, len(defs))
	for _, d := range defs {
		out := filepath.Join(opts.CleanDir, d.Output)
		jobs = append(jobs, Job{
			Def:    d,
			Source: localio.FileSource{Path: filepath.Join(opts.RawDir, d.Input)},
			Sink:   localio.FileSink{Path: out},
			Output: out,
		})
	}
	return Run(ctx, jobs, opts, log)
}

// Run cleans every job independently. Unless opts.FailFast is set, a failed
// dataset does not stop the others; every job gets a Result in job order.
// The returned error is non-nil only when the run itself was cut short.
func Run(ctx context.Context, jobs []Job, opts Options, log *logger.Logger) (Summary, error) {
	if log == nil {
		log = logger.Discard()
	}
	summary := Summary{RunID: uuid.NewString()}
	log = log.With("run_id", summary.RunID)
	log.Info("run start", "datasets", len(jobs), "workers", opts.Workers, "fail_fast", opts.FailFast)
	runStart := time.Now()

	summary.Results = make([]Result, len(jobs))
	for i, j := range jobs {
		summary.Results[i] = Result{Dataset: j.Def.Name, Status: StatusSkipped, Output: j.Output}
	}

	policy := worker.FailurePolicyPartialOutput
	if opts.FailFast {
		policy = worker.FailurePolicyFailFast
	}

	indexed := make([]indexedJob, len(jobs))
	for i, j := range jobs {
		indexed[i] = indexedJob{idx: i, job: j}
	}

	_, runErr := worker.ProcessAllWithCallback(ctx, indexed,
		func(ctx context.Context, ij indexedJob) (pipeline.Stats, error) {
			return runJob(ctx, ij.job, log.With("dataset", ij.job.Def.Name))
		},
		func(res worker.Result[indexedJob, pipeline.Stats]) error {
			r := summary.Results[res.Input.idx]
			r.Elapsed = res.Elapsed
			r.RowsRead = res.Output.RowsRead
			r.RowsKept = res.Output.RowsKept
			if res.Err != nil {
				r.Status = StatusFailed
				r.Class = classify(res.Err)
				r.Reason = oneLine(res.Err.Error())
				log.Error("dataset failed", "dataset", r.Dataset, "class", r.Class, "attempts", res.Attempts, "err", res.Err)
			} else {
				r.Status = StatusOK
			}
			summary.Results[res.Input.idx] = r
			return nil
		},
		worker.Options{
			Workers:       opts.Workers,
			MaxRetries:    opts.MaxRetries,
			RateLimitRPS:  opts.RateLimitRPS,
			FailurePolicy: policy,
		},
	)

	log.Info("run finished",
		"ok", len(summary.Succeeded()),
		"failed", len(summary.Failed()),
		"elapsed", time.Since(runStart).Round(time.Millisecond),
	)
	if runErr != nil && !opts.FailFast {
		return summary, runErr
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

type indexedJob struct {
	idx int
	job Job
}

func runJob(ctx context.Context, j Job, log *logger.Logger) (pipeline.Stats, error) {
	name := j.Def.Name
	log.Debug("dataset start")

	raw, err := j.Source.Load(ctx)
	if err != nil {
		return pipeline.Stats{}, &DatasetError{Dataset: name, Stage: StageLoad, Err: err}
	}

	clean, stats, err := pipeline.Clean(ctx, j.Def, raw)
	if err != nil {
		return stats, &DatasetError{Dataset: name, Stage: StageClean, Err: err}
	}
	if log.Enabled(ctx, slog.LevelDebug) {
		for col, counts := range stats.Coerced {
			if counts.Total() > 0 {
				log.Debug("column coerced to default", "column", col, "missing", counts.Missing, "unparsable", counts.Unparsable)
			}
		}
	}
	if stats.RowsRead > 0 && stats.RowsKept == 0 {
		log.Warn("every row dropped", "rows_read", stats.RowsRead, "required", j.Def.Required)
	}

	if err := j.Sink.Store(ctx, clean); err != nil {
		return stats, &DatasetError{Dataset: name, Stage: StageStore, Err: err}
	}

	log.Info("dataset cleaned",
		"rows_read", stats.RowsRead,
		"rows_kept", stats.RowsKept,
		"rows_dropped", stats.RowsDropped,
		"output", j.Output,
	)
	return stats, nil
}

func classify(err error) FailureClass {
	var de *DatasetError
	switch {
	case errors.Is(err, schema.ErrMissingColumn):
		return ClassSchema
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassCanceled
	case errors.As(err, &de) && (de.Stage == StageLoad || de.Stage == StageStore):
		return ClassIO
	default:
		return ClassInternal
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
