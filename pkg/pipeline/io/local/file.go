package local

import (
	"context"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/core"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

// FileSource reads a CSV file from the local filesystem.
type FileSource struct {
	Path string
}

var _ core.Source = FileSource{}

func (s FileSource) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFile(s.Path)
}

// FileSink writes a CSV file to the local filesystem atomically.
type FileSink struct {
	Path string
}

var _ core.Sink = FileSink{}

func (s FileSink) Store(ctx context.Context, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteFile(s.Path, t)
}
