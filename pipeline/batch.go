package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/RyanBlaney/mapdata/logging"
	"github.com/google/uuid"
)

// ArchiveExt is the extension of training archives
const ArchiveExt = ".npz"

var errEmptyEntry = errors.New("empty map list entry")

// Failure records one beatmap that could not be processed
type Failure struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Err   error  `json:"-"`
}

// Summary reports the outcome of a batch run
type Summary struct {
	RunID     string        `json:"run_id"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []Failure     `json:"failures,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Batch writes one archive per beatmap into OutputDir, named by the beatmap's position
// in the list
type Batch struct {
	Processor *Processor
	OutputDir string
	Workers   int
	logger    logging.Logger
}

// NewBatch creates a batch runner
func NewBatch(processor *Processor, outputDir string, workers int) *Batch {
	return &Batch{
		Processor: processor,
		OutputDir: outputDir,
		Workers:   workers,
		logger: logging.WithFields(logging.Fields{
			"component": "batch",
		}),
	}
}

// Run clears old archives from OutputDir and processes paths. A failing beatmap is logged
// and counted without stopping the batch. The returned error is non-nil only when the
// output directory cannot be prepared or ctx is cancelled.
func (b *Batch) Run(ctx context.Context, paths []string) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString(), Total: len(paths)}
	logger := b.logger.WithFields(logging.Fields{
		"function": "Run",
		"run_id":   summary.RunID,
	})
	ctx = logging.ContextWithFields(ctx, logging.Fields{"run_id": summary.RunID})

	if err := ClearOutputDir(b.OutputDir, ArchiveExt); err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("Number of filtered maps: %d", len(paths)), logging.Fields{
		"output_dir": b.OutputDir,
		"workers":    max(b.Workers, 1),
	})

	start := time.Now()
	errs := make([]error, len(paths))

	workers := max(b.Workers, 1)
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for k, path := range paths {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(k int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[k] = b.processOne(ctx, k, path, logger)
		}(k, path)
	}
	wg.Wait()

	summary.Elapsed = time.Since(start)
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("batch cancelled: %w", err)
	}

	for k, err := range errs {
		if err == nil {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		summary.Failures = append(summary.Failures, Failure{
			Index: k,
			Path:  paths[k],
			Kind:  Classify(err),
			Err:   err,
		})
	}

	logger.Info("Batch finished", logging.Fields{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"elapsed":   summary.Elapsed.Seconds(),
	})

	return summary, nil
}

func (b *Batch) processOne(ctx context.Context, k int, path string, logger logging.Logger) error {
	mapLogger := logging.ForBeatmap(logger, k, path)
	start := time.Now()

	err := b.save(ctx, k, path)
	if err != nil {
		mapLogger.Error(err, fmt.Sprintf("Error on #%d, path = %s", k, path), logging.Fields{
			"kind": Classify(err),
		})
		return err
	}

	mapLogger.Info(fmt.Sprintf("Map data #%d saved!", k), logging.Fields{
		"elapsed": time.Since(start).Seconds(),
	})
	return nil
}

func (b *Batch) save(ctx context.Context, k int, path string) error {
	if path == "" {
		return &IOError{Op: "read beatmap", Path: path, Err: errEmptyEntry}
	}
	arrays, err := b.Processor.Process(ctx, path)
	if err != nil {
		return err
	}
	return b.Processor.Save(arrays, filepath.Join(b.OutputDir, fmt.Sprintf("%d%s", k, ArchiveExt)))
}
