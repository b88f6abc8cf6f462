package describe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"cartshelf/internal/logging"
	"cartshelf/internal/services/llm"
)

// DefaultWorkers bounds concurrent model calls.
const DefaultWorkers = 5

// Outcome classifies what happened to one game.
type Outcome string

const (
	OutcomeProcessed       Outcome = "processed"
	OutcomeSkippedExists   Outcome = "skipped_exists"
	OutcomeSkippedNoSource Outcome = "skipped_no_source"
	OutcomeError           Outcome = "error"
)

// Task is one game to describe.
type Task struct {
	GameID string
	Info   llm.GameInfo
}

// Counts aggregates run results.
type Counts struct {
	Processed       int
	SkippedExists   int
	SkippedNoSource int
	Errors          int
}

// Total returns the number of tasks accounted for.
func (c Counts) Total() int {
	return c.Processed + c.SkippedExists + c.SkippedNoSource + c.Errors
}

// Describer is the model call the runner depends on.
type Describer interface {
	Describe(ctx context.Context, info llm.GameInfo, sourceCode string) (llm.Description, error)
}

// Runner fans tasks out to a worker pool.
type Runner struct {
	client    Describer
	sourceDir string
	outputDir string
	workers   int
	force     bool
	logger    *slog.Logger
}

// New builds a runner. sourceDir holds {id}.lua files, outputDir receives
// {id}.json answers. With force set, existing answers are regenerated.
func New(client Describer, sourceDir, outputDir string, workers int, force bool, logger *slog.Logger) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		client:    client,
		sourceDir: sourceDir,
		outputDir: outputDir,
		workers:   workers,
		force:     force,
		logger:    logging.NewComponentLogger(logger, "describe"),
	}
}

// Run processes every task and returns the aggregated counts. Individual
// failures are counted, not fatal; the only hard errors are setup problems
// and context cancellation.
func (r *Runner) Run(ctx context.Context, tasks []Task) (Counts, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return Counts{}, fmt.Errorf("create output directory: %w", err)
	}

	taskCh := make(chan Task)
	outcomes := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				outcomes <- r.processOne(ctx, task)
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, task := range tasks {
			select {
			case taskCh <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var counts Counts
	for outcome := range outcomes {
		switch outcome {
		case OutcomeProcessed:
			counts.Processed++
		case OutcomeSkippedExists:
			counts.SkippedExists++
		case OutcomeSkippedNoSource:
			counts.SkippedNoSource++
		default:
			counts.Errors++
		}
	}
	if ctx.Err() != nil {
		return counts, ctx.Err()
	}
	return counts, nil
}

func (r *Runner) processOne(ctx context.Context, task Task) Outcome {
	log := r.logger.With(logging.GameID(task.GameID))

	outputPath := filepath.Join(r.outputDir, task.GameID+".json")
	if !r.force {
		if _, err := os.Stat(outputPath); err == nil {
			return OutcomeSkippedExists
		}
	}

	sourcePath := filepath.Join(r.sourceDir, task.GameID+".lua")
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("no source code file", logging.String(logging.FieldPath, sourcePath))
			return OutcomeSkippedNoSource
		}
		log.Warn("read source code", logging.Error(err))
		return OutcomeError
	}

	desc, err := r.client.Describe(ctx, task.Info, string(source))
	if err != nil {
		log.Warn("description failed", logging.Error(err))
		return OutcomeError
	}

	encoded, err := json.MarshalIndent(desc, "", "    ")
	if err != nil {
		log.Warn("encode description", logging.Error(err))
		return OutcomeError
	}
	if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o644); err != nil {
		log.Warn("write description", logging.Error(err))
		return OutcomeError
	}
	log.Info("description saved",
		logging.String("genre", desc.Genre),
		logging.Int("chars", len(desc.Description)))
	return OutcomeProcessed
}
