package pipeline

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"sparql-flatten/internal/model"
)

// Journal records run progress. *store.DB satisfies it.
type Journal interface {
	SaveRun(runID, input, output string) error
	UpdateRunStatus(runID, status string) error
	CompleteRun(runID string, recordCount int) error
	SaveRunError(runID string, err error) error
}

// Runner executes flatten jobs. The zero value logs to the standard logger,
// keeps no journal and uses the process stdio for "-".
type Runner struct {
	Logger  *log.Logger
	Journal Journal
	Stdin   io.Reader
	Stdout  io.Writer
}

// ------------------- Pipeline Runner -------------------

// Run reads the whole input, flattens it and writes the output. Stages run
// in order on the calling goroutine. The output is opened only after the
// input has been flattened, so a failed run leaves an existing output alone.
func (r *Runner) Run(ctx context.Context, runID string, job model.FlattenJob) (result model.ExportResult, err error) {
	start := time.Now()
	logger := r.logger()
	logger.Printf("🚀 Starting flatten run %s: %s -> %s", runID, job.Input, job.Output)

	r.journal("save run", func(j Journal) error { return j.SaveRun(runID, job.Input, job.Output) })

	defer func() {
		if err != nil {
			logger.Printf("❌ Run %s failed: %v", runID, err)
			r.journal("update status", func(j Journal) error { return j.UpdateRunStatus(runID, model.StatusFailed) })
			r.journal("save error", func(j Journal) error { return j.SaveRunError(runID, err) })
			return
		}
		r.journal("complete run", func(j Journal) error { return j.CompleteRun(runID, result.RecordCount) })
		logger.Printf("🏁 Run %s completed: %d records in %v", runID, result.RecordCount, time.Since(start))
	}()

	// --- INGESTION STAGE ---
	data, err := r.ingest(ctx, job.Input)
	if err != nil {
		return result, err
	}

	// --- TRANSFORMATION STAGE ---
	records, err := r.transform(ctx, data)
	if err != nil {
		return result, err
	}

	// --- EXPORT STAGE ---
	return r.export(ctx, job.Output, records)
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin == nil {
		return os.Stdin
	}
	return r.Stdin
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

// journal calls fn when a journal is configured. Journal failures are
// logged; they never change the outcome of the run.
func (r *Runner) journal(op string, fn func(Journal) error) {
	if r.Journal == nil {
		return
	}
	if err := fn(r.Journal); err != nil {
		r.logger().Printf("⚠️ journal %s: %v", op, err)
	}
}
