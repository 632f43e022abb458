package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"sparql-flatten/internal/model"
	"sparql-flatten/internal/pipeline"
	"sparql-flatten/internal/store"
)

// Execute runs job once under a fresh run id.
func Execute(ctx context.Context, job model.FlattenJob, stdin io.Reader, stdout, stderr io.Writer) (model.ExportResult, error) {
	logOut := stderr
	if job.Quiet {
		logOut = io.Discard
	}

	runner := &pipeline.Runner{
		Logger: log.New(logOut, "", log.LstdFlags),
		Stdin:  stdin,
		Stdout: stdout,
	}

	if job.Journal != "" {
		db, err := store.InitDB(job.Journal)
		if err != nil {
			return model.ExportResult{}, model.IOError("open journal", job.Journal, err)
		}
		defer db.Close()
		runner.Journal = db
	}

	return runner.Run(ctx, uuid.New().String(), job)
}

// Main is the whole command: parse, run, report. It returns the exit code.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	job, err := ParseInvocation(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if errors.Is(err, model.ErrUsage) {
			fmt.Fprintln(stderr, Usage)
		}
		return model.ExitCode(err)
	}

	if _, err := Execute(ctx, job, stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "sparql-flatten: %v\n", err)
		return model.ExitCode(err)
	}
	return model.ExitSuccess
}
