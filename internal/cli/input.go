package cli

import (
	"flag"
	"io"
	"strings"

	"sparql-flatten/internal/model"
)

// Usage is printed with every usage error.
const Usage = "usage: sparql-flatten [-journal path.db] [-quiet] <input_file> <output_file>"

// ParseInvocation turns command-line arguments into a job. Exactly two
// positional arguments are accepted; flags must come before them. No file
// is touched here.
func ParseInvocation(args []string) (model.FlattenJob, error) {
	fs := flag.NewFlagSet("sparql-flatten", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	var job model.FlattenJob
	fs.StringVar(&job.Journal, "journal", "", "SQLite file to record the run in (optional).")
	fs.BoolVar(&job.Quiet, "quiet", false, "Suppress progress logging.")

	if err := fs.Parse(args); err != nil {
		return model.FlattenJob{}, model.Usagef("%v", err)
	}
	if fs.NArg() != 2 {
		return model.FlattenJob{}, model.Usagef("expected 2 arguments, got %d", fs.NArg())
	}

	job.Input = fs.Arg(0)
	job.Output = fs.Arg(1)
	if strings.TrimSpace(job.Input) == "" || strings.TrimSpace(job.Output) == "" {
		return model.FlattenJob{}, model.Usagef("input and output paths must not be empty")
	}
	return job, nil
}
