package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"sparql-flatten/internal/model"
	"sparql-flatten/internal/store"
)

func TestParseInvocation_TwoPositionals(t *testing.T) {
	job, err := ParseInvocation([]string{"in.json", "out.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.FlattenJob{Input: "in.json", Output: "out.json"}
	if !reflect.DeepEqual(job, want) {
		t.Fatalf("got %#v, want %#v", job, want)
	}
}

func TestParseInvocation_Flags(t *testing.T) {
	job, err := ParseInvocation([]string{"-quiet", "-journal", "runs.db", "-", "-"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !job.Quiet || job.Journal != "runs.db" || job.Input != "-" || job.Output != "-" {
		t.Fatalf("unexpected job %#v", job)
	}
}

func TestParseInvocation_UsageErrors(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"only-one"},
		{"a", "b", "c"},
		{"-nope", "a", "b"},
		{"", "b"},
		{"-h"},
	} {
		_, err := ParseInvocation(args)
		if !errors.Is(err, model.ErrUsage) {
			t.Errorf("%q: expected usage error, got %v", args, err)
		}
		if model.ExitCode(err) != model.ExitUsage {
			t.Errorf("%q: expected exit %d, got %d", args, model.ExitUsage, model.ExitCode(err))
		}
	}
}

func TestMain_UsageErrorTouchesNoFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")
	var stderr bytes.Buffer

	code := Main(context.Background(), []string{"in.json", out, "extra"}, nil, &bytes.Buffer{}, &stderr)
	if code != model.ExitUsage {
		t.Fatalf("expected exit %d, got %d", model.ExitUsage, code)
	}
	if !strings.Contains(stderr.String(), Usage) {
		t.Fatalf("expected usage text, got %q", stderr.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output must not exist after a usage error")
	}
}

func TestMain_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.json")
	journal := filepath.Join(dir, "runs.db")
	content := `{"results":{"bindings":[{"x":{"type":"uri","value":"http://example.org/a"},"y":{"type":"literal","value":"42"}}]}}`
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	var stderr bytes.Buffer
	code := Main(context.Background(), []string{"-journal", journal, in, out}, nil, &bytes.Buffer{}, &stderr)
	if code != model.ExitSuccess {
		t.Fatalf("expected success, got %d: %s", code, stderr.String())
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != `[{"x":"http://example.org/a","y":"42"}]` {
		t.Fatalf("got %s", got)
	}

	db, err := store.InitDB(journal)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer db.Close()
	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != model.StatusCompleted || runs[0].RecordCount != 1 {
		t.Fatalf("unexpected journal %#v", runs)
	}
}

func TestMain_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"malformed", `{{{`, model.ExitMalformed},
		{"missing bindings", `{"results": {}}`, model.ExitShapeMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := filepath.Join(dir, tc.name+".json")
			if err := os.WriteFile(in, []byte(tc.input), 0o644); err != nil {
				t.Fatalf("write input: %v", err)
			}
			var stderr bytes.Buffer
			code := Main(context.Background(), []string{"-quiet", in, filepath.Join(dir, "out.json")}, nil, &bytes.Buffer{}, &stderr)
			if code != tc.want {
				t.Fatalf("expected exit %d, got %d (%s)", tc.want, code, stderr.String())
			}
			if stderr.Len() == 0 {
				t.Fatalf("expected a diagnostic on stderr")
			}
		})
	}

	code := Main(context.Background(), []string{"-quiet", filepath.Join(dir, "nope.json"), filepath.Join(dir, "out.json")}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	if code != model.ExitIO {
		t.Fatalf("expected exit %d for missing input, got %d", model.ExitIO, code)
	}
}

func TestMain_Stdio(t *testing.T) {
	var stdout bytes.Buffer
	code := Main(context.Background(), []string{"-quiet", "-", "-"}, strings.NewReader(`{"results":{"bindings":[]}}`), &stdout, &bytes.Buffer{})
	if code != model.ExitSuccess {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout.String() != "[]" {
		t.Fatalf("got %q", stdout.String())
	}
}
