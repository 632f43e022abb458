package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"sparql-flatten/internal/model"
	"sparql-flatten/internal/sparql"
)

// export encodes records and writes them to path, creating or truncating it.
// The parent directory must already exist.
func (r *Runner) export(ctx context.Context, path string, records []sparql.FlatRecord) (model.ExportResult, error) {
	result := model.ExportResult{
		Type:        "file",
		Path:        path,
		RecordCount: len(records),
	}
	if path == model.StdioPath {
		result.Type = "stream"
	}

	fail := func(err error) (model.ExportResult, error) {
		result.Success = false
		result.Error = err.Error()
		result.ExportedAt = time.Now()
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	out, err := sparql.MarshalRecords(records)
	if err != nil {
		return fail(fmt.Errorf("encode records: %w", err))
	}

	if path == model.StdioPath {
		if _, err := r.stdout().Write(out); err != nil {
			return fail(model.IOError("write", path, err))
		}
	} else if err := writeFile(path, out); err != nil {
		return fail(err)
	}

	result.Bytes = len(out)
	result.Success = true
	result.ExportedAt = time.Now()
	r.logger().Printf("💾 Export to %s successful: %d records, %d bytes", path, len(records), len(out))
	return result, nil
}

func writeFile(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return model.IOError("create", path, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return model.IOError("write", path, err)
	}
	if err := file.Close(); err != nil {
		return model.IOError("close", path, err)
	}
	return nil
}
