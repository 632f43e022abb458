package pipeline

import (
	"context"
	"io"
	"os"

	"sparql-flatten/internal/model"
)

// ------------------- Ingestion -------------------

// ingest reads the whole input into memory and closes it before returning.
func (r *Runner) ingest(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	var err error
	if path == model.StdioPath {
		data, err = io.ReadAll(r.stdin())
	} else {
		data, err = readFile(path)
	}
	if err != nil {
		return nil, model.IOError("read", path, err)
	}

	r.logger().Printf("📄 Read %d bytes from %s", len(data), path)
	return data, nil
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
