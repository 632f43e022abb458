package model

// StdioPath selects stdin for an input or stdout for an output.
const StdioPath = "-"

// FlattenJob describes a single read-transform-write run.
type FlattenJob struct {
	Input   string `json:"input"`  // path to the result-set document, or "-"
	Output  string `json:"output"` // destination path, or "-"
	Journal string `json:"journal,omitempty"`
	Quiet   bool   `json:"quiet"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr           string `json:"addr"`
	DBPath         string `json:"dbPath"`
	MaxBodyBytes   int64  `json:"maxBodyBytes"`
	RequestTimeout string `json:"requestTimeout"` // e.g. "30s"
}

// Run statuses stored in the journal.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
