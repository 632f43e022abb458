package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"sparql-flatten/internal/model"
	"sparql-flatten/internal/pipeline"
	"sparql-flatten/internal/store"
)

// Handler serves the flatten API on top of a run journal.
type Handler struct {
	db      *store.DB
	logger  *log.Logger
	maxBody int64
	timeout time.Duration
}

// New builds a Handler. maxBody caps request bodies in bytes; db must not be nil.
func New(db *store.DB, logger *log.Logger, maxBody int64, timeout time.Duration) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{db: db, logger: logger, maxBody: maxBody, timeout: timeout}
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	RunID string `json:"run_id,omitempty"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Flatten flattens a SPARQL JSON result set
// @Summary Flatten a result set
// @Description Reduce every binding of a SPARQL JSON result set to a flat object of variable to value
// @Tags flatten
// @Accept json
// @Produce json
// @Param resultset body object true "SPARQL JSON result set"
// @Success 200 {array} object "Flattened records"
// @Failure 400 {object} handler.ErrorResponse "Malformed JSON"
// @Failure 413 {object} handler.ErrorResponse "Body too large"
// @Failure 422 {object} handler.ErrorResponse "Missing results, bindings or value"
// @Router /flatten [post]
func (h *Handler) Flatten(w http.ResponseWriter, r *http.Request) {
	runID := uuid.New().String()
	w.Header().Set("X-Run-ID", runID)

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var out bytes.Buffer
	runner := &pipeline.Runner{
		Logger: h.logger,
		Stdin:  h.body(w, r),
		Stdout: &out,
	}
	if h.db != nil {
		runner.Journal = h.db
	}
	job := model.FlattenJob{Input: model.StdioPath, Output: model.StdioPath}

	if _, err := runner.Run(ctx, runID, job); err != nil {
		writeError(w, statusFor(err), ErrorResponse{RunID: runID, Kind: model.KindName(err), Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out.Bytes())
}

func (h *Handler) body(w http.ResponseWriter, r *http.Request) io.Reader {
	if h.maxBody > 0 {
		return http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	return r.Body
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrMalformedInput), errors.Is(err, model.ErrIO):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrShapeMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ListRuns retrieves all journaled runs
// @Summary List runs
// @Description Get all flatten runs with their status, newest first
// @Tags runs
// @Produce json
// @Success 200 {array} model.RunInfo "List of runs"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.db.ListRuns()
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Kind: "internal", Error: "failed to fetch runs"})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun retrieves a single run
// @Summary Get run
// @Description Retrieve a journaled flatten run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RunInfo "Run details"
// @Failure 400 {object} handler.ErrorResponse "Invalid run ID"
// @Failure 404 {object} handler.ErrorResponse "Run not found"
// @Router /runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "")
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{Kind: "usage", Error: "run ID is required"})
		return
	}

	run, err := h.db.GetRun(runID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, ErrorResponse{RunID: runID, Kind: "not_found", Error: "run not found"})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{RunID: runID, Kind: "internal", Error: "failed to fetch run"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetRunErrors retrieves errors for a run
// @Summary Get run errors
// @Description Retrieve all errors recorded for a flatten run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 400 {object} handler.ErrorResponse "Invalid run ID"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /runs/{id}/errors [get]
func (h *Handler) GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/errors")
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{Kind: "usage", Error: "run ID is required"})
		return
	}

	errs, err := h.db.GetRunErrors(runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{RunID: runID, Kind: "internal", Error: "failed to retrieve errors"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// Health reports liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "ok"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runIDFromPath extracts {id} from /api/v1/runs/{id}{suffix}.
func runIDFromPath(path, suffix string) (string, bool) {
	const prefix = "/api/v1/runs/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	if len(path) < len(prefix)+len(suffix) {
		return "", false
	}
	runID := path[len(prefix) : len(path)-len(suffix)]
	if runID == "" || strings.Contains(runID, "/") {
		return "", false
	}
	return runID, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}
