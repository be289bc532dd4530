package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/setupsched/pkg/bound"
	"github.com/matzehuels/setupsched/pkg/buildinfo"
	"github.com/matzehuels/setupsched/pkg/errors"
	pkgio "github.com/matzehuels/setupsched/pkg/io"
	"github.com/matzehuels/setupsched/pkg/pipeline"
)

// maxRequestBodySize limits the size of incoming request bodies (8MB).
const maxRequestBodySize = 8 << 20

// MaxTimeout caps the budget a client may request.
const MaxTimeout = 5 * time.Minute

// Handlers holds the HTTP handlers.
type Handlers struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	started time.Time
}

// NewHandlers creates handlers backed by runner.
func NewHandlers(runner *pipeline.Runner, logger *log.Logger) *Handlers {
	return &Handlers{runner: runner, logger: logger, started: time.Now()}
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Uptime:  time.Since(h.started),
	})
}

// HandleSolve handles POST /v1/solve. The body is an instance in text
// form; options come from the query string.
func (h *Handlers) HandleSolve(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inst, err := pkgio.ReadInstance(bytes.NewReader(body))
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := solveOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = h.logger

	res, err := h.runner.Solve(r.Context(), inst, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSolveResponse(res))
}

// HandleVerify handles POST /v1/verify.
func (h *Handlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req VerifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON"))
		return
	}

	inst, err := pkgio.ReadInstance(strings.NewReader(req.Instance))
	if err != nil {
		writeError(w, err)
		return
	}
	sol, err := pkgio.ReadSolution(strings.NewReader(req.Solution))
	if err != nil {
		writeJSON(w, http.StatusOK, VerifyResponse{Error: errors.UserMessage(err)})
		return
	}
	if err := pkgio.VerifySolution(inst, &sol); err != nil {
		writeJSON(w, http.StatusOK, VerifyResponse{Error: errors.UserMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{Valid: true, Cost: sol.Cost})
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(body) > maxRequestBodySize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body too large (max %d bytes)", maxRequestBodySize)
	}
	return body, nil
}

// solveOptions reads mode, bound, timeout, seed and refresh from the query.
func solveOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options

	mode, err := pipeline.ParseMode(q.Get("mode"))
	if err != nil {
		return opts, err
	}
	opts.Mode = mode

	strategy, err := bound.ParseStrategy(q.Get("bound"))
	if err != nil {
		return opts, err
	}
	opts.Bound = strategy

	if s := q.Get("timeout"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid timeout %q", s)
		}
		if err := errors.ValidateTimeout(d); err != nil {
			return opts, err
		}
		opts.Timeout = min(d, MaxTimeout)
	}
	if s := q.Get("seed"); s != "" {
		if _, err := fmt.Sscan(s, &opts.Seed); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidConfig, "invalid seed %q", s)
		}
	}
	opts.Refresh = q.Get("refresh") == "true"
	return opts, nil
}
