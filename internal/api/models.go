package api

import (
	"time"

	"github.com/matzehuels/setupsched/pkg/pipeline"
)

// SolveResponse is returned by POST /v1/solve.
type SolveResponse struct {
	RunID     string         `json:"run_id"`
	Mode      string         `json:"mode"`
	Cost      int64          `json:"cost"`
	Makespan  int64          `json:"makespan"`
	Sequence  []int          `json:"sequence"`
	Optimal   bool           `json:"optimal"`
	ElapsedMS int64          `json:"elapsed_ms"`
	CacheHit  bool           `json:"cache_hit"`
	Stats     pipeline.Stats `json:"stats"`
}

func newSolveResponse(res *pipeline.Result) SolveResponse {
	return SolveResponse{
		RunID:     res.RunID,
		Mode:      string(res.Mode),
		Cost:      res.Solution.Cost,
		Makespan:  res.Solution.Makespan,
		Sequence:  res.Solution.Sequence,
		Optimal:   res.Optimal,
		ElapsedMS: res.Solution.Elapsed.Milliseconds(),
		CacheHit:  res.CacheHit,
		Stats:     res.Stats,
	}
}

// VerifyRequest is the body of POST /v1/verify. Both fields hold the
// text formats read by the CLI.
type VerifyRequest struct {
	Instance string `json:"instance"`
	Solution string `json:"solution"`
}

// VerifyResponse reports whether a solution is a valid schedule whose
// stated cost matches the recomputed one.
type VerifyResponse struct {
	Valid bool   `json:"valid"`
	Cost  int64  `json:"cost,omitempty"`
	Error string `json:"error,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version"`
	Uptime  time.Duration `json:"uptime_ns"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
