package cli

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/setupsched/pkg/pipeline"
)

// heartbeat is the interval between "still searching" log lines.
const heartbeat = 10 * time.Second

// searchReporter turns branch-and-bound progress callbacks into log lines.
// It logs the first incumbent, every improvement and a periodic heartbeat.
//
// The reporter is not safe for concurrent use; the search calls it from a
// single goroutine.
type searchReporter struct {
	logger           *log.Logger
	timeout          time.Duration
	explored, pruned int64
	lastBest         int64
	start, lastLog   time.Time
}

func newSearchReporter(logger *log.Logger, timeout time.Duration) *searchReporter {
	return &searchReporter{
		logger:   logger,
		timeout:  timeout,
		lastBest: -1,
		start:    time.Now(),
	}
}

// onProgress matches bnb.ProgressFunc.
func (r *searchReporter) onProgress(explored, pruned, best int64) {
	r.explored, r.pruned = explored, pruned

	switch {
	case r.lastBest < 0:
		r.logger.Infof("Initial: cost %d", best)
		r.lastLog = time.Now()
	case best < r.lastBest:
		r.logger.Infof("Improved: cost %d (↓%d, explored: %d)", best, r.lastBest-best, explored)
		r.lastLog = time.Now()
	default:
		if time.Since(r.lastLog) >= heartbeat {
			elapsed := time.Since(r.start).Truncate(time.Second)
			if r.timeout > 0 {
				r.logger.Infof("Searching... %v/%v elapsed, cost %d (explored: %d, pruned: %d)", elapsed, r.timeout, best, explored, pruned)
			} else {
				r.logger.Infof("Searching... %v elapsed, cost %d (explored: %d, pruned: %d)", elapsed, best, explored, pruned)
			}
			r.lastLog = time.Now()
		}
	}
	r.lastBest = best
}

// finish logs the outcome and warns when an exact search hit its budget.
func (r *searchReporter) finish(res *pipeline.Result) {
	if res.CacheHit {
		return
	}
	r.logger.Debugf("Search: explored %d, pruned %d, %d improvements", res.Stats.Explored, res.Stats.Pruned, res.Stats.Improvements)
	if res.Mode != pipeline.ModeHeuristic && !res.Optimal {
		r.logger.Warn("Time limit reached before optimality was proven; try a longer --timeout or --exhaustive")
	}
}
