package sched

// SeverityThreshold separates setup-light instances from setup-heavy ones.
// Instances with Severity at or above it are dominated by setups.
const SeverityThreshold = 0.5

// Metrics summarizes an instance.
type Metrics struct {
	AvgProcessing float64 `json:"avg_processing"`
	AvgSetup      float64 `json:"avg_setup"` // mean of off-diagonal setups
	Severity      float64 `json:"severity"`  // AvgSetup / AvgProcessing
	MinReady      int64   `json:"min_ready"`
	TotalWork     int64   `json:"total_work"` // Σp
}

// Analyze computes metrics for inst. An empty instance yields zero metrics.
func Analyze(inst *Instance) Metrics {
	n := inst.N()
	if n == 0 {
		return Metrics{}
	}

	var m Metrics
	m.MinReady = inst.Tasks[0].Ready
	for _, t := range inst.Tasks {
		m.TotalWork += t.Processing
		if t.Ready < m.MinReady {
			m.MinReady = t.Ready
		}
	}
	m.AvgProcessing = float64(m.TotalWork) / float64(n)

	if n > 1 {
		var total int64
		for i, t := range inst.Tasks {
			for j, s := range t.Setup {
				if i != j {
					total += s
				}
			}
		}
		m.AvgSetup = float64(total) / float64(n*(n-1))
	}

	if m.AvgProcessing > 0 {
		m.Severity = m.AvgSetup / m.AvgProcessing
	}
	return m
}

// SetupHeavy reports whether setups dominate processing times.
func (m Metrics) SetupHeavy() bool { return m.Severity >= SeverityThreshold }
