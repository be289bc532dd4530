package cache

// SolveKeyOpts holds the options that change a solve result.
// Fields that only affect presentation do not belong here.
type SolveKeyOpts struct {
	Mode          string  `json:"mode"`
	Bound         string  `json:"bound,omitempty"`
	Timeout       int64   `json:"timeout_ms"`
	Alpha         float64 `json:"alpha,omitempty"`
	Policy        string  `json:"policy,omitempty"`
	Seed          int64   `json:"seed,omitempty"`
	Init          string  `json:"init,omitempty"`
	Neighborhoods string  `json:"neighborhoods,omitempty"` // comma-separated, in search order
	Starts        int     `json:"starts,omitempty"`
	Rounds        int     `json:"rounds,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// SolveKey identifies a solve result for an instance and option set.
	SolveKey(instanceHash string, opts SolveKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolveKey returns "solve:<sha256(hash, opts)>".
func (DefaultKeyer) SolveKey(instanceHash string, opts SolveKeyOpts) string {
	return hashKey("solve", instanceHash, opts)
}

var _ Keyer = DefaultKeyer{}
