package cache

// RunKeyOpts are the options that can change the outcome of a run.
type RunKeyOpts struct {
	Trace      bool `json:"trace,omitempty"`
	SkipVerify bool `json:"skip_verify,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// RunKey returns the key of a run of strategy over the input whose
	// content hash is inputHash.
	RunKey(strategy, inputHash string, opts RunKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "run:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RunKey hashes strategy, inputHash and opts into a run key.
func (DefaultKeyer) RunKey(strategy, inputHash string, opts RunKeyOpts) string {
	return hashKey("run", strategy, inputHash, opts)
}
