package pattern

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	eq "github.com/clinsearch/enquiry"
)

// Registry holds the registered detectors in registration order. Order is
// load-bearing: flag merging is last-write-wins, so a stable execution order
// is what makes collisions resolve identically across runs.
type Registry struct {
	ids       []string
	detectors map[string]DetectorFunc

	logger  zerolog.Logger
	metrics *eq.Metrics
}

// NewRegistry creates an empty registry with a no-op logger.
func NewRegistry() *Registry {
	return &Registry{
		detectors: make(map[string]DetectorFunc, 16),
		logger:    zerolog.Nop(),
	}
}

// SetLogger sets the logger used to report recovered detector failures.
// Call before the registry is shared across parses.
func (r *Registry) SetLogger(logger zerolog.Logger) {
	r.logger = logger
}

// SetMetrics installs a metrics collector for detector timing and recovered
// failures. Call before the registry is shared across parses.
func (r *Registry) SetMetrics(m *eq.Metrics) {
	r.metrics = m
}

// Register adds a detector under a unique pattern id. A duplicate id is a
// programming error, not a runtime condition: Register panics so the
// mistake surfaces at load time, long before any document is parsed.
func (r *Registry) Register(id string, fn DetectorFunc) {
	if id == "" {
		panic("pattern: empty pattern id")
	}
	if fn == nil {
		panic(fmt.Sprintf("pattern: nil detector for %q", id))
	}
	if _, exists := r.detectors[id]; exists {
		panic(fmt.Sprintf("pattern: duplicate pattern id %q", id))
	}
	r.ids = append(r.ids, id)
	r.detectors[id] = fn
}

// IDs returns the registered pattern ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Len returns the number of registered detectors.
func (r *Registry) Len() int {
	return len(r.ids)
}

// RunAll invokes every detector with the same context, in registration
// order, and collects the non-nil results. A detector that panics is
// recovered, logged, and treated as a non-match so one faulty plugin cannot
// take down classification of the whole document.
func (r *Registry) RunAll(ctx Context) []*Result {
	var results []*Result
	for _, id := range r.ids {
		if res := r.runOne(id, ctx); res != nil {
			results = append(results, res)
		}
	}
	return results
}

func (r *Registry) runOne(id string, ctx Context) (result *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn().
				Str("pattern", id).
				Str("path", ctx.Path).
				Interface("panic", rec).
				Msg("pattern detector failed; treating as non-match")
			if r.metrics != nil {
				r.metrics.RecordDetectorPanic()
			}
			result = nil
		}
	}()

	start := time.Now()
	result = r.detectors[id](ctx)
	if r.metrics != nil {
		r.metrics.RecordDetector(id, time.Since(start), result != nil)
	}

	// Stamp the pattern id so detectors cannot mislabel their own output.
	if result != nil && result.PatternID == "" {
		result.PatternID = id
	}
	return result
}
