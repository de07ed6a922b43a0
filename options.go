package enquiry

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Option configures the parsing pipeline.
type Option func(*Options)

// Options holds all configuration for the parser.
type Options struct {
	// Behaviour flags
	KeepPatternResults bool
	StrictFolders      bool
	ResolveReferences  bool

	// Performance
	WorkerCount int

	// Observability
	Logger         zerolog.Logger
	CollectMetrics bool

	// FlagDropObserver is invoked for every flag dropped by validation.
	// Flag drops are silent by design; this is the audit channel.
	FlagDropObserver func(flag string, value any, reason string)
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		KeepPatternResults: false,
		StrictFolders:      false,
		ResolveReferences:  true,

		WorkerCount: runtime.NumCPU(),

		Logger:         zerolog.Nop(),
		CollectMetrics: true,
	}
}

// WithKeepPatternResults retains the raw detector results on the parse
// result, keyed by entity ID. Off by default; the validated flag maps are
// usually all downstream consumers need.
func WithKeepPatternResults(keep bool) Option {
	return func(o *Options) {
		o.KeepPatternResults = keep
	}
}

// WithStrictFolders records a warning for reports that reference a folder
// absent from the document, instead of silently ignoring the link.
func WithStrictFolders(strict bool) Option {
	return func(o *Options) {
		o.StrictFolders = strict
	}
}

// WithResolveReferences controls the post-parse pass that links entity
// dependency identifiers to parsed entities. Enabled by default.
func WithResolveReferences(resolve bool) Option {
	return func(o *Options) {
		o.ResolveReferences = resolve
	}
}

// WithWorkerCount sets the number of workers for batch parsing.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithLogger sets the logger used for detector failures and the
// flag-validation audit channel. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetrics enables or disables metric collection.
func WithMetrics(collect bool) Option {
	return func(o *Options) {
		o.CollectMetrics = collect
	}
}

// WithFlagDropObserver installs a callback invoked for every flag dropped by
// validation. Drops indicate a registry/plugin mismatch and are otherwise
// only visible at debug log level.
func WithFlagDropObserver(fn func(flag string, value any, reason string)) Option {
	return func(o *Options) {
		o.FlagDropObserver = fn
	}
}

// DebugOptions returns options useful for debugging: raw detector results
// are retained and strict folder checking is on.
func DebugOptions() []Option {
	return []Option{
		WithKeepPatternResults(true),
		WithStrictFolders(true),
	}
}
