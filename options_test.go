package enquiry

import (
	"runtime"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.KeepPatternResults {
		t.Error("KeepPatternResults should default to false")
	}
	if !opts.ResolveReferences {
		t.Error("ResolveReferences should default to true")
	}
	if opts.WorkerCount != runtime.NumCPU() {
		t.Errorf("WorkerCount = %d; want runtime.NumCPU() = %d", opts.WorkerCount, runtime.NumCPU())
	}
	if !opts.CollectMetrics {
		t.Error("CollectMetrics should default to true")
	}
}

func TestOptions_Apply(t *testing.T) {
	opts := DefaultOptions()

	var dropped []string
	for _, opt := range []Option{
		WithKeepPatternResults(true),
		WithStrictFolders(true),
		WithWorkerCount(3),
		WithMetrics(false),
		WithFlagDropObserver(func(flag string, _ any, _ string) {
			dropped = append(dropped, flag)
		}),
	} {
		opt(opts)
	}

	if !opts.KeepPatternResults || !opts.StrictFolders {
		t.Error("boolean options not applied")
	}
	if opts.WorkerCount != 3 {
		t.Errorf("WorkerCount = %d; want 3", opts.WorkerCount)
	}
	if opts.CollectMetrics {
		t.Error("WithMetrics(false) not applied")
	}

	opts.FlagDropObserver("bad_flag", 1, "unknown")
	if len(dropped) != 1 || dropped[0] != "bad_flag" {
		t.Errorf("FlagDropObserver not wired: %v", dropped)
	}
}

func TestWithWorkerCount_IgnoresNonPositive(t *testing.T) {
	opts := DefaultOptions()
	want := opts.WorkerCount

	WithWorkerCount(0)(opts)
	WithWorkerCount(-4)(opts)

	if opts.WorkerCount != want {
		t.Errorf("WorkerCount = %d; want unchanged %d", opts.WorkerCount, want)
	}
}
