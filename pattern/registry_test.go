package pattern

import (
	"testing"

	"github.com/beevik/etree"

	eq "github.com/clinsearch/enquiry"
)

func elem(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Root()
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	r.Register("p.one", func(Context) *Result { return nil })
	r.Register("p.two", func(Context) *Result { return nil })

	if r.Len() != 2 {
		t.Errorf("Len() = %d; want 2", r.Len())
	}
	ids := r.IDs()
	if ids[0] != "p.one" || ids[1] != "p.two" {
		t.Errorf("IDs() = %v; want registration order", ids)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register("p.dup", func(Context) *Result { return nil })

	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic at load time")
		}
	}()
	r.Register("p.dup", func(Context) *Result { return nil })
}

func TestRegistry_NilDetectorPanics(t *testing.T) {
	r := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Error("nil detector should panic")
		}
	}()
	r.Register("p.nil", nil)
}

func TestRunAll_OrderAndSkipNonMatches(t *testing.T) {
	r := NewRegistry()

	r.Register("p.match-a", func(Context) *Result {
		return &Result{Flags: map[string]any{"a": true}, Confidence: ConfidenceHigh}
	})
	r.Register("p.nomatch", func(Context) *Result { return nil })
	r.Register("p.match-b", func(Context) *Result {
		return &Result{Flags: map[string]any{"b": true}, Confidence: ConfidenceLow}
	})

	results := r.RunAll(Context{Element: elem(t, `<criterion/>`)})
	if len(results) != 2 {
		t.Fatalf("RunAll = %d results; want 2", len(results))
	}
	if results[0].PatternID != "p.match-a" || results[1].PatternID != "p.match-b" {
		t.Errorf("result order = %s, %s; want registration order", results[0].PatternID, results[1].PatternID)
	}
}

func TestRunAll_StampsPatternID(t *testing.T) {
	r := NewRegistry()
	r.Register("p.stamp", func(Context) *Result {
		return &Result{Confidence: ConfidenceMedium}
	})

	results := r.RunAll(Context{Element: elem(t, `<x/>`)})
	if len(results) != 1 || results[0].PatternID != "p.stamp" {
		t.Errorf("PatternID not stamped: %+v", results)
	}
}

func TestRunAll_PanickingDetectorIsIsolated(t *testing.T) {
	r := NewRegistry()
	m := eq.NewMetrics()
	r.SetMetrics(m)

	r.Register("p.before", func(Context) *Result {
		return &Result{Flags: map[string]any{"before": true}}
	})
	r.Register("p.broken", func(ctx Context) *Result {
		// Simulates a detector tripping over a malformed element.
		panic("nil dereference in detector")
	})
	r.Register("p.after", func(Context) *Result {
		return &Result{Flags: map[string]any{"after": true}}
	})

	results := r.RunAll(Context{Element: elem(t, `<criterion/>`)})

	if len(results) != 2 {
		t.Fatalf("RunAll = %d results; want 2 (broken detector excluded)", len(results))
	}
	for _, res := range results {
		if res.PatternID == "p.broken" {
			t.Error("a panicking detector must not appear in the results")
		}
	}
	if m.DetectorPanics() != 1 {
		t.Errorf("DetectorPanics() = %d; want 1", m.DetectorPanics())
	}
}

func TestRunAll_SameContextForAll(t *testing.T) {
	r := NewRegistry()
	el := elem(t, `<criterion id="c1"/>`)

	var seen []*etree.Element
	for _, id := range []string{"p.x", "p.y"} {
		r.Register(id, func(ctx Context) *Result {
			seen = append(seen, ctx.Element)
			return nil
		})
	}

	r.RunAll(Context{Element: el})
	if len(seen) != 2 || seen[0] != el || seen[1] != el {
		t.Error("every detector should receive the same element")
	}
}

func TestRunAll_MetricsTiming(t *testing.T) {
	r := NewRegistry()
	m := eq.NewMetrics()
	r.SetMetrics(m)

	r.Register("p.hit", func(Context) *Result { return &Result{} })
	r.Register("p.miss", func(Context) *Result { return nil })

	r.RunAll(Context{Element: elem(t, `<x/>`)})
	r.RunAll(Context{Element: elem(t, `<x/>`)})

	hit, ok := m.DetectorStats("p.hit")
	if !ok || hit.Invocations != 2 || hit.Matches != 2 {
		t.Errorf("p.hit stats = %+v, %v; want 2 invocations, 2 matches", hit, ok)
	}
	miss, _ := m.DetectorStats("p.miss")
	if miss.Invocations != 2 || miss.Matches != 0 {
		t.Errorf("p.miss stats = %+v; want 2 invocations, 0 matches", miss)
	}
}
