// Package pattern provides the detector-plugin infrastructure: a registry of
// independent detectors that each recognize one structural idiom in the
// enquiry XML and emit metadata flags for it.
//
// Detectors should be:
//   - Stateless: everything they need is in the Context
//   - Side-effect-free: the Context is read-only by contract
//   - Independent: no detector may depend on another detector's outcome
//
// The registry is built once at process start and is read-only afterwards,
// so one registry may serve any number of concurrent parses.
package pattern

import "github.com/beevik/etree"

// Confidence grades how certain a detector is about its match.
type Confidence string

const (
	// ConfidenceLow marks a heuristic match that downstream consumers may
	// want to review.
	ConfidenceLow Confidence = "low"
	// ConfidenceMedium marks a match on a strong but not definitive signal.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceHigh marks a match on an unambiguous structural signal.
	ConfidenceHigh Confidence = "high"
)

// ContainerInfo carries metadata inherited from an ancestor container, such
// as "this element sits inside a pseudo-refset container". It lets a
// detector judge an element in context without walking up the tree.
type ContainerInfo struct {
	// EntityID is the identifier of the containing entity.
	EntityID string

	// Kind names the container construct (for example "pseudo-refset").
	Kind string

	// ValueSetGUID is set when the container is a value set.
	ValueSetGUID string

	// Description is the container's display text, when available.
	Description string
}

// Context is the input to a detector. Detectors must treat it as read-only.
type Context struct {
	// Element is the element under inspection.
	Element *etree.Element

	// Namespaces is the document's resolved prefix map.
	Namespaces map[string]string

	// Path is an optional location hint for diagnostics.
	Path string

	// Container is optional metadata inherited from an ancestor container.
	Container *ContainerInfo
}

// Result is one detector's finding. A detector that finds nothing returns
// nil, never an empty Result; RunAll relies on the distinction to skip
// non-matches without emitting noise.
type Result struct {
	// PatternID identifies the detector that produced this result.
	PatternID string

	// Description is a human-readable account of the detected idiom.
	Description string

	// Flags maps flag names to values. Every name must exist in the flag
	// registry or it will be dropped during validation.
	Flags map[string]any

	// Confidence grades the match.
	Confidence Confidence

	// Notes carries optional free text for diagnostics.
	Notes string
}

// DetectorFunc inspects one element and reports a finding, or nil.
type DetectorFunc func(Context) *Result
