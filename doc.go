// Package enquiry parses vendor clinical enquiry XML (population searches,
// list/audit/aggregate reports, folders) into a normalized, deduplicated
// model of clinical codes and structural entities, each annotated with a
// validated set of typed metadata flags.
//
// The source dialect is inconsistent by nature: elements may or may not
// carry a namespace prefix, the same logical construct can appear in two
// structural positions, and wrapper criteria hide their real logic inside
// sub-groups. The pipeline absorbs all of that: namespace-agnostic lookup,
// a single-pass element classifier, an extensible pattern-detector registry,
// a flag-validation registry that is the single source of truth for legal
// metadata, and a code store that collapses repeated code references into
// one entry with full source attribution.
//
// # Quick Start
//
//	import (
//	    eq "github.com/clinsearch/enquiry"
//	    "github.com/clinsearch/enquiry/engine"
//	)
//
//	parser := engine.New()
//	result, err := parser.Parse(ctx, xmlText, "searches.xml")
//	if err != nil {
//	    // only malformed XML is fatal
//	}
//	for _, entry := range result.Codes.All() {
//	    fmt.Println(entry.Key.CodeValue, len(entry.Sources))
//	}
//
// # Functional Options
//
//	parser := engine.New(
//	    eq.WithLogger(logger),
//	    eq.WithKeepPatternResults(true),
//	    eq.WithWorkerCount(runtime.NumCPU()),
//	)
//
// # Architecture
//
// One document flows through document.Load, classify.Classify, and the node
// parsers in nodes, which consult the pattern registry and flag mapper per
// element and write codes into the shared per-document CodeStore. The
// pattern registry is built once at startup and is read-only afterwards, so
// it can be shared across concurrent parses; each document gets its own
// CodeStore and ParseResult.
package enquiry
