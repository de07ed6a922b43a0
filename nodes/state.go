// Package nodes turns classified elements into typed entities. One parser
// per structural concept: search, the three report kinds, criterion, linked
// criterion, value set, and folder.
//
// Parsers never fail the run. A malformed child is recorded as a warning
// attached to the nearest entity and parsing continues; only a malformed
// top-level document (caught earlier, in the document loader) aborts.
package nodes

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/document"
	"github.com/clinsearch/enquiry/flags"
	"github.com/clinsearch/enquiry/pattern"
	"github.com/clinsearch/enquiry/xmlutil"
)

// State carries everything the parsers share while working one document: the
// document itself, the detector registry, the flag mapper, the code store,
// and the result the entities and warnings accumulate into. One State per
// document; it is not safe for concurrent use.
type State struct {
	Doc      *document.ParsedDocument
	Registry *pattern.Registry
	Mapper   *flags.Mapper
	Codes    *eq.CodeStore
	Result   *eq.ParseResult
	Metadata eq.DocumentMetadata
}

// NewState wires a parse state for one document.
func NewState(doc *document.ParsedDocument, reg *pattern.Registry, mapper *flags.Mapper, codes *eq.CodeStore, result *eq.ParseResult) *State {
	return &State{
		Doc:      doc,
		Registry: reg,
		Mapper:   mapper,
		Codes:    codes,
		Result:   result,
	}
}

// detect runs every registered detector against el and returns the matches.
func (st *State) detect(el *etree.Element, path string, container *pattern.ContainerInfo) []*pattern.Result {
	ctx := pattern.Context{
		Element:   el,
		Path:      path,
		Container: container,
	}
	if st.Doc != nil {
		ctx.Namespaces = st.Doc.Namespaces
	}
	return st.Registry.RunAll(ctx)
}

// mapFlags merges structural defaults with detector results and validates.
func (st *State) mapFlags(el *etree.Element, defaults map[string]any, results []*pattern.Result) map[string]any {
	return st.Mapper.MapElementFlags(el, defaults, results)
}

// warn records an entity-scoped warning on the result.
func (st *State) warn(code eq.WarningType, entityID, elementTag, diagnostics string) {
	st.Result.AddWarning(eq.Warn(code).
		Diagnostics(diagnostics).
		Entity(entityID).
		Element(elementTag).
		Source(st.Metadata.Source).
		Build())
}

// keepResults stores detector matches on the result for callers that asked
// to retain them.
func (st *State) keepResults(entityID string, results []*pattern.Result) {
	if st.Result.PatternResults == nil || len(results) == 0 {
		return
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		st.Result.PatternResults[entityID] = append(st.Result.PatternResults[entityID], eq.PatternObservation{
			PatternID:   res.PatternID,
			Description: res.Description,
			Flags:       res.Flags,
			Confidence:  string(res.Confidence),
			Notes:       res.Notes,
		})
	}
}

// elementID reads the element's identifier from an id child or attribute,
// minting one when the source carries none so every entity stays addressable.
func elementID(el *etree.Element) string {
	if id := xmlutil.Text(el, "id"); id != "" {
		return id
	}
	if id, ok := xmlutil.AttrOf(el, "id"); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	return uuid.NewString()
}
