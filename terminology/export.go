// Package terminology converts deduplicated code-store entries into FHIR R4
// value sets for the hierarchy-expansion collaborator.
//
// The collaborator consumes the exported resources, expands code
// hierarchies against a terminology server, and re-attaches the results by
// code key; it never needs the original document, so the export is the
// stable serializable boundary between the parser and that service.
package terminology

import (
	"sort"

	"github.com/gofhir/fhir/r4"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/cache"
)

// systemURIs maps the dialect's coding schemes to canonical system URIs.
var systemURIs = map[string]string{
	eq.CodeSystemSNOMED:       "http://snomed.info/sct",
	eq.CodeSystemRead2:        "http://read.info/readv2",
	eq.CodeSystemCTV3:         "http://read.info/ctv3",
	eq.CodeSystemEMISInternal: "urn:emis:internal",
	eq.CodeSystemLocal:        "urn:emis:local",
}

// SystemURI returns the canonical URI for a dialect coding scheme. Unknown
// schemes pass through unchanged so nothing is lost in the round trip.
func SystemURI(scheme string) string {
	if uri, ok := systemURIs[scheme]; ok {
		return uri
	}
	return scheme
}

// Exporter builds r4.ValueSet resources from a code store, one resource per
// value-set GUID. Conversions are cached by GUID and entry count, so
// re-exporting an unchanged store is cheap.
type Exporter struct {
	cache *cache.Cache[exportKey, *r4.ValueSet]
}

type exportKey struct {
	guid  string
	codes int
}

// NewExporter creates an Exporter with room for cacheSize converted value
// sets. Size <= 0 picks a sensible default.
func NewExporter(cacheSize int) *Exporter {
	return &Exporter{
		cache: cache.New[exportKey, *r4.ValueSet](cacheSize),
	}
}

// ValueSets converts every entry of the store into value-set resources
// grouped by GUID, ordered by GUID for stable output. Each resource's URL is
// urn:uuid:<guid> and its expansion lists the member codes.
func (e *Exporter) ValueSets(store *eq.CodeStore) []*r4.ValueSet {
	grouped := make(map[string][]*eq.CodeEntry)
	for _, entry := range store.All() {
		grouped[entry.Key.ValueSetGUID] = append(grouped[entry.Key.ValueSetGUID], entry)
	}

	guids := make([]string, 0, len(grouped))
	for guid := range grouped {
		guids = append(guids, guid)
	}
	sort.Strings(guids)

	out := make([]*r4.ValueSet, 0, len(guids))
	for _, guid := range guids {
		out = append(out, e.valueSet(guid, grouped[guid]))
	}
	return out
}

// valueSet converts one GUID group, going through the cache.
func (e *Exporter) valueSet(guid string, entries []*eq.CodeEntry) *r4.ValueSet {
	key := exportKey{guid: guid, codes: len(entries)}
	if vs, ok := e.cache.Get(key); ok {
		return vs
	}

	url := "urn:uuid:" + guid
	vs := &r4.ValueSet{
		Url: &url,
		Expansion: &r4.ValueSetExpansion{
			Contains: make([]r4.ValueSetExpansionContains, 0, len(entries)),
		},
	}
	for _, entry := range entries {
		vs.Expansion.Contains = append(vs.Expansion.Contains, contains(entry))
	}

	e.cache.Set(key, vs)
	return vs
}

// contains converts one code entry into an expansion row.
func contains(entry *eq.CodeEntry) r4.ValueSetExpansionContains {
	system := SystemURI(entry.Key.CodeSystem)
	code := entry.Key.CodeValue
	row := r4.ValueSetExpansionContains{
		System: &system,
		Code:   &code,
	}
	if entry.Data.DisplayName != "" {
		display := entry.Data.DisplayName
		row.Display = &display
	}
	return row
}

// CacheStats exposes the conversion cache counters.
func (e *Exporter) CacheStats() cache.Stats {
	return e.cache.Stats()
}
