package flags

import (
	"github.com/beevik/etree"

	"github.com/clinsearch/enquiry/pattern"
)

// Mapper merges flag contributions from structural parsing and pattern
// detection into one validated flag map.
type Mapper struct {
	registry *Registry
}

// NewMapper returns a mapper validating against reg.
func NewMapper(reg *Registry) *Mapper {
	return &Mapper{registry: reg}
}

// Registry returns the catalogue the mapper validates against.
func (m *Mapper) Registry() *Registry {
	return m.registry
}

// MapElementFlags builds the flag map for an entity parsed from el.
//
// Merge order is fixed: structural defaults first, then each detector
// result's flags in the order the results were produced, later writers
// overwriting earlier ones. The merged map is then validated, which drops
// unknown and invalid flags. When el is non-nil the raw source tag is
// recorded as xml_tag_name before the merge, so a structural default or a
// detector may still override it.
func (m *Mapper) MapElementFlags(el *etree.Element, defaults map[string]any, results []*pattern.Result) map[string]any {
	merged := make(map[string]any, len(defaults)+4)
	if el != nil {
		merged[FlagXMLTagName] = el.FullTag()
	}
	for name, value := range defaults {
		merged[name] = value
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		for name, value := range res.Flags {
			merged[name] = value
		}
	}
	return m.registry.Validate(merged)
}
