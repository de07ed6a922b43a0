package nodes

import (
	"github.com/beevik/etree"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/detect"
	"github.com/clinsearch/enquiry/pattern"
	"github.com/clinsearch/enquiry/xmlutil"
)

// ParseValueSet parses a valueSet element, builds its entity, and inserts
// every code entry into the shared code store. owner is the entity the value
// set serves (usually a criterion); containerContext names that position for
// source attribution on each code.
func ParseValueSet(st *State, el *etree.Element, owner *eq.Entity, containerContext string) *eq.Entity {
	guid := elementID(el)
	codeSystem := xmlutil.Text(el, "codeSystem")

	entity := &eq.Entity{
		ID:          guid,
		Type:        eq.EntityValueSet,
		Description: xmlutil.Text(el, "description"),
	}
	if owner != nil {
		entity.ParentID = owner.ID
	}

	defaults := map[string]any{
		"entity_type":    string(eq.EntityValueSet),
		"value_set_guid": guid,
	}
	if codeSystem != "" {
		defaults["code_system"] = codeSystem
		if !eq.IsKnownCodeSystem(codeSystem) {
			st.warn(eq.WarnTypeValueSet, entity.ID, "codeSystem",
				"unrecognized coding scheme "+codeSystem)
		}
	} else {
		st.warn(eq.WarnTypeValueSet, entity.ID, "valueSet",
			"value set declares no coding scheme")
	}

	results := st.detect(el, containerContext, nil)

	// A pseudo-refset verdict on the container changes how each member is
	// judged: the entries inherit the container context, never the
	// container's flag map.
	var container *pattern.ContainerInfo
	for _, res := range results {
		if res != nil && res.PatternID == detect.IDPseudoRefset {
			container = &pattern.ContainerInfo{
				EntityID:     entity.ID,
				Kind:         detect.ContainerPseudoRefset,
				ValueSetGUID: guid,
				Description:  entity.Description,
			}
			break
		}
	}

	entries := valueSetEntries(el)
	defaults["code_count"] = len(entries)
	ownerID := entity.ID
	ownerType := string(eq.EntityValueSet)
	if owner != nil {
		ownerID = owner.ID
		ownerType = string(owner.Type)
	}

	for _, entry := range entries {
		parseCodeEntry(st, entry, entity, container, eq.SourceReference{
			EntityID:         ownerID,
			ContainerContext: containerContext,
			ContainerType:    ownerType,
		}, guid, codeSystem)
	}

	entity.Flags = st.mapFlags(el, defaults, results)
	st.Result.AddEntity(entity)
	st.keepResults(entity.ID, results)
	return entity
}

// valueSetEntries returns the value entries under a valueSet's values block.
func valueSetEntries(el *etree.Element) []*etree.Element {
	values := xmlutil.Child(el, "values")
	if values == nil {
		return nil
	}
	return xmlutil.Children(values, "value")
}

// parseCodeEntry inserts one code into the store. Membership flags are
// computed here, per source reference, from the detectors run against this
// entry in its container context. They are never copied off the container:
// the same code can be a plain member in one sighting and a
// container-defining code in another.
func parseCodeEntry(st *State, entry *etree.Element, vs *eq.Entity, container *pattern.ContainerInfo, ref eq.SourceReference, guid, codeSystem string) {
	codeValue := xmlutil.Text(entry, "value")
	if codeValue == "" {
		st.warn(eq.WarnTypeMissingValue, vs.ID, "value",
			"code entry has no code value")
		return
	}

	memberResults := st.detect(entry, ref.ContainerContext, container)
	if membership := membershipFlags(st, memberResults); len(membership) > 0 {
		ref.MembershipFlags = membership
	}

	key := eq.CodeKey{
		CodeValue:    codeValue,
		ValueSetGUID: guid,
		CodeSystem:   codeSystem,
	}
	data := eq.CodeData{
		DisplayName:     xmlutil.Text(entry, "displayName"),
		IncludeChildren: xmlutil.BoolText(entry, "includeChildren"),
		IsRefset:        xmlutil.BoolText(entry, "isRefset"),
	}
	st.Codes.AddOrReference(key, data, ref)
}

// membershipFlags collects and validates the membership flags the detectors
// emitted for one code entry in context.
func membershipFlags(st *State, results []*pattern.Result) map[string]any {
	merged := make(map[string]any)
	for _, res := range results {
		if res == nil {
			continue
		}
		for name, value := range res.Flags {
			merged[name] = value
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return st.Mapper.Registry().Validate(merged)
}
