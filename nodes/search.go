package nodes

import (
	"github.com/beevik/etree"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/xmlutil"
)

// ParseSearch parses a report element carrying a population payload into a
// search entity with its criteria groups.
func ParseSearch(st *State, el *etree.Element) *eq.Entity {
	entity := &eq.Entity{
		ID:          elementID(el),
		Type:        eq.EntitySearch,
		Name:        xmlutil.TextOf(el, "name", "displayName"),
		Description: xmlutil.Text(el, "description"),
	}

	defaults := map[string]any{
		"entity_type": string(eq.EntitySearch),
		"search_type": "population",
	}
	if entity.Description != "" {
		defaults["has_description"] = true
	}
	parseReportParent(st, el, entity, defaults)

	population := xmlutil.Child(el, "population")
	if population == nil {
		// Classification guarantees a population payload; a missing one
		// here means the tree changed underneath us.
		st.warn(eq.WarnTypeStructure, entity.ID, "report",
			"search has no population payload")
	} else {
		defaults["has_population"] = true
		groups := xmlutil.Children(population, "criteriaGroup")
		defaults["criteria_group_count"] = len(groups)
		for _, group := range groups {
			parseCriteriaGroup(st, group, entity, defaults)
		}
	}

	results := st.detect(el, "search", nil)
	entity.Flags = st.mapFlags(el, defaults, results)
	st.Result.AddEntity(entity)
	st.keepResults(entity.ID, results)
	return entity
}

// parseCriteriaGroup parses one criteriaGroup of a population: its boolean
// operator, its outcome actions, and its member criteria.
func parseCriteriaGroup(st *State, group *etree.Element, search *eq.Entity, defaults map[string]any) {
	if op := xmlutil.Text(group, "memberOperator"); op == "AND" || op == "OR" {
		defaults["group_operator"] = op
	}
	for flag, tag := range map[string]string{
		"action_if_true":  "actionIfTrue",
		"action_if_false": "actionIfFalse",
	} {
		if action := xmlutil.Text(group, tag); action != "" {
			defaults[flag] = action
		}
	}
	for _, criterion := range groupCriteria(group) {
		if child := ParseCriterion(st, criterion, search, "search criteria"); child != nil {
			search.AddChild(child.ID)
		}
	}
}

// parseReportParent reads the shared report envelope parent block: the
// containing folder and, for child searches, the population they narrow.
func parseReportParent(st *State, el *etree.Element, entity *eq.Entity, defaults map[string]any) {
	parent := xmlutil.Child(el, "parent")
	if parent == nil {
		return
	}
	if folderGUID := xmlutil.Text(parent, "parentGuid"); folderGUID != "" {
		entity.ParentID = folderGUID
		defaults["parent_guid"] = folderGUID
	}
	if sid := xmlutil.Child(parent, "searchIdentifier"); sid != nil {
		guid := xmlutil.Text(sid, "reportGuid")
		if guid == "" {
			guid, _ = xmlutil.AttrOf(sid, "reportGuid")
		}
		if guid == "" {
			st.warn(eq.WarnTypeReference, entity.ID, "searchIdentifier",
				"parent search reference carries no identifier")
			return
		}
		entity.AddDependency(guid)
		if entity.Type == eq.EntitySearch {
			defaults["is_child_search"] = true
			defaults["parent_search_guid"] = guid
		} else {
			defaults["population_guid"] = guid
		}
	}
}
