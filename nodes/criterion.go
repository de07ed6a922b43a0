package nodes

import (
	"strconv"

	"github.com/beevik/etree"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/xmlutil"
)

// ParseCriterion parses one criterion element into an entity, recursing into
// nested wrapper groups, linked criteria, and inline value sets. owner is the
// entity the criterion belongs to (a search, a report, or a parent
// criterion); containerContext describes that position for code attribution.
func ParseCriterion(st *State, el *etree.Element, owner *eq.Entity, containerContext string) *eq.Entity {
	entity := &eq.Entity{
		ID:   elementID(el),
		Type: eq.EntityCriterion,
		Name: xmlutil.TextOf(el, "displayName", "name"),
	}
	entity.Description = xmlutil.Text(el, "description")
	if owner != nil {
		entity.ParentID = owner.ID
	}

	defaults := map[string]any{
		"entity_type": string(eq.EntityCriterion),
	}
	if table := xmlutil.Text(el, "table"); table != "" {
		defaults["criterion_table"] = table
	}
	if xmlutil.Child(el, "negation") != nil {
		defaults["negation"] = xmlutil.BoolText(el, "negation")
	}
	if entity.Description != "" {
		defaults["has_description"] = true
	}

	parseCriterionFilters(st, el, entity, defaults)
	parseCriterionRestrictions(st, el, entity, defaults)
	mergeBaseCriteriaGroups(st, el, entity, defaults)

	if member := xmlutil.Child(el, "memberSearchIdentifier"); member != nil {
		guid := xmlutil.Text(member, "reportGuid")
		if guid == "" {
			guid, _ = xmlutil.AttrOf(member, "reportGuid")
		}
		if guid == "" {
			st.warn(eq.WarnTypeReference, entity.ID, "memberSearchIdentifier",
				"membership criterion missing its search reference")
		} else {
			entity.AddDependency(guid)
		}
	}

	if linked := xmlutil.Child(el, "linkedCriterion"); linked != nil {
		if child := ParseLinkedCriterion(st, linked, entity); child != nil {
			entity.AddChild(child.ID)
		}
	}

	results := st.detect(el, containerContext, nil)
	entity.Flags = st.mapFlags(el, defaults, results)
	st.Result.AddEntity(entity)
	st.keepResults(entity.ID, results)
	return entity
}

// parseCriterionFilters walks the filterAttribute blocks: column value
// filters and any inline or referenced value sets.
func parseCriterionFilters(st *State, el *etree.Element, entity *eq.Entity, defaults map[string]any) {
	attrs := xmlutil.Children(el, "filterAttribute")
	if len(attrs) == 0 {
		return
	}
	defaults["has_filter"] = true
	defaults["filter_attribute_count"] = len(attrs)

	columnValues := 0
	for _, fa := range attrs {
		for _, cv := range xmlutil.Children(fa, "columnValue") {
			columnValues++
			if col := xmlutil.Text(cv, "column"); col != "" {
				defaults["column_name"] = col
			}
			if dir := xmlutil.Text(cv, "inNotIn"); dir == "IN" || dir == "NOTIN" {
				defaults["in_not_in"] = dir
			}
			for _, vs := range xmlutil.Children(cv, "valueSet") {
				if child := ParseValueSet(st, vs, entity, "criterion filter"); child != nil {
					entity.AddChild(child.ID)
				}
			}
		}
	}
	defaults["column_value_count"] = columnValues
}

// parseCriterionRestrictions probes both legal restriction positions: as a
// direct child of the criterion and nested inside a filterAttribute. Missing
// that second form silently loses "latest N" semantics, so both are always
// checked.
func parseCriterionRestrictions(st *State, el *etree.Element, entity *eq.Entity, defaults map[string]any) {
	restrictions := xmlutil.Children(el, "restriction")
	for _, fa := range xmlutil.Children(el, "filterAttribute") {
		restrictions = append(restrictions, xmlutil.Children(fa, "restriction")...)
	}
	restrictions = xmlutil.DedupeByIdentity(restrictions)
	if len(restrictions) == 0 {
		return
	}

	defaults["has_restriction"] = true

	for _, restriction := range restrictions {
		countText := xmlutil.Text(restriction, "recordCount")
		if countText == "" {
			st.warn(eq.WarnTypeRestriction, entity.ID, "restriction",
				"restriction is missing its record count")
		} else if n, err := strconv.Atoi(countText); err != nil || n <= 0 {
			st.warn(eq.WarnTypeRestriction, entity.ID, "restriction",
				"restriction record count "+strconv.Quote(countText)+" is not a positive integer")
		} else {
			defaults["restriction_count"] = n
		}

		if order := xmlutil.Child(restriction, "columnOrder"); order != nil {
			if dir := xmlutil.Text(order, "direction"); dir != "" {
				defaults["restriction_direction"] = dir
			}
			if cols := xmlutil.Text(order, "columns"); cols != "" {
				defaults["restriction_columns"] = cols
			}
		}
		if xmlutil.Child(restriction, "testAttribute") != nil {
			defaults["conditional_restriction"] = true
			defaults["has_test_attribute"] = true
		}
	}
}

// mergeBaseCriteriaGroups folds nested wrapper groups into the parent
// criterion: each group's criteria parse as children of the parent entity,
// so the parent's own restrictions and the nested logic present as one
// logical criterion.
func mergeBaseCriteriaGroups(st *State, el *etree.Element, entity *eq.Entity, defaults map[string]any) {
	groups := xmlutil.Children(el, "baseCriteriaGroup")
	if len(groups) == 0 {
		return
	}
	defaults["wrapper_criterion"] = true
	defaults["base_group_count"] = len(groups)
	defaults["merged_from_groups"] = true

	for _, group := range groups {
		if op := xmlutil.Text(group, "memberOperator"); op == "AND" || op == "OR" {
			defaults["group_operator"] = op
		}
		for _, nested := range groupCriteria(group) {
			if child := ParseCriterion(st, nested, entity, "nested criteria group"); child != nil {
				entity.AddChild(child.ID)
			}
		}
	}
}

// groupCriteria returns the criterion elements under a criteria group's
// definition block, tolerating a missing definition wrapper.
func groupCriteria(group *etree.Element) []*etree.Element {
	holder := group
	if def := xmlutil.Child(group, "definition"); def != nil {
		holder = def
	}
	if criteria := xmlutil.Child(holder, "criteria"); criteria != nil {
		holder = criteria
	}
	return xmlutil.Children(holder, "criterion")
}

// ParseLinkedCriterion parses a linkedCriterion block: the relationship that
// joins the tables and the nested criterion evaluated on the related record.
func ParseLinkedCriterion(st *State, el *etree.Element, owner *eq.Entity) *eq.Entity {
	entity := &eq.Entity{
		ID:       elementID(el),
		Type:     eq.EntityLinkedCriterion,
		ParentID: owner.ID,
	}

	defaults := map[string]any{
		"entity_type": string(eq.EntityLinkedCriterion),
	}

	rel := xmlutil.Child(el, "relationship")
	if rel == nil {
		st.warn(eq.WarnTypeStructure, entity.ID, "linkedCriterion",
			"linked criterion has no relationship block")
	} else {
		if col := xmlutil.Text(rel, "parentColumn"); col != "" {
			defaults["relationship_parent_column"] = col
		}
		if col := xmlutil.Text(rel, "childColumn"); col != "" {
			defaults["relationship_child_column"] = col
		}
		if rv := xmlutil.Child(rel, "rangeValue"); rv != nil {
			parseTemporalRange(rv, defaults)
		}
	}

	if inner := xmlutil.Child(el, "criterion"); inner != nil {
		if child := ParseCriterion(st, inner, entity, "linked criterion"); child != nil {
			entity.AddChild(child.ID)
			if table, ok := child.Flags["criterion_table"]; ok {
				defaults["linked_table"] = table
			}
		}
	} else {
		st.warn(eq.WarnTypeStructure, entity.ID, "linkedCriterion",
			"linked criterion has no nested criterion")
	}

	results := st.detect(el, "linked criterion", nil)
	entity.Flags = st.mapFlags(el, defaults, results)
	st.Result.AddEntity(entity)
	st.keepResults(entity.ID, results)
	return entity
}

// parseTemporalRange reads the temporal comparison off a relationship range.
func parseTemporalRange(rv *etree.Element, defaults map[string]any) {
	for _, name := range []string{"rangeFrom", "rangeTo"} {
		bound := xmlutil.Child(rv, name)
		if bound == nil {
			continue
		}
		if op := xmlutil.Text(bound, "operator"); op != "" {
			defaults["temporal_operator"] = op
		}
		if unit := xmlutil.Text(bound, "unit"); unit != "" {
			defaults["temporal_unit"] = unit
		}
		if value := xmlutil.Text(bound, "value"); value != "" {
			defaults["temporal_value"] = value
		}
	}
}
