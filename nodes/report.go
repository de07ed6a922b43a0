package nodes

import (
	"strings"

	"github.com/beevik/etree"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/xmlutil"
)

// ParseListReport parses a report carrying a listReport payload: the report
// entity plus one column-group entity per columnGroup.
func ParseListReport(st *State, el *etree.Element) *eq.Entity {
	entity := reportEnvelope(el, eq.EntityListReport)
	defaults := map[string]any{
		"entity_type":    string(eq.EntityListReport),
		"report_subtype": "list",
	}
	if entity.Description != "" {
		defaults["has_description"] = true
	}
	parseReportParent(st, el, entity, defaults)

	payload := xmlutil.Child(el, "listReport")
	var groups []*etree.Element
	if payload != nil {
		if holder := xmlutil.Child(payload, "columnGroups"); holder != nil {
			groups = xmlutil.Children(holder, "columnGroup")
		} else {
			groups = xmlutil.Children(payload, "columnGroup")
		}
	}
	defaults["column_group_count"] = len(groups)
	for _, group := range groups {
		if child := parseColumnGroup(st, group, entity); child != nil {
			entity.AddChild(child.ID)
		}
	}

	results := st.detect(el, "list report", nil)
	entity.Flags = st.mapFlags(el, defaults, results)
	st.Result.AddEntity(entity)
	st.keepResults(entity.ID, results)
	return entity
}

// parseColumnGroup parses one column group of a list report: its logical
// table, its columns, and any per-group criterion.
func parseColumnGroup(st *State, el *etree.Element, report *eq.Entity) *eq.Entity {
	entity := &eq.Entity{
		ID:       elementID(el),
		Type:     eq.EntityColumnGroup,
		Name:     xmlutil.TextOf(el, "displayName", "name"),
		ParentID: report.ID,
	}

	defaults := map[string]any{
		"entity_type": string(eq.EntityColumnGroup),
	}
	table := xmlutil.Text(el, "logicalTableName")
	if table == "" {
		st.warn(eq.WarnTypeMissingValue, entity.ID, "columnGroup",
			"column group names no logical table")
	} else {
		defaults["logical_table"] = table
	}

	var columns []*etree.Element
	if columnar := xmlutil.Child(el, "columnar"); columnar != nil {
		columns = xmlutil.Children(columnar, "listColumn")
	}
	defaults["column_count"] = len(columns)
	if sort := xmlutil.Child(el, "sort"); sort != nil {
		if col := xmlutil.Text(sort, "column"); col != "" {
			defaults["sort_column"] = col
		}
		if dir := xmlutil.Text(sort, "direction"); dir == "ASC" || dir == "DESC" {
			defaults["sort_direction"] = dir
		}
	}

	if criteria := xmlutil.Child(el, "criteria"); criteria != nil {
		for _, criterion := range xmlutil.Children(criteria, "criterion") {
			if child := ParseCriterion(st, criterion, entity, "report column group"); child != nil {
				entity.AddChild(child.ID)
			}
		}
	}

	results := st.detect(el, "report column group", nil)
	entity.Flags = st.mapFlags(el, defaults, results)
	st.Result.AddEntity(entity)
	st.keepResults(entity.ID, results)
	return entity
}

// ParseAuditReport parses a report carrying an auditReport payload. Audit
// reports aggregate one or more population searches, referenced by GUID.
func ParseAuditReport(st *State, el *etree.Element) *eq.Entity {
	entity := reportEnvelope(el, eq.EntityAuditReport)
	defaults := map[string]any{
		"entity_type":    string(eq.EntityAuditReport),
		"report_subtype": "audit",
	}
	if entity.Description != "" {
		defaults["has_description"] = true
	}
	parseReportParent(st, el, entity, defaults)

	payload := xmlutil.Child(el, "auditReport")
	if payload != nil {
		if xmlutil.Child(payload, "customAggregate") != nil {
			defaults["custom_aggregate"] = xmlutil.BoolText(payload, "customAggregate")
		}
		populations := xmlutil.Children(payload, "population")
		defaults["population_count"] = len(populations)
		for _, population := range populations {
			guid := populationRef(population)
			if guid == "" {
				st.warn(eq.WarnTypeReference, entity.ID, "population",
					"audit population carries no search reference")
				continue
			}
			entity.AddDependency(guid)
		}
	}

	results := st.detect(el, "audit report", nil)
	entity.Flags = st.mapFlags(el, defaults, results)
	st.Result.AddEntity(entity)
	st.keepResults(entity.ID, results)
	return entity
}

// populationRef extracts the referenced search GUID from an audit
// population entry.
func populationRef(population *etree.Element) string {
	sid := xmlutil.Child(population, "searchIdentifier")
	if sid == nil {
		return ""
	}
	if guid := xmlutil.Text(sid, "reportGuid"); guid != "" {
		return guid
	}
	guid, _ := xmlutil.AttrOf(sid, "reportGuid")
	return guid
}

// ParseAggregateReport parses a report carrying an aggregateReport payload:
// the statistic, its groupings, and any embedded criterion.
func ParseAggregateReport(st *State, el *etree.Element) *eq.Entity {
	entity := reportEnvelope(el, eq.EntityAggregateReport)
	defaults := map[string]any{
		"entity_type":    string(eq.EntityAggregateReport),
		"report_subtype": "aggregate",
	}
	if entity.Description != "" {
		defaults["has_description"] = true
	}
	parseReportParent(st, el, entity, defaults)

	payload := xmlutil.Child(el, "aggregateReport")
	if payload != nil {
		if table := xmlutil.Text(payload, "logicalTable"); table != "" {
			defaults["logical_table"] = table
		}
		if stat := xmlutil.Child(payload, "statistic"); stat != nil {
			if src := xmlutil.Text(stat, "source"); src != "" {
				defaults["aggregate_source"] = src
			}
			if calc := xmlutil.Text(stat, "calculationType"); calc != "" {
				defaults["aggregate_statistic"] = strings.ToLower(calc)
			}
		}
		if rows := xmlutil.Child(payload, "rows"); rows != nil {
			if g := xmlutil.Text(rows, "groupingColumn"); g != "" {
				defaults["row_grouping"] = g
			}
		}
		if cols := xmlutil.Child(payload, "columns"); cols != nil {
			if g := xmlutil.Text(cols, "groupingColumn"); g != "" {
				defaults["column_grouping"] = g
			}
		}
		if criteria := xmlutil.Child(payload, "criteria"); criteria != nil {
			for _, criterion := range xmlutil.Children(criteria, "criterion") {
				if child := ParseCriterion(st, criterion, entity, "aggregate criteria"); child != nil {
					entity.AddChild(child.ID)
				}
			}
		}
	}

	results := st.detect(el, "aggregate report", nil)
	entity.Flags = st.mapFlags(el, defaults, results)
	st.Result.AddEntity(entity)
	st.keepResults(entity.ID, results)
	return entity
}

// reportEnvelope builds the shared report entity shell: identifier, name,
// description.
func reportEnvelope(el *etree.Element, t eq.EntityType) *eq.Entity {
	return &eq.Entity{
		ID:          elementID(el),
		Type:        t,
		Name:        xmlutil.TextOf(el, "name", "displayName"),
		Description: xmlutil.Text(el, "description"),
	}
}
