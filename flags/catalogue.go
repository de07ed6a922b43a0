package flags

import (
	eq "github.com/clinsearch/enquiry"
)

// Flag name constants for the callers that set or read flags in code.
// Detector-only flags are referenced by literal in their detector; the
// constants below cover the names shared between packages.
const (
	FlagEntityType       = "entity_type"
	FlagXMLTagName       = "xml_tag_name"
	FlagCodeSystem       = "code_system"
	FlagIsRefset         = "is_refset"
	FlagIsPseudoRefset   = "is_pseudo_refset"
	FlagIsPseudoMember   = "is_pseudo_member"
	FlagIncludeChildren  = "include_children"
	FlagIsEMISInternal   = "is_emis_internal"
	FlagIsLibraryItem    = "is_library_item"
	FlagIsMemberSearch   = "is_member_search"
	FlagMemberSearchRef  = "member_search_ref"
	FlagDateFilter       = "date_filter"
	FlagMultiPopulation  = "multi_population"
	FlagWrapperCriterion = "wrapper_criterion"
	FlagHasRestriction   = "has_restriction"
)

var entityTypes = []string{
	string(eq.EntitySearch),
	string(eq.EntityListReport),
	string(eq.EntityAuditReport),
	string(eq.EntityAggregateReport),
	string(eq.EntityCriterion),
	string(eq.EntityLinkedCriterion),
	string(eq.EntityValueSet),
	string(eq.EntityColumnGroup),
	string(eq.EntityFolder),
}

var comparisonOperators = []string{"GT", "GTEQ", "LT", "LTEQ", "EQ"}

var dateUnits = []string{"DAY", "WEEK", "MONTH", "YEAR"}

// catalogue is the standard flag set. Grouped by the entity kinds that
// typically carry them, though nothing stops a detector attaching, say, a
// value-set flag to a criterion when the document warrants it.
var catalogue = []Definition{
	// Identity and provenance.
	{Name: FlagEntityType, Description: "Kind of entity", Required: true, Domain: entityTypes},
	{Name: FlagXMLTagName, Description: "Raw source tag including any namespace prefix", Validator: isNonEmptyString},
	{Name: "source_document", Description: "Name of the document the entity came from", Validator: isNonEmptyString},
	{Name: "creation_time", Description: "Document creation timestamp as written in the source", Validator: isNonEmptyString},
	{Name: "author_name", Description: "Document author display name", Validator: isNonEmptyString},
	{Name: "author_system", Description: "System that produced the document", Validator: isNonEmptyString},
	{Name: "document_version", Description: "Version attribute of the source document", Validator: isNonEmptyString},
	{Name: "has_description", Description: "Entity carries a non-empty description", Validator: isBool},
	{Name: FlagIsLibraryItem, Description: "Entity is a shared library item rather than inline content", Validator: isBool},
	{Name: "library_item_guid", Description: "GUID of the referenced library item", Validator: isGUID},

	// Folder placement.
	{Name: "parent_guid", Description: "GUID of the enclosing entity", Validator: isGUID},
	{Name: "folder_guid", Description: "GUID of the containing folder", Validator: isGUID},
	{Name: "in_folder", Description: "Entity resolved to a known folder", Validator: isBool},
	{Name: "folder_name", Description: "Display name of the containing folder", Validator: isNonEmptyString},
	{Name: "folder_depth", Description: "Nesting depth of the containing folder", Validator: isCount},
	{Name: "parent_folder_guid", Description: "GUID of the folder's parent folder", Validator: isGUID},
	{Name: "is_root_folder", Description: "Folder has no parent", Validator: isBool},
	{Name: "report_count", Description: "Number of reports held by a folder", Validator: isCount},

	// Search structure.
	{Name: "search_type", Description: "Search payload kind", Domain: []string{"population"}},
	{Name: "search_identifier", Description: "GUID identifying the search", Validator: isGUID},
	{Name: "has_population", Description: "Search carries a population payload", Validator: isBool},
	{Name: "population_guid", Description: "GUID of the population the report runs over", Validator: isGUID},
	{Name: "parent_search_guid", Description: "GUID of the search this one narrows", Validator: isGUID},
	{Name: "is_parent_search", Description: "Other searches narrow this one", Validator: isBool},
	{Name: "is_child_search", Description: "Search narrows another search", Validator: isBool},
	{Name: FlagIsMemberSearch, Description: "Value set membership is defined by a search", Validator: isBool},
	{Name: FlagMemberSearchRef, Description: "GUID of the membership-defining search", Validator: isGUID},
	{Name: "criteria_group_count", Description: "Number of criteria groups in the search", Validator: isCount},
	{Name: "group_operator", Description: "Boolean operator joining a group's criteria", Domain: []string{"AND", "OR"}},
	{Name: "action_if_true", Description: "Group outcome when its criteria match", Domain: []string{"SELECT", "REJECT", "NEXT"}},
	{Name: "action_if_false", Description: "Group outcome when its criteria do not match", Domain: []string{"SELECT", "REJECT", "NEXT"}},

	// Report structure.
	{Name: "report_subtype", Description: "Which report payload the entity carries", Domain: []string{"list", "audit", "aggregate"}},
	{Name: "column_group_count", Description: "Number of column groups in a list report", Validator: isCount},
	{Name: "column_count", Description: "Number of columns in a column group", Validator: isCount},
	{Name: "logical_table", Description: "Logical table a column group reads from", Validator: isNonEmptyString},
	{Name: "table_display_name", Description: "Display name of the logical table", Validator: isNonEmptyString},
	{Name: "custom_aggregate", Description: "Audit report aggregates a custom population set", Validator: isBool},
	{Name: "population_count", Description: "Number of populations referenced by the report", Validator: isCount},
	{Name: FlagMultiPopulation, Description: "Report references more than one population", Validator: isBool},
	{Name: "aggregate_statistic", Description: "Statistic an aggregate report computes", Domain: []string{"count", "sum", "average", "min", "max"}},
	{Name: "aggregate_source", Description: "Column or table the statistic is computed over", Validator: isNonEmptyString},
	{Name: "row_grouping", Description: "Aggregate report row grouping reference", Validator: isNonEmptyString},
	{Name: "column_grouping", Description: "Aggregate report column grouping reference", Validator: isNonEmptyString},
	{Name: "sort_column", Description: "Column a list report is sorted by", Validator: isNonEmptyString},
	{Name: "sort_direction", Description: "List report sort direction", Domain: []string{"ASC", "DESC"}},

	// Criterion structure.
	{Name: "criterion_table", Description: "Record table the criterion filters", Validator: isNonEmptyString},
	{Name: "negation", Description: "Criterion selects records that do not match", Validator: isBool},
	{Name: "in_not_in", Description: "Set membership direction of the value filter", Domain: []string{"IN", "NOTIN"}},
	{Name: "has_filter", Description: "Criterion carries at least one filter attribute", Validator: isBool},
	{Name: "filter_attribute_count", Description: "Number of filter attributes on the criterion", Validator: isCount},
	{Name: "column_value_count", Description: "Number of column value filters on the criterion", Validator: isCount},
	{Name: "column_name", Description: "Column a value filter applies to", Validator: isNonEmptyString},
	{Name: FlagHasRestriction, Description: "Criterion restricts matches after filtering", Validator: isBool},
	{Name: "restriction_count", Description: "Number of records a restriction keeps", Validator: isPositive},
	{Name: "restriction_direction", Description: "Order applied before a restriction truncates", Domain: []string{"ASC", "DESC"}},
	{Name: "restriction_columns", Description: "Columns a restriction orders by", Validator: isNonEmptyString},
	{Name: "conditional_restriction", Description: "Restriction applies only when a test passes", Validator: isBool},
	{Name: "has_test_attribute", Description: "Restriction carries a test attribute", Validator: isBool},
	{Name: FlagWrapperCriterion, Description: "Criterion wraps a nested criteria group", Validator: isBool},
	{Name: "base_group_count", Description: "Number of nested base criteria groups merged in", Validator: isCount},
	{Name: "merged_from_groups", Description: "Criterion content was merged up from nested groups", Validator: isBool},
	{Name: "exception_criterion", Description: "Criterion is an exception to its group", Validator: isBool},

	// Linked criteria and relationships.
	{Name: "has_linked_criterion", Description: "Criterion constrains records through a linked criterion", Validator: isBool},
	{Name: "linked_table", Description: "Record table the linked criterion filters", Validator: isNonEmptyString},
	{Name: "relationship_parent_column", Description: "Parent-side column of the link relationship", Validator: isNonEmptyString},
	{Name: "relationship_child_column", Description: "Child-side column of the link relationship", Validator: isNonEmptyString},
	{Name: "temporal_operator", Description: "Comparison applied between linked columns", Domain: comparisonOperators},
	{Name: "temporal_unit", Description: "Unit of the temporal comparison window", Domain: dateUnits},
	{Name: "temporal_value", Description: "Magnitude of the temporal comparison window", Validator: isNonEmptyString},

	// Date filtering.
	{Name: FlagDateFilter, Description: "Criterion filters on a date column", Validator: isBool},
	{Name: "date_column", Description: "Date column the filter applies to", Validator: isNonEmptyString},
	{Name: "date_unit", Description: "Unit of a relative date offset", Domain: dateUnits},
	{Name: "relative_date", Description: "Date filter is relative to the run date", Validator: isBool},
	{Name: "range_from_operator", Description: "Comparison at the lower bound of a date range", Domain: comparisonOperators},
	{Name: "range_to_operator", Description: "Comparison at the upper bound of a date range", Domain: comparisonOperators},
	{Name: "range_from_value", Description: "Lower bound of a date range as written", Validator: isNonEmptyString},
	{Name: "range_to_value", Description: "Upper bound of a date range as written", Validator: isNonEmptyString},

	// Value sets and codes.
	{Name: "value_set_guid", Description: "GUID identifying the value set", Validator: isGUID},
	{Name: FlagCodeSystem, Description: "Coding scheme of the value set", Domain: eq.KnownCodeSystems},
	{Name: "code_count", Description: "Number of codes in the value set", Validator: isCount},
	{Name: FlagIsRefset, Description: "Value set is a true reference set", Validator: isBool},
	{Name: FlagIsPseudoRefset, Description: "Value set masquerades as a reference set", Validator: isBool},
	{Name: FlagIsPseudoMember, Description: "Code participates through a pseudo reference set", Validator: isBool},
	{Name: "pseudo_refset_guid", Description: "GUID of the masquerading container", Validator: isGUID},
	{Name: FlagIncludeChildren, Description: "Code includes its hierarchical descendants", Validator: isBool},
	{Name: FlagIsEMISInternal, Description: "Value set uses the vendor-internal scheme", Validator: isBool},
	{Name: "is_inactive_code", Description: "Code is marked inactive in the source", Validator: isBool},
	{Name: "has_display_name", Description: "Code carries a display name", Validator: isBool},
	{Name: "mixed_code_systems", Description: "Value set mixes more than one coding scheme", Validator: isBool},
	{Name: "inline_value_set", Description: "Value set is defined inline in a criterion", Validator: isBool},
	{Name: "library_value_set", Description: "Value set is referenced from a shared library", Validator: isBool},

	// Detector bookkeeping.
	{Name: "detected_patterns", Description: "Comma-joined pattern identifiers that matched", Validator: isNonEmptyString},
	{Name: "pattern_count", Description: "Number of patterns that matched the entity", Validator: isCount},
	{Name: "confidence", Description: "Lowest confidence among matched patterns", Domain: []string{"low", "medium", "high"}},
	{Name: "dependency_count", Description: "Number of entities this one depends on", Validator: isCount},
	{Name: "child_count", Description: "Number of child entities", Validator: isCount},
	{Name: "has_warnings", Description: "Entity accumulated parse warnings", Validator: isBool},
	{Name: "warning_count", Description: "Number of warnings attributed to the entity", Validator: isCount},
}
