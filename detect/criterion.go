package detect

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/clinsearch/enquiry/pattern"
	"github.com/clinsearch/enquiry/xmlutil"
)

// findRestrictions collects a criterion's restriction blocks from both legal
// positions: as a direct child of the criterion and nested inside a
// filterAttribute. The two forms are equivalent in the dialect.
func findRestrictions(criterion *etree.Element) []*etree.Element {
	restrictions := xmlutil.Children(criterion, "restriction")
	for _, fa := range xmlutil.Children(criterion, "filterAttribute") {
		restrictions = append(restrictions, xmlutil.Children(fa, "restriction")...)
	}
	return xmlutil.DedupeByIdentity(restrictions)
}

// detectNestedWrapper matches a criterion whose filtering logic lives inside
// baseCriteriaGroup sub-blocks instead of at the top level.
func detectNestedWrapper(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "criterion" {
		return nil
	}
	groups := xmlutil.Children(ctx.Element, "baseCriteriaGroup")
	if len(groups) == 0 {
		return nil
	}
	return &pattern.Result{
		Description: "criterion wraps its logic in nested criteria groups",
		Flags: map[string]any{
			"wrapper_criterion": true,
			"base_group_count":  len(groups),
		},
		Confidence: pattern.ConfidenceHigh,
	}
}

// detectRestrictionOrdered matches a criterion restricted to the first or
// last N records under a column ordering.
func detectRestrictionOrdered(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "criterion" {
		return nil
	}
	for _, restriction := range findRestrictions(ctx.Element) {
		order := xmlutil.Child(restriction, "columnOrder")
		if order == nil {
			continue
		}
		flags := map[string]any{
			"has_restriction": true,
		}
		if dir := xmlutil.Text(order, "direction"); dir == "ASC" || dir == "DESC" {
			flags["restriction_direction"] = dir
		}
		if cols := xmlutil.Text(order, "columns"); cols != "" {
			flags["restriction_columns"] = cols
		}
		if n, err := strconv.Atoi(xmlutil.Text(restriction, "recordCount")); err == nil && n > 0 {
			flags["restriction_count"] = n
		}
		return &pattern.Result{
			Description: "criterion keeps an ordered subset of matching records",
			Flags:       flags,
			Confidence:  pattern.ConfidenceHigh,
		}
	}
	return nil
}

// detectConditionalRestriction matches a restriction that only applies when
// its test attribute passes.
func detectConditionalRestriction(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "criterion" {
		return nil
	}
	for _, restriction := range findRestrictions(ctx.Element) {
		if xmlutil.Child(restriction, "testAttribute") != nil {
			return &pattern.Result{
				Description: "restriction applies conditionally on a test attribute",
				Flags: map[string]any{
					"conditional_restriction": true,
					"has_test_attribute":      true,
				},
				Confidence: pattern.ConfidenceHigh,
			}
		}
	}
	return nil
}

// detectLinkedCriterion matches a criterion constrained through a related
// record in another table.
func detectLinkedCriterion(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "criterion" {
		return nil
	}
	linked := xmlutil.Child(ctx.Element, "linkedCriterion")
	if linked == nil {
		return nil
	}
	flags := map[string]any{
		"has_linked_criterion": true,
	}
	if inner := xmlutil.Child(linked, "criterion"); inner != nil {
		if table := xmlutil.Text(inner, "table"); table != "" {
			flags["linked_table"] = table
		}
	}
	return &pattern.Result{
		Description: "criterion evaluates against a related record",
		Flags:       flags,
		Confidence:  pattern.ConfidenceHigh,
	}
}

// detectMemberSearch matches a criterion whose membership is defined by
// another search's population.
func detectMemberSearch(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "criterion" {
		return nil
	}
	member := xmlutil.Child(ctx.Element, "memberSearchIdentifier")
	if member == nil {
		return nil
	}
	flags := map[string]any{
		"is_member_search": true,
	}
	guid := xmlutil.Text(member, "reportGuid")
	if guid == "" {
		guid, _ = xmlutil.AttrOf(member, "reportGuid")
	}
	if guid != "" {
		flags["member_search_ref"] = guid
	}
	return &pattern.Result{
		Description: "criterion membership is defined by another search",
		Flags:       flags,
		Confidence:  pattern.ConfidenceHigh,
	}
}

// detectDateFilter matches a criterion filtering on a date column, either by
// column name or by a range value carrying relative-date units.
func detectDateFilter(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "criterion" {
		return nil
	}
	for _, fa := range xmlutil.Children(ctx.Element, "filterAttribute") {
		for _, cv := range xmlutil.Children(fa, "columnValue") {
			flags := map[string]any{}
			column := xmlutil.Text(cv, "column")
			if strings.Contains(strings.ToUpper(column), "DATE") {
				flags["date_filter"] = true
				flags["date_column"] = column
			}
			if rv := xmlutil.Child(cv, "rangeValue"); rv != nil {
				for _, name := range []string{"rangeFrom", "rangeTo"} {
					bound := xmlutil.Child(rv, name)
					if bound == nil {
						continue
					}
					if unit := xmlutil.Text(bound, "unit"); unit != "" {
						flags["date_filter"] = true
						flags["relative_date"] = true
						flags["date_unit"] = unit
					}
				}
			}
			if len(flags) > 0 {
				return &pattern.Result{
					Description: "criterion filters on a date column",
					Flags:       flags,
					Confidence:  pattern.ConfidenceMedium,
				}
			}
		}
	}
	return nil
}
