package detect

import (
	"github.com/clinsearch/enquiry/pattern"
	"github.com/clinsearch/enquiry/xmlutil"
)

// detectMultiPopulation matches an audit report that aggregates more than
// one population search.
func detectMultiPopulation(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "report" {
		return nil
	}
	audit := xmlutil.Child(ctx.Element, "auditReport")
	if audit == nil {
		return nil
	}
	populations := xmlutil.Children(audit, "population")
	if len(populations) < 2 {
		return nil
	}
	return &pattern.Result{
		Description: "audit report aggregates several population searches",
		Flags: map[string]any{
			"multi_population": true,
			"population_count": len(populations),
		},
		Confidence: pattern.ConfidenceHigh,
	}
}
