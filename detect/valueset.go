package detect

import (
	"strings"

	"github.com/beevik/etree"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/pattern"
	"github.com/clinsearch/enquiry/xmlutil"
)

// valueEntries returns the value entries of a valueSet element, or nil when
// the element is not a value set.
func valueEntries(el *etree.Element) []*etree.Element {
	if el == nil || el.Tag != "valueSet" {
		return nil
	}
	values := xmlutil.Child(el, "values")
	if values == nil {
		return nil
	}
	return xmlutil.Children(values, "value")
}

// detectRefset matches a value set containing at least one entry explicitly
// marked as a reference set.
func detectRefset(ctx pattern.Context) *pattern.Result {
	entries := valueEntries(ctx.Element)
	if entries == nil {
		return nil
	}
	for _, entry := range entries {
		if xmlutil.BoolText(entry, "isRefset") {
			return &pattern.Result{
				Description: "value set contains an explicit reference set entry",
				Flags: map[string]any{
					"is_refset": true,
				},
				Confidence: pattern.ConfidenceHigh,
			}
		}
	}
	return nil
}

// detectPseudoRefset matches a vendor-internal value set whose entries carry
// container-style code values (a leading caret) without any entry being a
// true reference set. Such sets behave like reference sets downstream but
// have no native support.
func detectPseudoRefset(ctx pattern.Context) *pattern.Result {
	entries := valueEntries(ctx.Element)
	if entries == nil {
		return nil
	}
	if xmlutil.Text(ctx.Element, "codeSystem") != eq.CodeSystemEMISInternal {
		return nil
	}
	caret := false
	for _, entry := range entries {
		if xmlutil.BoolText(entry, "isRefset") {
			return nil
		}
		if strings.HasPrefix(xmlutil.Text(entry, "value"), "^") {
			caret = true
		}
	}
	if !caret {
		return nil
	}
	flags := map[string]any{
		"is_pseudo_refset": true,
	}
	if guid := xmlutil.Text(ctx.Element, "id"); guid != "" {
		flags["pseudo_refset_guid"] = guid
	}
	return &pattern.Result{
		Description: "vendor-internal value set behaves as a reference set without native support",
		Flags:       flags,
		Confidence:  pattern.ConfidenceMedium,
	}
}

// detectPseudoRefsetMember matches an individual code entry sitting inside a
// container already judged to be a pseudo reference set. The membership
// signal comes from the inherited container context, never from the entry
// itself.
func detectPseudoRefsetMember(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "value" {
		return nil
	}
	if ctx.Container == nil || ctx.Container.Kind != ContainerPseudoRefset {
		return nil
	}
	flags := map[string]any{
		"is_pseudo_member": true,
	}
	if ctx.Container.ValueSetGUID != "" {
		flags["pseudo_refset_guid"] = ctx.Container.ValueSetGUID
	}
	return &pattern.Result{
		Description: "code participates through a pseudo reference set container",
		Flags:       flags,
		Confidence:  pattern.ConfidenceHigh,
	}
}

// detectEMISInternal matches a value set coded in the vendor-internal scheme.
func detectEMISInternal(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "valueSet" {
		return nil
	}
	if xmlutil.Text(ctx.Element, "codeSystem") != eq.CodeSystemEMISInternal {
		return nil
	}
	return &pattern.Result{
		Description: "value set uses the vendor-internal coding scheme",
		Flags: map[string]any{
			"is_emis_internal": true,
			"code_system":      eq.CodeSystemEMISInternal,
		},
		Confidence: pattern.ConfidenceHigh,
	}
}

// detectLibraryItem matches a value set whose content is a shared library
// reference rather than inline codes.
func detectLibraryItem(ctx pattern.Context) *pattern.Result {
	if ctx.Element == nil || ctx.Element.Tag != "valueSet" {
		return nil
	}
	values := xmlutil.Child(ctx.Element, "values")
	if values == nil {
		return nil
	}
	item := xmlutil.Child(values, "libraryItem")
	if item == nil {
		return nil
	}
	flags := map[string]any{
		"is_library_item":   true,
		"library_value_set": true,
	}
	if guid := strings.TrimSpace(item.Text()); guid != "" {
		flags["library_item_guid"] = guid
	}
	return &pattern.Result{
		Description: "value set content is stored in a shared library",
		Flags:       flags,
		Confidence:  pattern.ConfidenceHigh,
	}
}
