// Package xmlutil provides namespace-tolerant element and attribute lookup
// over etree documents.
//
// Enquiry documents mix namespaced and bare element names freely, sometimes
// within one subtree. Every lookup here applies the same order: a bare
// (un-prefixed) match is preferred, then any prefixed element with the same
// local name. That order is the contract; no caller may probe prefixes
// itself.
//
// All functions are pure: they never mutate the tree.
package xmlutil

import (
	"strings"

	"github.com/beevik/etree"
)

// Child returns the first child of parent whose local tag name is name,
// preferring an un-prefixed child over a prefixed one. Returns nil when
// parent is nil or no child matches.
func Child(parent *etree.Element, name string) *etree.Element {
	if parent == nil {
		return nil
	}
	var prefixed *etree.Element
	for _, c := range parent.ChildElements() {
		if c.Tag != name {
			continue
		}
		if c.Space == "" {
			return c
		}
		if prefixed == nil {
			prefixed = c
		}
	}
	return prefixed
}

// Children returns every child of parent with the given local tag name, in
// document order, regardless of prefix.
func Children(parent *etree.Element, name string) []*etree.Element {
	if parent == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range parent.ChildElements() {
		if c.Tag == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildOf returns the first child matching any of the candidate local names,
// trying the names in order. Used for vendor synonyms where the same logical
// element has drifted across format versions.
func ChildOf(parent *etree.Element, names ...string) *etree.Element {
	for _, name := range names {
		if c := Child(parent, name); c != nil {
			return c
		}
	}
	return nil
}

// ChildrenOf returns the children matching the first candidate name that has
// any matches at all.
func ChildrenOf(parent *etree.Element, names ...string) []*etree.Element {
	for _, name := range names {
		if cs := Children(parent, name); len(cs) > 0 {
			return cs
		}
	}
	return nil
}

// AttrOf returns the value of the first attribute matching any of the
// candidate names in order, preferring an un-prefixed attribute. The second
// return reports whether any candidate was present.
func AttrOf(el *etree.Element, names ...string) (string, bool) {
	if el == nil {
		return "", false
	}
	for _, name := range names {
		found := false
		var value string
		for _, a := range el.Attr {
			if a.Key != name {
				continue
			}
			if a.Space == "" {
				return a.Value, true
			}
			if !found {
				value = a.Value
				found = true
			}
		}
		if found {
			return value, true
		}
	}
	return "", false
}

// Text returns the trimmed text of the first child with the given local
// name, or "" when absent.
func Text(parent *etree.Element, name string) string {
	c := Child(parent, name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

// TextOf returns the trimmed text of the first child matching any candidate
// name, or "".
func TextOf(parent *etree.Element, names ...string) string {
	c := ChildOf(parent, names...)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

// BoolText reads a child element's text as a vendor boolean. The dialect
// writes "true"/"false" but "1"/"0" appear in older exports.
func BoolText(parent *etree.Element, name string) bool {
	switch strings.ToLower(Text(parent, name)) {
	case "true", "1":
		return true
	default:
		return false
	}
}

// DedupeByIdentity removes repeated elements from els by pointer identity,
// preserving first-occurrence order. Two structurally identical elements are
// not the same logical node; only the same tree node is a duplicate.
func DedupeByIdentity(els []*etree.Element) []*etree.Element {
	if len(els) < 2 {
		return els
	}
	seen := make(map[*etree.Element]struct{}, len(els))
	out := els[:0:0]
	for _, el := range els {
		if el == nil {
			continue
		}
		if _, ok := seen[el]; ok {
			continue
		}
		seen[el] = struct{}{}
		out = append(out, el)
	}
	return out
}
