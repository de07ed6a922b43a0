// Package document turns raw enquiry XML text into a parsed tree plus a
// discovered namespace map.
package document

import (
	"fmt"

	"github.com/beevik/etree"

	eq "github.com/clinsearch/enquiry"
)

// DefaultNamespaceKey is the map key under which the document's default
// namespace URI is always resolvable, whether or not the document declared
// one. Downstream code never special-cases "namespace absent".
const DefaultNamespaceKey = "default"

// ParsedDocument owns the root element and the resolved namespace map for
// one input file. It is immutable after construction.
type ParsedDocument struct {
	// Root is the document element.
	Root *etree.Element

	// Namespaces maps declared prefixes to namespace URIs. The
	// DefaultNamespaceKey entry is always present.
	Namespaces map[string]string

	// Source is the source name supplied for error attribution.
	Source string
}

// Load parses raw XML text. The source name is used only for diagnostics.
// Text that is not well-formed XML fails with eq.ErrMalformedDocument; that
// error is fatal and not retried. A well-formed document with an empty root
// is legal and parses to an empty result downstream.
func Load(xmlText, sourceName string) (*ParsedDocument, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlText); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", eq.ErrMalformedDocument, sourceName, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: %s: no document element", eq.ErrMalformedDocument, sourceName)
	}

	return &ParsedDocument{
		Root:       root,
		Namespaces: discoverNamespaces(root),
		Source:     sourceName,
	}, nil
}

// discoverNamespaces collects xmlns declarations from the whole tree.
// Declarations below the root matter because exports are known to introduce
// a prefix mid-subtree.
func discoverNamespaces(root *etree.Element) map[string]string {
	ns := make(map[string]string, 4)

	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, a := range el.Attr {
			switch {
			case a.Space == "" && a.Key == "xmlns":
				if _, ok := ns[DefaultNamespaceKey]; !ok {
					ns[DefaultNamespaceKey] = a.Value
				}
			case a.Space == "xmlns":
				if _, ok := ns[a.Key]; !ok {
					ns[a.Key] = a.Value
				}
			}
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(root)

	// The default entry is guaranteed, even for namespace-free documents.
	if _, ok := ns[DefaultNamespaceKey]; !ok {
		ns[DefaultNamespaceKey] = ""
	}
	return ns
}
