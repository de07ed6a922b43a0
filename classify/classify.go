// Package classify buckets the top-level elements of an enquiry document by
// logical type in a single pass over the tree.
//
// The dialect allows the same report element to be discoverable through more
// than one route (as a direct child of the document root and again through a
// folder descent), so classification tracks visited element identities and
// records each element in exactly one bucket.
package classify

import (
	"github.com/beevik/etree"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/document"
	"github.com/clinsearch/enquiry/xmlutil"
)

// Buckets groups classified elements by logical type. A given element
// identity appears in at most one bucket.
type Buckets struct {
	Searches         []*etree.Element
	ListReports      []*etree.Element
	AuditReports     []*etree.Element
	AggregateReports []*etree.Element
	Folders          []*etree.Element

	// Metadata is shared per-document data (creation time, author)
	// extracted once during classification so node parsers never
	// re-extract it per entity.
	Metadata eq.DocumentMetadata
}

type classifier struct {
	buckets *Buckets
	visited map[*etree.Element]bool
}

// Classify walks doc once and buckets every report and folder element.
//
// Report subtype precedence is fixed: a listReport payload beats auditReport,
// which beats aggregateReport, which beats population (a search). A report
// carrying none of the four payloads is ambiguous and is left unbucketed.
func Classify(doc *document.ParsedDocument) *Buckets {
	b := &Buckets{}
	if doc != nil {
		b.Metadata.Source = doc.Source
	}
	if doc == nil || doc.Root == nil {
		return b
	}

	c := &classifier{
		buckets: b,
		visited: make(map[*etree.Element]bool),
	}

	// Direct children first, then the full descent. Everything found on the
	// first route is found again on the second; the visited set keeps each
	// identity in one bucket.
	for _, el := range doc.Root.ChildElements() {
		c.consider(el)
	}
	c.walk(doc.Root)
	return b
}

func (c *classifier) walk(el *etree.Element) {
	for _, child := range el.ChildElements() {
		c.consider(child)
		c.walk(child)
	}
}

func (c *classifier) consider(el *etree.Element) {
	switch el.Tag {
	case "report":
		c.classifyReport(el)
	case "reportFolder":
		if !c.visited[el] {
			c.visited[el] = true
			c.buckets.Folders = append(c.buckets.Folders, el)
		}
	}
}

func (c *classifier) classifyReport(el *etree.Element) {
	if c.visited[el] {
		return
	}
	c.visited[el] = true

	c.captureMetadata(el)

	switch {
	case xmlutil.Child(el, "listReport") != nil:
		c.buckets.ListReports = append(c.buckets.ListReports, el)
	case xmlutil.Child(el, "auditReport") != nil:
		c.buckets.AuditReports = append(c.buckets.AuditReports, el)
	case xmlutil.Child(el, "aggregateReport") != nil:
		c.buckets.AggregateReports = append(c.buckets.AggregateReports, el)
	case xmlutil.Child(el, "population") != nil:
		c.buckets.Searches = append(c.buckets.Searches, el)
	}
}

// captureMetadata fills document metadata from the first report that carries
// it. Later reports never overwrite an already-captured value.
func (c *classifier) captureMetadata(el *etree.Element) {
	if c.buckets.Metadata.CreationTime == "" {
		c.buckets.Metadata.CreationTime = xmlutil.Text(el, "creationTime")
	}
	if c.buckets.Metadata.AuthorName == "" {
		if author := xmlutil.Child(el, "author"); author != nil {
			c.buckets.Metadata.AuthorName = xmlutil.Text(author, "authorName")
		}
	}
}

// Len returns the total number of bucketed elements.
func (b *Buckets) Len() int {
	return len(b.Searches) + len(b.ListReports) + len(b.AuditReports) +
		len(b.AggregateReports) + len(b.Folders)
}
