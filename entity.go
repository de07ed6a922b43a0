package enquiry

// EntityType tags the structural concept a parsed entity represents.
type EntityType string

const (
	// EntitySearch is a population search.
	EntitySearch EntityType = "search"
	// EntityListReport is a list report.
	EntityListReport EntityType = "list-report"
	// EntityAuditReport is an audit report.
	EntityAuditReport EntityType = "audit-report"
	// EntityAggregateReport is an aggregate report.
	EntityAggregateReport EntityType = "aggregate-report"
	// EntityCriterion is one filterable condition within a search or report.
	EntityCriterion EntityType = "criterion"
	// EntityLinkedCriterion is a criterion evaluated against a related record.
	EntityLinkedCriterion EntityType = "linked-criterion"
	// EntityValueSet is a named collection of clinical codes.
	EntityValueSet EntityType = "value-set"
	// EntityColumnGroup is one column group of a list report.
	EntityColumnGroup EntityType = "column-group"
	// EntityFolder is a report folder.
	EntityFolder EntityType = "folder"
)

// Entity is the generic parsed unit: a search, a report, a criterion, a
// linked criterion, a value set, a column group, or a folder.
//
// Parent and dependency links are identifier strings, never pointers: a
// search can be referenced by a report that chains back to it, and string
// identifiers resolved after all entities exist sidestep ordering and cycle
// issues entirely.
type Entity struct {
	// ID uniquely identifies the entity within one document.
	ID string `json:"id"`

	// Type tags the structural concept.
	Type EntityType `json:"type"`

	// Name is the display name, if the source carried one.
	Name string `json:"name,omitempty"`

	// Description is free text from the source element.
	Description string `json:"description,omitempty"`

	// Flags is the validated metadata map. Every key exists in the flag
	// registry and satisfies its domain or validator; downstream consumers
	// rely on this and do not re-validate.
	Flags map[string]any `json:"flags,omitempty"`

	// ParentID is the identifier of the containing entity, if any.
	ParentID string `json:"parentId,omitempty"`

	// ChildIDs are identifiers of nested entities, in discovery order.
	ChildIDs []string `json:"childIds,omitempty"`

	// DependencyIDs reference entities this one depends on (for example a
	// report's population searches), resolved after the full parse.
	DependencyIDs []string `json:"dependencyIds,omitempty"`
}

// AddChild appends a child identifier.
func (e *Entity) AddChild(id string) {
	e.ChildIDs = append(e.ChildIDs, id)
}

// AddDependency appends a dependency identifier, skipping duplicates.
func (e *Entity) AddDependency(id string) {
	for _, d := range e.DependencyIDs {
		if d == id {
			return
		}
	}
	e.DependencyIDs = append(e.DependencyIDs, id)
}

// Flag returns a flag value and whether it is present.
func (e *Entity) Flag(name string) (any, bool) {
	v, ok := e.Flags[name]
	return v, ok
}

// BoolFlag returns a boolean flag, false if absent or not a bool.
func (e *Entity) BoolFlag(name string) bool {
	v, ok := e.Flags[name]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// DocumentMetadata holds per-document fields extracted once during
// classification and shared with all node parsers.
type DocumentMetadata struct {
	// CreationTime is the raw creation timestamp from the document.
	CreationTime string `json:"creationTime,omitempty"`

	// AuthorName is the document author, if present.
	AuthorName string `json:"authorName,omitempty"`

	// Source is the source name supplied for diagnostics.
	Source string `json:"source,omitempty"`
}
