package enquiry

import "sync"

// ParseResult contains everything produced by parsing one enquiry document:
// the parsed entities in discovery order, the deduplicated code store, the
// folder tree, and any recovered warnings.
//
// A ParseResult is exclusively owned by the Parse call that created it.
type ParseResult struct {
	// Entities are all parsed entities, ordered by discovery.
	Entities []*Entity `json:"entities"`

	// Folders are the folder entities, ordered by discovery.
	Folders []*Entity `json:"folders,omitempty"`

	// Codes is the per-document deduplicating code store.
	Codes *CodeStore `json:"-"`

	// Warnings are non-fatal, entity-scoped parse problems.
	Warnings []Warning `json:"warnings,omitempty"`

	// Metadata holds shared per-document fields (creation time, author).
	Metadata DocumentMetadata `json:"metadata"`

	// PatternResults maps entity ID to the raw detector results observed for
	// that entity. Populated only when WithKeepPatternResults is set.
	PatternResults map[string][]PatternObservation `json:"patternResults,omitempty"`

	// mu protects concurrent warning appends
	mu sync.Mutex

	index map[string]*Entity
}

// PatternObservation is a retained copy of one detector hit, kept on the
// result when raw plugin output is requested.
type PatternObservation struct {
	PatternID   string         `json:"patternId"`
	Description string         `json:"description,omitempty"`
	Flags       map[string]any `json:"flags,omitempty"`
	Confidence  string         `json:"confidence"`
	Notes       string         `json:"notes,omitempty"`
}

// NewParseResult creates an empty result with a fresh code store.
func NewParseResult() *ParseResult {
	return &ParseResult{
		Entities: make([]*Entity, 0, 16),
		Codes:    NewCodeStore(),
		index:    make(map[string]*Entity, 16),
	}
}

// AddEntity appends an entity in discovery order and indexes it by ID.
func (r *ParseResult) AddEntity(e *Entity) {
	if e == nil {
		return
	}
	r.Entities = append(r.Entities, e)
	if e.ID != "" {
		r.index[e.ID] = e
	}
}

// AddFolder appends a folder entity and indexes it by ID.
func (r *ParseResult) AddFolder(e *Entity) {
	if e == nil {
		return
	}
	r.Folders = append(r.Folders, e)
	if e.ID != "" {
		r.index[e.ID] = e
	}
}

// Entity returns a parsed entity (or folder) by identifier.
func (r *ParseResult) Entity(id string) (*Entity, bool) {
	e, ok := r.index[id]
	return e, ok
}

// AddWarning appends a warning. Safe for concurrent use.
func (r *ParseResult) AddWarning(w Warning) {
	r.mu.Lock()
	r.Warnings = append(r.Warnings, w)
	r.mu.Unlock()
}

// WarningCount returns the total number of warnings.
func (r *ParseResult) WarningCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Warnings)
}

// ErrorCount returns the number of error-severity warnings.
func (r *ParseResult) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, w := range r.Warnings {
		if w.IsError() {
			count++
		}
	}
	return count
}

// WarningsFor returns the warnings scoped to one entity.
func (r *ParseResult) WarningsFor(entityID string) []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Warning
	for _, w := range r.Warnings {
		if w.EntityID == entityID {
			out = append(out, w)
		}
	}
	return out
}

// EntitiesOfType returns the entities with the given type tag, in discovery
// order.
func (r *ParseResult) EntitiesOfType(t EntityType) []*Entity {
	var out []*Entity
	for _, e := range r.Entities {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
