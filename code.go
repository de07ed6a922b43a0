package enquiry

// CodeKey is the deduplication identity of a clinical code: the same code
// value referenced from the same value set under the same code system is one
// logical code no matter how many searches or reports mention it.
type CodeKey struct {
	// CodeValue is the raw clinical code (for example a SNOMED concept id).
	CodeValue string `json:"codeValue"`

	// ValueSetGUID identifies the owning value set.
	ValueSetGUID string `json:"valueSetGuid"`

	// CodeSystem names the coding scheme (SNOMED_CONCEPT, EMISINTERNAL, ...).
	CodeSystem string `json:"codeSystem"`
}

// CodeData is the canonical payload captured on first sighting of a key.
// Later sightings of the same key never overwrite it: a less complete
// mention must not degrade an already-captured description.
type CodeData struct {
	// DisplayName is the human-readable name of the code.
	DisplayName string `json:"displayName,omitempty"`

	// IncludeChildren is true when the source asks for descendant codes too.
	IncludeChildren bool `json:"includeChildren,omitempty"`

	// IsRefset marks a true vendor-supported reference set code.
	IsRefset bool `json:"isRefset,omitempty"`

	// Inactive marks a code the source flagged as no longer in use.
	Inactive bool `json:"inactive,omitempty"`
}

// SourceReference names one place a code was seen: the owning entity and the
// container context within it (for example "search rule main criteria" or
// "report column group").
//
// MembershipFlags describe the code's role in this container only. They are
// computed at the point the reference is inserted, never copied from the
// container's own flag map: the same code can be a plain member in one
// context and a container-defining code in another.
type SourceReference struct {
	EntityID         string         `json:"entityId"`
	ContainerContext string         `json:"containerContext,omitempty"`
	ContainerType    string         `json:"containerType,omitempty"`
	MembershipFlags  map[string]any `json:"membershipFlags,omitempty"`
}

// CodeEntry is one deduplicated clinical code with full source attribution.
type CodeEntry struct {
	Key     CodeKey           `json:"key"`
	Data    CodeData          `json:"data"`
	Sources []SourceReference `json:"sources"`
}

// CodeStore owns every CodeEntry for one document. It is rebuilt per
// document and never merged across documents. Node parsers share one store
// per parse by design (the sharing is the deduplication mechanism), so the
// store is not safe for concurrent use.
type CodeStore struct {
	entries  map[CodeKey]*CodeEntry
	order    []CodeKey
	byEntity map[string][]CodeKey
}

// NewCodeStore creates an empty store.
func NewCodeStore() *CodeStore {
	return &CodeStore{
		entries:  make(map[CodeKey]*CodeEntry, 64),
		byEntity: make(map[string][]CodeKey, 16),
	}
}

// AddOrReference records a sighting of key. A new key creates an entry from
// data with ref as its first source; an existing key appends ref and leaves
// the canonical data untouched. Returns the entry and whether it was created.
func (s *CodeStore) AddOrReference(key CodeKey, data CodeData, ref SourceReference) (*CodeEntry, bool) {
	if e, ok := s.entries[key]; ok {
		e.Sources = append(e.Sources, ref)
		s.indexEntity(ref.EntityID, key)
		return e, false
	}

	e := &CodeEntry{
		Key:     key,
		Data:    data,
		Sources: []SourceReference{ref},
	}
	s.entries[key] = e
	s.order = append(s.order, key)
	s.indexEntity(ref.EntityID, key)
	return e, true
}

func (s *CodeStore) indexEntity(entityID string, key CodeKey) {
	if entityID == "" {
		return
	}
	for _, k := range s.byEntity[entityID] {
		if k == key {
			return
		}
	}
	s.byEntity[entityID] = append(s.byEntity[entityID], key)
}

// Get returns the entry for key, if any.
func (s *CodeStore) Get(key CodeKey) (*CodeEntry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// All returns every distinct entry in first-sighting order.
func (s *CodeStore) All() []*CodeEntry {
	out := make([]*CodeEntry, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.entries[k])
	}
	return out
}

// ForEntity returns the entries that carry at least one source reference to
// the given entity, in first-sighting order.
func (s *CodeStore) ForEntity(entityID string) []*CodeEntry {
	keys := s.byEntity[entityID]
	out := make([]*CodeEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.entries[k])
	}
	return out
}

// Len returns the number of distinct codes.
func (s *CodeStore) Len() int {
	return len(s.order)
}
