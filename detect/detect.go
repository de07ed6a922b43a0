// Package detect holds the built-in pattern detectors: one independent
// function per structural idiom the enquiry dialect is known to contain.
//
// Detectors are registered through RegisterAll in a fixed order, which makes
// flag-collision resolution (last write wins) deterministic across runs.
// Adding a new idiom means adding a detector here and its flag names to the
// flags catalogue in the same change; no other code path is touched.
package detect

import (
	"github.com/clinsearch/enquiry/pattern"
)

// Container kinds recognized by the container-driven detectors.
const (
	// ContainerPseudoRefset marks a context inherited from a value set
	// that masquerades as a reference set.
	ContainerPseudoRefset = "pseudo-refset"
)

// Detector pattern identifiers, in registration order.
const (
	IDRefset                 = "refset"
	IDPseudoRefset           = "pseudo-refset"
	IDPseudoRefsetMember     = "pseudo-refset-member"
	IDEMISInternal           = "emis-internal"
	IDLibraryItem            = "library-item"
	IDNestedWrapper          = "nested-wrapper"
	IDRestrictionOrdered     = "restriction-ordered"
	IDConditionalRestriction = "conditional-restriction"
	IDLinkedCriterion        = "linked-criterion"
	IDMemberSearch           = "member-search"
	IDDateFilter             = "date-filter"
	IDMultiPopulation        = "multi-population"
)

// RegisterAll installs every built-in detector on reg in the fixed order
// above. It panics, via Register, if any identifier is already taken.
func RegisterAll(reg *pattern.Registry) {
	reg.Register(IDRefset, detectRefset)
	reg.Register(IDPseudoRefset, detectPseudoRefset)
	reg.Register(IDPseudoRefsetMember, detectPseudoRefsetMember)
	reg.Register(IDEMISInternal, detectEMISInternal)
	reg.Register(IDLibraryItem, detectLibraryItem)
	reg.Register(IDNestedWrapper, detectNestedWrapper)
	reg.Register(IDRestrictionOrdered, detectRestrictionOrdered)
	reg.Register(IDConditionalRestriction, detectConditionalRestriction)
	reg.Register(IDLinkedCriterion, detectLinkedCriterion)
	reg.Register(IDMemberSearch, detectMemberSearch)
	reg.Register(IDDateFilter, detectDateFilter)
	reg.Register(IDMultiPopulation, detectMultiPopulation)
}
