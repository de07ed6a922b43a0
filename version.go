package enquiry

// Version is the library version.
const Version = "0.3.0"

// CodeSystem names the coding schemes the dialect is known to emit.
// The classifier and parsers treat unknown schemes as opaque strings; this
// list backs the code_system flag domain and the terminology exporter.
const (
	// CodeSystemSNOMED is the SNOMED CT concept scheme.
	CodeSystemSNOMED = "SNOMED_CONCEPT"
	// CodeSystemEMISInternal is the vendor-internal scheme used for
	// administrative and structural codes.
	CodeSystemEMISInternal = "EMISINTERNAL"
	// CodeSystemRead2 is the Read v2 scheme found in legacy documents.
	CodeSystemRead2 = "READ2"
	// CodeSystemCTV3 is the Clinical Terms Version 3 scheme.
	CodeSystemCTV3 = "CTV3"
	// CodeSystemLocal marks practice-local codes.
	CodeSystemLocal = "LOCAL"
)

// KnownCodeSystems lists the recognized coding schemes.
var KnownCodeSystems = []string{
	CodeSystemSNOMED,
	CodeSystemEMISInternal,
	CodeSystemRead2,
	CodeSystemCTV3,
	CodeSystemLocal,
}

// IsKnownCodeSystem reports whether scheme is one of the recognized schemes.
func IsKnownCodeSystem(scheme string) bool {
	for _, s := range KnownCodeSystems {
		if s == scheme {
			return true
		}
	}
	return false
}
