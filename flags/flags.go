// Package flags is the single source of truth for what entity metadata is
// legal. Every flag a parser or pattern detector may attach to an entity is
// declared here with an optional value domain or validator; anything else is
// dropped during validation.
package flags

// Definition describes one named metadata flag.
type Definition struct {
	// Name is the flag key as it appears in entity flag maps.
	Name string

	// Description documents what the flag means.
	Description string

	// Required marks flags every entity of the relevant kind should carry.
	// Validation does not reject an absent required flag (see the
	// MissingRequired helper); it only rejects a present flag with an
	// invalid value.
	Required bool

	// Domain enumerates the legal values for string-valued flags. Nil means
	// no domain restriction.
	Domain []string

	// Validator checks non-string values (booleans, counts). Nil means any
	// value passes once the domain check (if any) has.
	Validator func(any) bool
}

// allows reports whether value is legal under this definition.
func (d *Definition) allows(value any) (bool, string) {
	if len(d.Domain) > 0 {
		s, ok := value.(string)
		if !ok {
			return false, "domain flag requires a string value"
		}
		found := false
		for _, legal := range d.Domain {
			if s == legal {
				found = true
				break
			}
		}
		if !found {
			return false, "value outside flag domain"
		}
	}
	if d.Validator != nil && !d.Validator(value) {
		return false, "value rejected by flag validator"
	}
	return true, ""
}

// Common validator functions for the catalogue.

// isBool accepts only boolean values.
func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// isCount accepts non-negative integers.
func isCount(v any) bool {
	n, ok := v.(int)
	return ok && n >= 0
}

// isPositive accepts integers greater than zero.
func isPositive(v any) bool {
	n, ok := v.(int)
	return ok && n > 0
}

// isNonEmptyString accepts non-empty strings.
func isNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// isGUID accepts identifier strings: non-empty and free of whitespace. The
// dialect is not consistent about GUID formatting, so the check is
// deliberately loose.
func isGUID(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return false
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			return false
		}
	}
	return true
}
