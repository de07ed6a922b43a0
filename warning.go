package enquiry

import "errors"

// ErrMalformedDocument is returned when the input text is not well-formed XML.
// It is the only fatal error the parsing pipeline produces; everything else
// degrades to entity-scoped warnings on the result.
var ErrMalformedDocument = errors.New("malformed enquiry document")

// WarningSeverity represents the severity of a parse warning.
type WarningSeverity string

const (
	// SeverityError indicates an element that could not be parsed at all.
	SeverityError WarningSeverity = "error"
	// SeverityWarning indicates a recovered problem; parsing continued.
	SeverityWarning WarningSeverity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation WarningSeverity = "information"
)

// WarningType classifies what went wrong while parsing an element.
type WarningType string

const (
	// WarnTypeStructure indicates a structural problem in an element.
	WarnTypeStructure WarningType = "structure"
	// WarnTypeMissingValue indicates a required sub-element or attribute was absent.
	WarnTypeMissingValue WarningType = "missing-value"
	// WarnTypeInvalidValue indicates a value that could not be interpreted.
	WarnTypeInvalidValue WarningType = "invalid-value"
	// WarnTypeRestriction indicates a malformed restriction block.
	WarnTypeRestriction WarningType = "restriction"
	// WarnTypeValueSet indicates a malformed value set or code entry.
	WarnTypeValueSet WarningType = "value-set"
	// WarnTypeDetector indicates a pattern detector failed on an element.
	WarnTypeDetector WarningType = "detector"
	// WarnTypeReference indicates an unresolvable entity reference.
	WarnTypeReference WarningType = "reference"
)

// Warning represents a single recovered parse problem, attached to the
// nearest entity. A malformed top-level document is not a Warning; it fails
// the whole run with ErrMalformedDocument.
type Warning struct {
	// Severity of the warning
	Severity WarningSeverity `json:"severity"`

	// Code identifying the type of problem
	Code WarningType `json:"code"`

	// Diagnostics contains human-readable details
	Diagnostics string `json:"diagnostics,omitempty"`

	// EntityID is the identifier of the entity the warning is scoped to
	EntityID string `json:"entityId,omitempty"`

	// Element is the raw XML tag the warning originated from
	Element string `json:"element,omitempty"`

	// Source is the document source name for attribution
	Source string `json:"source,omitempty"`
}

// IsError returns true if this warning records a hard element failure.
func (w Warning) IsError() bool {
	return w.Severity == SeverityError
}

// String returns a human-readable representation of the warning.
func (w Warning) String() string {
	s := string(w.Severity) + ": " + w.Diagnostics
	if w.EntityID != "" {
		s += " (entity " + w.EntityID + ")"
	}
	return s
}

// WarningBuilder provides a fluent API for building warnings.
type WarningBuilder struct {
	warning Warning
}

// NewWarning creates a new WarningBuilder.
func NewWarning(severity WarningSeverity, code WarningType) *WarningBuilder {
	return &WarningBuilder{
		warning: Warning{
			Severity: severity,
			Code:     code,
		},
	}
}

// Warn creates a warning-severity builder.
func Warn(code WarningType) *WarningBuilder {
	return NewWarning(SeverityWarning, code)
}

// WarnError creates an error-severity builder.
func WarnError(code WarningType) *WarningBuilder {
	return NewWarning(SeverityError, code)
}

// Diagnostics sets the diagnostic message.
func (b *WarningBuilder) Diagnostics(msg string) *WarningBuilder {
	b.warning.Diagnostics = msg
	return b
}

// Entity scopes the warning to an entity identifier.
func (b *WarningBuilder) Entity(id string) *WarningBuilder {
	b.warning.EntityID = id
	return b
}

// Element records the raw XML tag the warning originated from.
func (b *WarningBuilder) Element(tag string) *WarningBuilder {
	b.warning.Element = tag
	return b
}

// Source records the document source name.
func (b *WarningBuilder) Source(name string) *WarningBuilder {
	b.warning.Source = name
	return b
}

// Build returns the constructed warning.
func (b *WarningBuilder) Build() Warning {
	return b.warning
}
