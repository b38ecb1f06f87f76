package contract

import "fmt"

// Kind classifies a contract violation.
type Kind string

const (
	// KindMalformed is an unreadable or unparseable document.
	KindMalformed Kind = "malformed"
	// KindSchema is a wrong or missing key, wrong type or out-of-domain value.
	KindSchema Kind = "schema"
	// KindReference is a case id mismatch or a dangling file reference.
	KindReference Kind = "reference"
	// KindContent is a missing or forbidden HTML token, or an image without alt text.
	KindContent Kind = "content"
)

// Violation is the first defect a check stage found. Every violation is
// fatal; Message is the single line shown to the operator.
type Violation struct {
	Kind     Kind
	Document string
	Field    string
	Message  string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return v.Message
}

func violation(kind Kind, doc, field, format string, args ...any) *Violation {
	return &Violation{
		Kind:     kind,
		Document: doc,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	}
}
