package diag

import "fmt"

// Kind classifies a Diagnostic per spec.md §7's two error kinds.
type Kind int

const (
	// MalformedInput is an unsatisfiable constraint reaching a domain
	// that cannot express it; the driver should have sanitized the
	// input before it got here.
	MalformedInput Kind = iota
	// ProgrammerError is a construct that is never valid regardless of
	// input sanitation, such as dereferencing a function or object
	// literal in pointer analysis.
	ProgrammerError
)

func (k Kind) String() string {
	switch k {
	case MalformedInput:
		return "malformed input"
	case ProgrammerError:
		return "programmer error"
	default:
		return "unknown"
	}
}

// Diagnostic carries the offending construct alongside its kind, per
// spec.md §7's "fail fast with a diagnostic carrying the offending
// construct".
type Diagnostic struct {
	Kind      Kind
	Component string // which module raised it, e.g. "pointer", "dbm"
	Message   string
	Construct string // a String()-rendering of the offending value
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s [%s]: %s", d.Component, d.Kind, d.Construct, d.Message)
}

// New builds a Diagnostic. Construct is typically the String() of the
// statement, ref, or constraint that triggered it.
func New(kind Kind, component, construct, message string) *Diagnostic {
	return &Diagnostic{Kind: kind, Component: component, Construct: construct, Message: message}
}

var _ error = Diagnostic{}
