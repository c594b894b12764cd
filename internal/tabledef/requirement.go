package tabledef

import "fmt"

// Kind classifies a requirement declared by a table template.
type Kind int

const (
	// KindUpstream is a table that must be supplied before declaration.
	KindUpstream Kind = iota
	// KindRequired is a method that must be supplied before declaration.
	KindRequired
	// KindOptional is a method that may be omitted. An omitted optional
	// method is replaced with a stand-in that fails when called.
	KindOptional
)

// String returns the human-readable category label.
func (k Kind) String() string {
	switch k {
	case KindUpstream:
		return "upstream table"
	case KindRequired:
		return "required method"
	case KindOptional:
		return "optional method"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsMethod reports whether the requirement must be bound to a function.
func (k Kind) IsMethod() bool {
	return k == KindRequired || k == KindOptional
}

// Requirement is a single named dependency of a table template.
type Requirement struct {
	Name string
	Kind Kind
}
