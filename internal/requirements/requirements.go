// Package requirements holds the dependency names a set of table templates
// needs and checks a caller-supplied dependency mapping against them.
package requirements

import (
	"fmt"
	"strings"
)

const noRequirements = "No required upstream tables or methods."

// Requirements is the union of names a template needs supplied at
// declaration time.
type Requirements struct {
	Tables   []string
	Methods  []string
	Optional []string
}

// IsEmpty reports whether no names are recorded.
func (r Requirements) IsEmpty() bool {
	return len(r.Tables) == 0 && len(r.Methods) == 0 && len(r.Optional) == 0
}

// Describe returns guidance on what the dependency mapping must contain.
func (r Requirements) Describe() string {
	if r.IsEmpty() {
		return noRequirements
	}

	var b strings.Builder
	b.WriteString("dependencies need to be a mapping with:")
	if len(r.Tables) > 0 {
		fmt.Fprintf(&b, "\n\tKeys for upstream tables: %v", r.Tables)
	}
	if len(r.Methods) > 0 {
		fmt.Fprintf(&b, "\n\tKeys for required methods: %v", r.Methods)
	}
	if len(r.Optional) > 0 {
		fmt.Fprintf(&b, "\n\tKeys for optional methods: %v", r.Optional)
	}
	return b.String()
}
