package tabledef

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Tier is the framework's table tier. It decides how rows get into the table
// and the prefix of its storage name.
type Tier string

const (
	TierManual   Tier = "manual"
	TierLookup   Tier = "lookup"
	TierImported Tier = "imported"
	TierComputed Tier = "computed"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TableDef is one table template. Build it with New and the chained setters;
// a TableDef must not be changed after it has been registered.
type TableDef struct {
	Name       string
	Tier       Tier
	Comment    string
	Definition string
	Contents   [][]string

	requirements []Requirement
	index        map[string]Kind
	errs         []error
}

// New creates a manual-tier table template.
func New(name string) *TableDef {
	return &TableDef{
		Name:  name,
		Tier:  TierManual,
		index: make(map[string]Kind),
	}
}

// WithTier sets the table tier.
func (d *TableDef) WithTier(tier Tier) *TableDef {
	d.Tier = tier
	return d
}

// WithComment sets the table comment.
func (d *TableDef) WithComment(comment string) *TableDef {
	d.Comment = comment
	return d
}

// WithDefinition sets the definition text handed to the schema binder.
func (d *TableDef) WithDefinition(definition string) *TableDef {
	d.Definition = definition
	return d
}

// WithContents sets the fixed rows of a lookup table.
func (d *TableDef) WithContents(rows ...[]string) *TableDef {
	d.Contents = append(d.Contents, rows...)
	return d
}

// Upstream declares tables that must be injected before declaration.
func (d *TableDef) Upstream(names ...string) *TableDef {
	return d.add(KindUpstream, names)
}

// Requires declares methods that must be injected before declaration.
func (d *TableDef) Requires(names ...string) *TableDef {
	return d.add(KindRequired, names)
}

// Optional declares methods that may be left out of the dependency mapping.
func (d *TableDef) Optional(names ...string) *TableDef {
	return d.add(KindOptional, names)
}

func (d *TableDef) add(kind Kind, names []string) *TableDef {
	if d.index == nil {
		d.index = make(map[string]Kind)
	}
	for _, name := range names {
		if prev, ok := d.index[name]; ok {
			if prev != kind {
				d.errs = append(d.errs, fmt.Errorf("%q declared as both %s and %s", name, prev, kind))
			}
			continue
		}
		d.index[name] = kind
		d.requirements = append(d.requirements, Requirement{Name: name, Kind: kind})
	}
	return d
}

// Requirements returns every requirement in declaration order.
func (d *TableDef) Requirements() []Requirement {
	out := make([]Requirement, len(d.requirements))
	copy(out, d.requirements)
	return out
}

// Names returns the requirement names of one kind in declaration order.
func (d *TableDef) Names(kind Kind) []string {
	var out []string
	for _, req := range d.requirements {
		if req.Kind == kind {
			out = append(out, req.Name)
		}
	}
	return out
}

// Needs reports whether the template declared name, and under which kind.
func (d *TableDef) Needs(name string) (Kind, bool) {
	kind, ok := d.index[name]
	return kind, ok
}

// Validate checks the template for structural mistakes.
func (d *TableDef) Validate() error {
	errs := append([]error(nil), d.errs...)
	if !identifier.MatchString(d.Name) {
		errs = append(errs, fmt.Errorf("invalid table name %q", d.Name))
	}
	switch d.Tier {
	case TierManual, TierLookup, TierImported, TierComputed:
	default:
		errs = append(errs, fmt.Errorf("unknown tier %q", d.Tier))
	}
	if len(d.Contents) > 0 && d.Tier != TierLookup {
		errs = append(errs, fmt.Errorf("contents are only allowed on %s tables, got %s", TierLookup, d.Tier))
	}
	for _, req := range d.requirements {
		if strings.TrimSpace(req.Name) == "" {
			errs = append(errs, fmt.Errorf("empty %s name", req.Kind))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("table %q: %w", d.Name, err)
	}
	return nil
}

// StorageName is the physical table name the framework derives from the
// template name and tier, e.g. "#session_type" for a lookup SessionType.
func (d *TableDef) StorageName() string {
	name := snakeCase(d.Name)
	switch d.Tier {
	case TierLookup:
		return "#" + name
	case TierImported:
		return "_" + name
	case TierComputed:
		return "__" + name
	default:
		return name
	}
}

func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
