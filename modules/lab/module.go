// Package lab bundles the lab-level table templates: labs, species and
// subjects. It needs nothing supplied at declaration time.
package lab

import (
	"github.com/vk/schematemplate/internal/registry"
	"github.com/vk/schematemplate/internal/tabledef"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Tables returns fresh copies of the lab templates in declaration order.
func Tables() []*tabledef.TableDef {
	return []*tabledef.TableDef{
		tabledef.New("Lab").
			WithComment("research lab").
			WithDefinition("lab : varchar(32)\n---\nlab_name : varchar(255)"),
		tabledef.New("Species").
			WithTier(tabledef.TierLookup).
			WithDefinition("species : varchar(32)").
			WithContents([]string{"Mus musculus"}, []string{"Rattus norvegicus"}),
		tabledef.New("Subject").
			WithComment("experimental subject").
			WithDefinition("subject : varchar(8)\n---\n-> Lab\n-> Species\nsex : enum('M', 'F', 'U')"),
	}
}

// Register registers the lab templates.
func (m *Module) Register(r *registry.Registry) error {
	for _, def := range Tables() {
		if _, err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}
