package app

import (
	"github.com/vk/schematemplate/internal/registry"
	"github.com/vk/schematemplate/modules/lab"
	"github.com/vk/schematemplate/modules/session"
)

// coreModules is the definitive list of the template modules compiled into
// the binary, in declaration order.
var coreModules = []registry.Module{
	&lab.Module{},
	&session.Module{},
}
