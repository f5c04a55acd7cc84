package destination

import (
	"github.com/snapkit-cli/snapkit/registry"
	"github.com/snapkit-cli/snapkit/settings"
)

// Builtins returns the factory table of the destinations shipped with snapkit.
func Builtins(core *settings.Core) []registry.Factory[Destination] {
	return []registry.Factory[Destination]{
		{Name: "Clipboard", New: NewClipboard},
		{Name: "File", New: func() (Destination, error) { return NewFile(core) }},
		{Name: "Open", New: func() (Destination, error) { return NewOpen(core) }},
	}
}
