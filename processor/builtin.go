package processor

import (
	"github.com/snapkit-cli/snapkit/registry"
	"github.com/snapkit-cli/snapkit/settings"
)

// Builtins returns the factory table of the processors shipped with snapkit.
func Builtins(core *settings.Core) []registry.Factory[Processor] {
	return []registry.Factory[Processor]{
		{Name: "TitleFix", New: func() (Processor, error) { return NewTitleFix(core) }},
	}
}
