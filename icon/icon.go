// Package icon renders the symbols printed by the CLI in the configured variant.
package icon

import (
	"github.com/snapkit-cli/snapkit/key"
	"github.com/spf13/viper"
)

var variants = []string{"emoji", "nerd", "plain", "kaomoji", "squares"}

// AvailableVariants lists the supported icon variants.
func AvailableVariants() []string {
	return append([]string(nil), variants...)
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) variant(name string) string {
	return map[string]string{
		"emoji":   d.emoji,
		"nerd":    d.nerd,
		"plain":   d.plain,
		"kaomoji": d.kaomoji,
		"squares": d.squares,
	}[name]
}

// Get renders icon i in the configured variant. An unset or unknown variant renders nothing.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.variant(viper.GetString(key.IconsVariant))
}
