// Package plugin connects destination and processor providers to the registries.
package plugin

import (
	"sync"

	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/destination"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/processor"
)

// Plugin offers destinations and processors that are not built into snapkit.
type Plugin interface {
	Name() string
	Destinations() ([]destination.Destination, error)
	Processors() ([]processor.Processor, error)
}

// Host keeps the loaded plugins and exposes them to the registries.
type Host struct {
	mu      sync.RWMutex
	plugins []Plugin
}

// Add appends plugins. A plugin whose name is already taken is ignored.
func (h *Host) Add(plugins ...Plugin) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, p := range plugins {
		if p == nil {
			continue
		}

		if lo.ContainsBy(h.plugins, func(existing Plugin) bool { return existing.Name() == p.Name() }) {
			log.Warnf("Plugin %s is already loaded, ignoring the duplicate", p.Name())
			continue
		}

		log.Infof("Loaded plugin %s", p.Name())
		h.plugins = append(h.plugins, p)
	}
}

// Plugins returns the loaded plugins in load order.
func (h *Host) Plugins() []Plugin {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return append([]Plugin(nil), h.plugins...)
}

// Get returns the plugin with the given name.
func (h *Host) Get(name string) (Plugin, bool) {
	return lo.Find(h.Plugins(), func(p Plugin) bool { return p.Name() == name })
}

// Attach registers every plugin as a source of both registries.
func (h *Host) Attach(destinations *destination.Registry, processors *processor.Registry) {
	for _, p := range h.Plugins() {
		destinations.AddSource(p.Name(), p.Destinations)
		processors.AddSource(p.Name(), p.Processors)
	}
}
