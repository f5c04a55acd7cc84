// Package destination defines where captures are exported to and the registry that dispatches to them.
package destination

import (
	"context"

	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/registry"
)

// Destination exports a capture somewhere.
type Destination interface {
	registry.Item

	// Description is the human readable name shown in lists and pickers.
	Description() string

	// ExportCapture exports the surface. manual is set when the user picked the destination explicitly.
	ExportCapture(ctx context.Context, manual bool, surface *capture.Surface, details *capture.Details) (capture.ExportInformation, error)
}

// Registry holds the built-in and plugin destinations.
type Registry struct {
	*registry.Registry[Destination]
}

// NewRegistry returns an empty registry hiding the excluded designations.
func NewRegistry(excluded ...string) *Registry {
	return &Registry{Registry: registry.New[Destination]("destination", excluded...)}
}

// ExportCapture exports through the destination with the given designation.
// A designation that is unknown or inactive results in no export and no error.
func (r *Registry) ExportCapture(
	ctx context.Context,
	manual bool,
	designation string,
	surface *capture.Surface,
	details *capture.Details,
) (capture.ExportInformation, error) {
	d, ok := r.Resolve(designation).Get()
	if !ok {
		log.Warnf("No active destination %s", designation)
		return capture.NoExport(designation), nil
	}

	log.Infof("Exporting capture %q to %s", details.Title, designation)
	info, err := d.ExportCapture(ctx, manual, surface, details)
	if err != nil {
		log.Errorf("Export to %s failed: %v", designation, err)
		return capture.Failed(designation, d.Description(), err), err
	}

	return info, nil
}

// Base carries the registry attributes shared by the built-in destinations.
type Base struct {
	Name  string
	Title string
	Order int
}

func (b Base) Designation() string { return b.Name }
func (b Base) Description() string { return b.Title }
func (b Base) Priority() int       { return b.Order }
