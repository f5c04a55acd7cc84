// Package processor defines the steps applied to a capture before it is exported.
package processor

import (
	"context"

	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/registry"
)

// Processor changes a capture or its details.
type Processor interface {
	registry.Item

	Description() string

	// ProcessCapture reports whether anything was changed.
	ProcessCapture(ctx context.Context, surface *capture.Surface, details *capture.Details) (bool, error)
}

// Registry holds the built-in and plugin processors.
type Registry struct {
	*registry.Registry[Processor]
}

func NewRegistry(excluded ...string) *Registry {
	return &Registry{Registry: registry.New[Processor]("processor", excluded...)}
}

// ProcessCapture runs the processor with the given designation.
// Unknown or inactive designations change nothing and are not an error.
func (r *Registry) ProcessCapture(ctx context.Context, designation string, surface *capture.Surface, details *capture.Details) (bool, error) {
	p, ok := r.Resolve(designation).Get()
	if !ok {
		log.Warnf("No active processor %s", designation)
		return false, nil
	}

	changed, err := p.ProcessCapture(ctx, surface, details)
	if err != nil {
		log.Errorf("Processor %s failed: %v", designation, err)
		return false, err
	}

	log.Debugf("Processor %s changed capture: %t", designation, changed)
	return changed, nil
}

// ProcessAll runs the processors in order and stops at the first error.
func (r *Registry) ProcessAll(ctx context.Context, designations []string, surface *capture.Surface, details *capture.Details) (changed bool, err error) {
	for _, designation := range designations {
		if err = ctx.Err(); err != nil {
			return changed, err
		}

		var c bool
		if c, err = r.ProcessCapture(ctx, designation, surface, details); err != nil {
			return changed, err
		}
		changed = changed || c
	}

	return changed, nil
}
