package app

import (
	"context"

	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/history"
	"github.com/snapkit-cli/snapkit/log"
)

// ExportOptions select what happens to one capture. Empty lists fall back to the core settings.
type ExportOptions struct {
	Destinations []string
	Processors   []string
	Manual       bool
}

// Export runs the processors over the capture and exports it to every destination.
// Failed exports are part of the result; only a cancelled context stops the run early.
func (a *App) Export(ctx context.Context, surface *capture.Surface, details *capture.Details, options ExportOptions) ([]capture.ExportInformation, error) {
	processors := options.Processors
	if len(processors) == 0 {
		processors = a.Core.Processors
	}

	if _, err := a.Processors.ProcessAll(ctx, processors, surface, details); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warnf("Processing %q failed, exporting it unprocessed: %v", details.Title, err)
	}

	destinations := options.Destinations
	if len(destinations) == 0 {
		destinations = a.Core.Destinations
	}

	results := make([]capture.ExportInformation, 0, len(destinations))
	for _, designation := range destinations {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		// failures are carried by the result itself
		info, _ := a.Destinations.ExportCapture(ctx, options.Manual, designation, surface, details)
		results = append(results, info)
	}

	if a.Options.History {
		if err := history.Add(details.Title, results...); err != nil {
			log.Warnf("Can't record export history: %v", err)
		}
	}

	return results, nil
}
