package destination

import (
	"context"
	"fmt"

	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/open"
	"github.com/snapkit-cli/snapkit/settings"
)

// startViewer opens a file with the system viewer.
var startViewer = open.Start

// Open shows the capture in the system image viewer, saving it first when needed.
type Open struct {
	Base
	core *settings.Core
}

// NewOpen returns the open destination.
func NewOpen(core *settings.Core) (Destination, error) {
	if core == nil {
		return nil, fmt.Errorf("open destination needs the core settings")
	}

	return &Open{Base: Base{Name: "Open", Title: "Open in image viewer", Order: 1}, core: core}, nil
}

func (o *Open) IsActive() bool {
	return true
}

func (o *Open) ExportCapture(_ context.Context, _ bool, surface *capture.Surface, details *capture.Details) (capture.ExportInformation, error) {
	path := details.Filename
	if path == "" || surface.Modified {
		saved, err := Save(o.core, surface, details)
		if err != nil {
			return capture.ExportInformation{}, err
		}
		path = saved
	}

	if err := startViewer(path); err != nil {
		return capture.ExportInformation{}, fmt.Errorf("open %s: %w", path, err)
	}

	return capture.ExportInformation{
		Designation: o.Designation(),
		Description: o.Description(),
		ExportMade:  true,
		Path:        path,
	}, nil
}
