package picasa

import (
	"context"
	"path/filepath"

	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/constant"
	"github.com/snapkit-cli/snapkit/destination"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/processor"
	"github.com/snapkit-cli/snapkit/util"
)

// Destination uploads captures to Picasa.
type Destination struct {
	destination.Base
	uploader *Uploader
}

// NewDestination returns the Picasa destination for uploader.
func NewDestination(uploader *Uploader) *Destination {
	return &Destination{
		Base:     destination.Base{Name: "Picasa", Title: "Upload to Picasa", Order: 5},
		uploader: uploader,
	}
}

// IsActive reports whether client credentials are configured.
func (d *Destination) IsActive() bool {
	return d.uploader.ClientID != "" && d.uploader.ClientSecret != ""
}

func (d *Destination) ExportCapture(ctx context.Context, _ bool, surface *capture.Surface, details *capture.Details) (capture.ExportInformation, error) {
	link, err := d.uploader.Upload(ctx, surface, details.Title, uploadFilename(surface, details))
	if err != nil {
		return capture.ExportInformation{}, err
	}

	if d.uploader.Config.AfterUploadLinkToClipBoard {
		if err := destination.WriteClipboard(link); err != nil {
			log.Warnf("Can't copy %s to the clipboard: %v", link, err)
		}
	}

	return capture.ExportInformation{
		Designation: d.Designation(),
		Description: d.Description(),
		ExportMade:  true,
		URI:         link,
	}, nil
}

func uploadFilename(surface *capture.Surface, details *capture.Details) string {
	if details.Filename != "" {
		return filepath.Base(details.Filename)
	}

	stem := util.SanitizeFilename(details.Title)
	if stem == "" {
		stem = constant.Snapkit
	}
	return stem + "." + surface.Format
}

// Plugin offers the Picasa destination.
type Plugin struct {
	destination *Destination
}

// NewPlugin returns the Picasa plugin for uploader.
func NewPlugin(uploader *Uploader) *Plugin {
	return &Plugin{destination: NewDestination(uploader)}
}

func (p *Plugin) Name() string {
	return "picasa"
}

func (p *Plugin) Destinations() ([]destination.Destination, error) {
	return []destination.Destination{p.destination}, nil
}

func (p *Plugin) Processors() ([]processor.Processor, error) {
	return nil, nil
}
