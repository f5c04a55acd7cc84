package destination

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/snapkit-cli/snapkit/capture"
)

// WriteClipboard replaces the clipboard contents.
var WriteClipboard = clipboard.WriteAll

// clipboardSupported reports whether the platform has a usable clipboard.
var clipboardSupported = func() bool { return !clipboard.Unsupported }

// Clipboard copies the capture to the clipboard as a data URI.
type Clipboard struct {
	Base
}

// NewClipboard returns the clipboard destination.
func NewClipboard() (Destination, error) {
	return &Clipboard{Base{Name: "Clipboard", Title: "Copy to clipboard", Order: 2}}, nil
}

func (c *Clipboard) IsActive() bool {
	return clipboardSupported()
}

func (c *Clipboard) ExportCapture(_ context.Context, _ bool, surface *capture.Surface, _ *capture.Details) (capture.ExportInformation, error) {
	uri := DataURI(surface)
	if err := WriteClipboard(uri); err != nil {
		return capture.ExportInformation{}, fmt.Errorf("write clipboard: %w", err)
	}

	return capture.ExportInformation{
		Designation: c.Designation(),
		Description: c.Description(),
		ExportMade:  true,
		URI:         uri,
	}, nil
}

// DataURI encodes the surface as a data URI.
func DataURI(surface *capture.Surface) string {
	return "data:" + surface.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(surface.Data)
}
