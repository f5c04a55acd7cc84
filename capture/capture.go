// Package capture defines the data handed to destinations and processors: the surface, its details and export results.
package capture

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/snapkit-cli/snapkit/filesystem"
)

// Surface is an encoded screenshot plus the state processors may change.
type Surface struct {
	// Data holds the encoded image bytes.
	Data []byte
	// Format is the image format without a dot, e.g. "png".
	Format string
	// Modified reports whether a processor changed the surface since it was captured.
	Modified bool
}

// ContentType returns the MIME type matching the surface format.
func (s *Surface) ContentType() string {
	switch strings.ToLower(s.Format) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff", "tif":
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Details is the metadata that travels with a surface.
type Details struct {
	Title    string
	Filename string
	DateTime time.Time
	Metadata map[string]string
}

// Load reads an image file into a surface and fills the details from the file name.
func Load(path string) (*Surface, *Details, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read capture: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "png"
	}

	base := filepath.Base(path)
	details := &Details{
		Title:    strings.TrimSuffix(base, filepath.Ext(base)),
		Filename: path,
		DateTime: time.Now(),
		Metadata: make(map[string]string),
	}

	return &Surface{Data: data, Format: format}, details, nil
}

// ExportInformation is the outcome of one export through one destination.
// It is returned by value and never changed after a destination produced it.
type ExportInformation struct {
	Designation  string `json:"designation" jsonschema:"description=Designation of the destination that was used."`
	Description  string `json:"description" jsonschema:"description=Human readable name of the destination."`
	ExportMade   bool   `json:"export_made" jsonschema:"description=Whether the export succeeded."`
	URI          string `json:"uri,omitempty" jsonschema:"description=Resulting URL for upload destinations."`
	Path         string `json:"path,omitempty" jsonschema:"description=Resulting file for file based destinations."`
	ErrorMessage string `json:"error,omitempty" jsonschema:"description=Why the export failed."`
}

// NoExport returns the result for a designation that could not be resolved or is inactive.
func NoExport(designation string) ExportInformation {
	return ExportInformation{Designation: designation}
}

// Failed returns a result describing a failed export.
func Failed(designation, description string, err error) ExportInformation {
	return ExportInformation{
		Designation:  designation,
		Description:  description,
		ErrorMessage: err.Error(),
	}
}
