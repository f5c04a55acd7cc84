package destination

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/filesystem"
	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/settings"
)

// File saves the capture into the configured output directory.
type File struct {
	Base
	core *settings.Core
}

// NewFile returns the file destination using the output settings of core.
func NewFile(core *settings.Core) (Destination, error) {
	if core == nil {
		return nil, fmt.Errorf("file destination needs the core settings")
	}

	return &File{Base: Base{Name: "File", Title: "Save to file", Order: 0}, core: core}, nil
}

func (f *File) IsActive() bool {
	return f.core.OutputFilePath != ""
}

func (f *File) ExportCapture(_ context.Context, _ bool, surface *capture.Surface, details *capture.Details) (capture.ExportInformation, error) {
	path, err := Save(f.core, surface, details)
	if err != nil {
		return capture.ExportInformation{}, err
	}

	if f.core.OutputFileCopyPathToClipboard {
		if err := WriteClipboard(path); err != nil {
			log.Warnf("Can't copy %s to the clipboard: %v", path, err)
		}
	}

	return capture.ExportInformation{
		Designation: f.Designation(),
		Description: f.Description(),
		ExportMade:  true,
		Path:        path,
	}, nil
}

// Save writes the surface to the path derived from the core output settings and records it in details.
func Save(core *settings.Core, surface *capture.Surface, details *capture.Details) (string, error) {
	path := core.OutputPath(details, surface.Format)

	if !core.OutputFileAllowOverwrite {
		unique, err := uniquePath(path)
		if err != nil {
			return "", err
		}
		path = unique
	}

	if err := filesystem.WriteAtomic(path, surface.Data, 0o644); err != nil {
		return "", fmt.Errorf("save capture: %w", err)
	}

	log.Infof("Saved capture to %s", path)
	details.Filename = path
	return path, nil
}

// uniquePath appends " (n)" to the file stem until no file exists at the path.
func uniquePath(path string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	candidate := path
	for n := 1; ; n++ {
		exists, err := filesystem.API().Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
	}
}
