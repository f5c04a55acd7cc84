package ini

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/snapkit-cli/snapkit/filesystem"
	"github.com/snapkit-cli/snapkit/log"
	goini "gopkg.in/ini.v1"
)

// Properties maps section names to their raw key/value pairs.
type Properties map[string]map[string]string

func init() {
	// key=value, without aligning the equal signs
	goini.PrettyFormat = false
}

// textOptions keep values verbatim: ';' and '#' are only comments at the start of a line, a trailing
// backslash is part of the value and only '=' separates a key from its value.
var textOptions = goini.LoadOptions{
	KeyValueDelimiters:       "=",
	KeyValueDelimiterOnWrite: "=",
	IgnoreInlineComment:      true,
	IgnoreContinuation:       true,
	SkipUnrecognizableLines:  true,
}

func newDocument() *goini.File {
	return goini.Empty(textOptions)
}

// Parse reads INI text. Keys before the first header land in the "" section;
// lines that are neither comments, headers nor key=value pairs are skipped.
// Values written on several lines between triple quotes are read back whole.
func Parse(r io.Reader) (Properties, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ini: %w", err)
	}

	doc, err := goini.LoadSources(textOptions, data)
	if err != nil {
		return nil, fmt.Errorf("parse ini: %w", err)
	}

	props := Properties{}
	for _, sec := range doc.Sections() {
		name := strings.TrimSpace(sec.Name())
		if name == goini.DefaultSection {
			if len(sec.Keys()) == 0 {
				continue
			}
			name = ""
		}

		values, ok := props[name]
		if !ok {
			values = make(map[string]string, len(sec.Keys()))
			props[name] = values
		}
		for _, k := range sec.Keys() {
			values[k.Name()] = k.Value()
		}
	}
	return props, nil
}

// File is a settings file made of registered sections. Sections found in the file but not
// registered are kept verbatim and written back on Save.
type File struct {
	path     string
	sections []*Section
	unknown  Properties
}

// NewFile returns a file bound to path. Nothing is read until Load.
func NewFile(path string) *File {
	return &File{path: path, unknown: Properties{}}
}

// Path returns the location of the file.
func (f *File) Path() string {
	return f.path
}

// Register adds sections. It panics when a section name is registered twice.
func (f *File) Register(sections ...*Section) {
	for _, s := range sections {
		if _, exists := f.Section(s.Name); exists {
			panic("Duplicate ini section: " + s.Name)
		}
		f.sections = append(f.sections, s)
	}
}

// Section looks up a registered section by name.
func (f *File) Section(name string) (*Section, bool) {
	for _, s := range f.sections {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Sections returns the registered sections in registration order.
func (f *File) Sections() []*Section {
	return f.sections
}

// IsDirty reports whether any registered section changed since it was loaded or saved.
func (f *File) IsDirty() bool {
	return slices.ContainsFunc(f.sections, func(s *Section) bool { return s.IsDirty })
}

// Load reads the file and fills every registered section. A missing file fills defaults.
func (f *File) Load() error {
	props := Properties{}

	data, err := filesystem.API().ReadFile(f.path)
	switch {
	case err == nil:
		props, err = Parse(bytes.NewReader(data))
		if err != nil {
			return err
		}
	case os.IsNotExist(err):
		log.Infof("Settings file %s not found, using defaults", f.path)
	default:
		return fmt.Errorf("read settings: %w", err)
	}

	f.Fill(props)
	return nil
}

// Fill fills registered sections from already parsed properties.
func (f *File) Fill(props Properties) {
	f.unknown = Properties{}
	for name, values := range props {
		if _, ok := f.Section(name); !ok && name != "" {
			f.unknown[name] = values
		}
	}

	for _, s := range f.sections {
		values := props[s.Name]
		if values == nil {
			values = map[string]string{}
		}
		s.Fill(values)
	}
}

// Write writes every registered section followed by the unknown ones.
func (f *File) Write(w io.Writer, onlyProperties bool) error {
	doc := newDocument()

	for _, s := range f.sections {
		if err := s.encode(doc, onlyProperties); err != nil {
			return fmt.Errorf("write section %s: %w", s.Name, err)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(f.unknown)) {
		sec, err := doc.NewSection(name)
		if err != nil {
			return err
		}
		values := f.unknown[name]
		for _, k := range slices.Sorted(maps.Keys(values)) {
			if _, err := sec.NewKey(k, values[k]); err != nil {
				return err
			}
		}
	}

	_, err := doc.WriteTo(w)
	return err
}

// Save writes the whole file atomically.
func (f *File) Save() error {
	var buf bytes.Buffer
	if err := f.Write(&buf, false); err != nil {
		return err
	}

	if err := filesystem.WriteAtomic(f.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	log.Infof("Saved settings to %s", f.path)
	return nil
}
