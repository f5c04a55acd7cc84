// Package ini maps INI text onto typed settings structs.
//
// A settings group embeds *Section and binds its fields with an explicit, ordered schema:
//
//	type Core struct {
//		*ini.Section
//		OutputFilePath string
//	}
//
//	c := &Core{}
//	c.Section = ini.NewSection("Core", "Core settings", c).Bind(
//		ini.String("OutputFilePath", &c.OutputFilePath, "", "Where captures are saved"),
//	)
//
// The owner passed to NewSection may implement PreChecker, AfterLoader, BeforeSaver and
// AfterSaver to migrate or post-process values.
package ini

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/snapkit-cli/snapkit/log"
	goini "gopkg.in/ini.v1"
)

// ErrMissingMetadata is returned when a section without name or description is written.
var ErrMissingMetadata = errors.New("section name and description are required")

// minEncryptedLength is the shortest string that gets encrypted.
const minEncryptedLength = 3

// PreChecker may rewrite a raw value before it is parsed, e.g. to migrate an old format.
type PreChecker interface {
	PreCheckValue(name, value string) string
}

// AfterLoader is called once at the end of Fill.
type AfterLoader interface {
	AfterLoad()
}

// BeforeSaver is called once at the start of Write.
type BeforeSaver interface {
	BeforeSave()
}

// AfterSaver is called once at the end of Write, even when writing failed.
type AfterSaver interface {
	AfterSave()
}

// Section is a named group of values persisted under one [Name] header.
type Section struct {
	Name        string
	Description string
	// IsDirty reports whether a value changed since the section was last filled or written.
	IsDirty bool

	owner  any
	values []*Value
	index  map[string]*Value
}

// NewSection returns an empty section. owner receives the lifecycle hooks and may be nil.
func NewSection(name, description string, owner any) *Section {
	return &Section{
		Name:        name,
		Description: description,
		owner:       owner,
		index:       make(map[string]*Value),
	}
}

// Bind appends values to the schema and resets them to their defaults.
// It panics on a duplicate name: the schema is static, so this is a programming error.
func (s *Section) Bind(values ...*Value) *Section {
	for _, v := range values {
		if _, exists := s.index[v.Name]; exists {
			panic("Duplicate ini value: " + s.Name + "." + v.Name)
		}

		v.section = s
		v.binding.reset()
		s.values = append(s.values, v)
		s.index[v.Name] = v
	}
	return s
}

// Values returns the bound values in declaration order.
func (s *Section) Values() []*Value {
	return s.values
}

// Value looks up a bound value by name.
func (s *Section) Value(name string) (*Value, bool) {
	v, ok := s.index[name]
	return v, ok
}

// Reset restores every value to its default.
func (s *Section) Reset() {
	for _, v := range s.values {
		v.binding.reset()
	}
	s.IsDirty = true
}

// Fill sets every value from properties, falling back to defaults for absent keys.
// A value that fails to parse is logged and keeps its default; the remaining values are still filled.
func (s *Section) Fill(properties map[string]string) {
	for _, v := range s.values {
		if err := s.fillValue(v, properties); err != nil {
			log.Errorf("Failed to read %s.%s, using default: %v", s.Name, v.Name, err)
			v.binding.reset()
		}

		if ptr, ok := v.plaintext(); ok && len(*ptr) >= minEncryptedLength {
			plain, err := Decrypt(*ptr)
			if err != nil {
				log.Warnf("Can't decrypt %s.%s, using default: %v", s.Name, v.Name, err)
				v.binding.reset()
			} else {
				*ptr = plain
			}
		}
	}

	if hook, ok := s.owner.(AfterLoader); ok {
		hook.AfterLoad()
	}
	s.IsDirty = false
}

func (s *Section) fillValue(v *Value, properties map[string]string) error {
	if dict, ok := v.binding.(dictionary); ok {
		prefix := v.Name + "."
		entries := make(map[string]string)
		for k, raw := range properties {
			if sub, found := strings.CutPrefix(k, prefix); found {
				entries[sub] = s.preCheck(k, raw)
			}
		}

		if len(entries) == 0 {
			v.binding.reset()
			return nil
		}
		dict.readEntries(entries)
		return nil
	}

	raw, ok := properties[v.Name]
	if !ok {
		v.binding.reset()
		return nil
	}

	return v.binding.read(s.preCheck(v.Name, raw))
}

func (s *Section) preCheck(name, raw string) string {
	if hook, ok := s.owner.(PreChecker); ok {
		return hook.PreCheckValue(name, raw)
	}
	return raw
}

// Write serializes the section in declaration order. With onlyProperties set, comments are omitted.
// Encrypted values are written in cipher text while the in-memory values stay plain.
func (s *Section) Write(w io.Writer, onlyProperties bool) error {
	doc := newDocument()
	if err := s.encode(doc, onlyProperties); err != nil {
		return err
	}

	_, err := doc.WriteTo(w)
	return err
}

// encode adds the section to doc, running the save hooks around it.
func (s *Section) encode(doc *goini.File, onlyProperties bool) (err error) {
	if s.Name == "" || s.Description == "" {
		return fmt.Errorf("%w: %q", ErrMissingMetadata, s.Name)
	}

	if hook, ok := s.owner.(BeforeSaver); ok {
		hook.BeforeSave()
	}
	defer func() {
		if hook, ok := s.owner.(AfterSaver); ok {
			hook.AfterSave()
		}
		if err == nil {
			s.IsDirty = false
		}
	}()

	sec, err := doc.NewSection(s.Name)
	if err != nil {
		return err
	}
	if !onlyProperties {
		sec.Comment = comment(s.Description)
	}

	for _, v := range s.values {
		if err = s.encodeValue(sec, v, onlyProperties); err != nil {
			return fmt.Errorf("%s: %w", v.key(), err)
		}
	}
	return nil
}

func (s *Section) encodeValue(sec *goini.Section, v *Value, onlyProperties bool) error {
	var pairs [][2]string

	if dict, ok := v.binding.(dictionary); ok {
		pairs = lo.Map(dict.writeEntries(), func(e [2]string, _ int) [2]string {
			return [2]string{v.Name + "." + e[0], e[1]}
		})
	} else {
		pairs = [][2]string{{v.Name, s.persisted(v)}}
	}

	for i, pair := range pairs {
		key, err := sec.NewKey(pair[0], pair[1])
		if err != nil {
			return err
		}
		if i == 0 && !onlyProperties {
			key.Comment = comment(v.Description)
		}
	}
	return nil
}

// persisted returns the text stored for v, encrypting it when required.
func (s *Section) persisted(v *Value) string {
	ptr, ok := v.plaintext()
	if !ok || len(*ptr) < minEncryptedLength {
		return v.binding.write()
	}

	encrypted, err := Encrypt(*ptr)
	if err != nil {
		log.Errorf("Can't encrypt %s.%s, writing it empty: %v", s.Name, v.Name, err)
		return ""
	}
	return encrypted
}

// comment drops blank lines, which the writer cannot prefix.
func comment(text string) string {
	lines := lo.Filter(strings.Split(text, "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
	return strings.Join(lines, goini.LineBreak)
}
