package ini

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Value is one key of a section: its schema (name, description, default, encryption) and an
// accessor to the typed field that holds the live value.
type Value struct {
	Name        string
	Description string
	Encrypted   bool

	section *Section
	binding binding
}

type binding interface {
	read(text string) error
	write() string
	reset()
	get() any
	typeName() string
}

// dictionary is implemented by bindings persisted as one "Name.key=value" line per entry.
type dictionary interface {
	readEntries(entries map[string]string)
	writeEntries() [][2]string
}

// Get returns the current typed value.
func (v *Value) Get() any {
	return v.binding.get()
}

// String returns the current value in its persisted text form.
func (v *Value) String() string {
	return v.binding.write()
}

// Type returns the Go type name of the bound field.
func (v *Value) Type() string {
	return v.binding.typeName()
}

// Set parses text into the bound field and marks the owning section dirty.
func (v *Value) Set(text string) error {
	if err := v.binding.read(text); err != nil {
		return fmt.Errorf("%s: %w", v.key(), err)
	}
	v.touch()
	return nil
}

// Reset restores the default value.
func (v *Value) Reset() {
	v.binding.reset()
	v.touch()
}

// Section returns the section the value is bound to.
func (v *Value) Section() *Section {
	return v.section
}

func (v *Value) touch() {
	if v.section != nil {
		v.section.IsDirty = true
	}
}

func (v *Value) key() string {
	if v.section == nil {
		return v.Name
	}
	return v.section.Name + "." + v.Name
}

// plaintext returns the string field behind the value when it is subject to encryption.
func (v *Value) plaintext() (*string, bool) {
	if !v.Encrypted {
		return nil, false
	}

	s, ok := v.binding.(*scalar[string])
	if !ok {
		return nil, false
	}
	return s.ptr, true
}

// scalar binds a field whose persisted form is a single line.
type scalar[T any] struct {
	ptr    *T
	def    T
	parse  func(string) (T, error)
	format func(T) string
	clone  func(T) T
}

func (s *scalar[T]) read(text string) error {
	parsed, err := s.parse(text)
	if err != nil {
		return err
	}
	*s.ptr = parsed
	return nil
}

func (s *scalar[T]) write() string {
	return s.format(*s.ptr)
}

func (s *scalar[T]) reset() {
	if s.clone != nil {
		*s.ptr = s.clone(s.def)
		return
	}
	*s.ptr = s.def
}

func (s *scalar[T]) get() any {
	return *s.ptr
}

func (s *scalar[T]) typeName() string {
	return fmt.Sprintf("%T", s.def)
}

func bind[T any](name string, ptr *T, def T, description string, parse func(string) (T, error), format func(T) string) *Value {
	return &Value{
		Name:        name,
		Description: description,
		binding:     &scalar[T]{ptr: ptr, def: def, parse: parse, format: format},
	}
}

// String binds a plain string field.
func String(name string, ptr *string, def, description string) *Value {
	return bind(name, ptr, def, description,
		func(s string) (string, error) { return s, nil },
		func(s string) string { return s },
	)
}

// Secret binds a string field that is encrypted in the persisted file.
func Secret(name string, ptr *string, description string) *Value {
	v := String(name, ptr, "", description)
	v.Encrypted = true
	return v
}

// Int binds an integer field.
func Int(name string, ptr *int, def int, description string) *Value {
	return bind(name, ptr, def, description,
		func(s string) (int, error) { return strconv.Atoi(strings.TrimSpace(s)) },
		strconv.Itoa,
	)
}

// Bool binds a boolean field. "True"/"False" as well as 1/0 are accepted.
func Bool(name string, ptr *bool, def bool, description string) *Value {
	return bind(name, ptr, def, description,
		func(s string) (bool, error) { return strconv.ParseBool(strings.TrimSpace(s)) },
		func(b bool) string { return lo.Ternary(b, "True", "False") },
	)
}

// Float binds a floating point field.
func Float(name string, ptr *float64, def float64, description string) *Value {
	return bind(name, ptr, def, description,
		func(s string) (float64, error) { return strconv.ParseFloat(strings.TrimSpace(s), 64) },
		func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) },
	)
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05"}

// Time binds a timestamp field persisted as RFC 3339. An empty value is the zero time.
func Time(name string, ptr *time.Time, def time.Time, description string) *Value {
	return bind(name, ptr, def, description,
		func(s string) (time.Time, error) {
			s = strings.TrimSpace(s)
			if s == "" {
				return time.Time{}, nil
			}
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t, nil
				}
			}
			return time.Time{}, fmt.Errorf("invalid time %q", s)
		},
		func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(time.RFC3339)
		},
	)
}

// Enum binds a string field restricted to allowed, matched case-insensitively and stored in its canonical spelling.
func Enum(name string, ptr *string, def string, allowed []string, description string) *Value {
	return bind(name, ptr, def, description,
		func(s string) (string, error) {
			s = strings.TrimSpace(s)
			canonical, ok := lo.Find(allowed, func(a string) bool { return strings.EqualFold(a, s) })
			if !ok {
				return "", fmt.Errorf("%q is not one of %s", s, strings.Join(allowed, ", "))
			}
			return canonical, nil
		},
		func(s string) string { return s },
	)
}

// Strings binds a list field persisted comma separated.
func Strings(name string, ptr *[]string, def []string, description string) *Value {
	v := bind(name, ptr, def, description,
		func(s string) ([]string, error) {
			parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string { return strings.TrimSpace(p) })
			return lo.Compact(parts), nil
		},
		func(l []string) string { return strings.Join(l, ",") },
	)
	v.binding.(*scalar[[]string]).clone = func(l []string) []string { return slices.Clone(l) }
	return v
}

// mapping binds a map[string]string field persisted as "Name.key=value" lines.
type mapping struct {
	scalar[map[string]string]
}

func (m *mapping) readEntries(entries map[string]string) {
	*m.ptr = maps.Clone(entries)
}

func (m *mapping) writeEntries() [][2]string {
	keys := slices.Sorted(maps.Keys(*m.ptr))
	return lo.Map(keys, func(k string, _ int) [2]string {
		return [2]string{k, (*m.ptr)[k]}
	})
}

// StringMap binds a dictionary field. Set and String use the compact "key=value,key=value" form.
func StringMap(name string, ptr *map[string]string, def map[string]string, description string) *Value {
	return &Value{
		Name:        name,
		Description: description,
		binding: &mapping{scalar[map[string]string]{
			ptr:   ptr,
			def:   def,
			parse: parsePairs,
			format: func(m map[string]string) string {
				keys := slices.Sorted(maps.Keys(m))
				return strings.Join(lo.Map(keys, func(k string, _ int) string { return k + "=" + m[k] }), ",")
			},
			clone: func(m map[string]string) map[string]string { return maps.Clone(m) },
		}},
	}
}

func parsePairs(s string) (map[string]string, error) {
	result := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.New("expected key=value pairs")
		}
		result[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return result, nil
}
