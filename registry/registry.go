// Package registry implements the designation-keyed registry shared by destinations and processors.
//
// Built-in items are registered once from an explicit factory table and must have unique
// designations. Plugin items are pulled from sources every time the registry is queried, so a
// plugin can change what it offers while the process runs.
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/snapkit-cli/snapkit/log"
)

// ErrDuplicate is returned when a built-in designation is registered twice.
var ErrDuplicate = errors.New("duplicate designation")

// Item is anything the registry can hold.
type Item interface {
	// Designation is the unique key used for lookup and display.
	Designation() string
	// IsActive reports whether the item can currently be used.
	IsActive() bool
	// Priority orders items sharing a designation; lower comes first.
	Priority() int
}

// Factory constructs one built-in item.
type Factory[T Item] struct {
	Name string
	New  func() (T, error)
}

// Source lists the items a plugin currently offers.
type Source[T Item] struct {
	Name string
	List func() ([]T, error)
}

// Registry holds built-in items and plugin sources of one kind.
type Registry[T Item] struct {
	kind string

	mu       sync.RWMutex
	builtins map[string]T
	sources  []Source[T]
	excluded map[string]struct{}
}

// New returns an empty registry. kind names the item type in log messages.
func New[T Item](kind string, excluded ...string) *Registry[T] {
	r := &Registry[T]{
		kind:     kind,
		builtins: make(map[string]T),
		excluded: make(map[string]struct{}),
	}
	r.Exclude(excluded...)
	return r
}

// Exclude suppresses the given designations. Already registered built-ins are kept but hidden.
func (r *Registry[T]) Exclude(designations ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range designations {
		r.excluded[d] = struct{}{}
	}
}

// Excluded reports whether designation is suppressed.
func (r *Registry[T]) Excluded(designation string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.excluded[designation]
	return ok
}

// Register adds a built-in item. Excluded designations are skipped without error.
// A designation that is already registered yields ErrDuplicate and leaves the first item in place.
func (r *Registry[T]) Register(item T) error {
	if isNil(item) {
		return fmt.Errorf("register nil %s", r.kind)
	}

	designation, err := designationOf(item)
	if err != nil {
		return fmt.Errorf("register %s: %w", r.kind, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.excluded[designation]; ok {
		log.Debugf("Excluded %s %s", r.kind, designation)
		return nil
	}

	if _, ok := r.builtins[designation]; ok {
		return fmt.Errorf("%w: %s %q", ErrDuplicate, r.kind, designation)
	}

	r.builtins[designation] = item
	return nil
}

// Discover constructs every factory and registers the active results.
// Construction failures and inactive items are logged and skipped; duplicates abort discovery.
func (r *Registry[T]) Discover(factories []Factory[T]) error {
	for _, factory := range factories {
		item, err := construct(factory)
		if err != nil {
			log.Errorf("Can't create %s %s: %v", r.kind, factory.Name, err)
			continue
		}

		designation, active, err := describe(item)
		if err != nil {
			log.Errorf("Can't query %s %s: %v", r.kind, factory.Name, err)
			continue
		}

		if !active {
			log.Debugf("Ignoring %s %s with designation %s", r.kind, factory.Name, designation)
			continue
		}

		log.Debugf("Found %s %s with designation %s", r.kind, factory.Name, designation)
		if err := r.Register(item); err != nil {
			return err
		}
	}

	return nil
}

// AddSource attaches a plugin source. Sources are queried in the order they were added.
func (r *Registry[T]) AddSource(name string, list func() ([]T, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sources = append(r.sources, Source[T]{Name: name, List: list})
}

// Builtins returns the registered built-in items that are not excluded, sorted.
func (r *Registry[T]) Builtins() []T {
	r.mu.RLock()
	items := lo.Filter(lo.Values(r.builtins), func(item T, _ int) bool {
		_, excluded := r.excluded[item.Designation()]
		return !excluded
	})
	r.mu.RUnlock()

	sortItems(items)
	return items
}

// Plugins returns the items offered by all sources, excluded designations removed,
// in source registration order. A failing source is logged and skipped.
func (r *Registry[T]) Plugins() []T {
	r.mu.RLock()
	sources := slices.Clone(r.sources)
	r.mu.RUnlock()

	var items []T
	for _, src := range sources {
		listed, err := list(src)
		if err != nil {
			log.Errorf("Couldn't get %ss from the plugin %s: %v", r.kind, src.Name, err)
			continue
		}

		for _, item := range listed {
			designation, _, err := describe(item)
			if err != nil {
				log.Errorf("Skipping %s from the plugin %s: %v", r.kind, src.Name, err)
				continue
			}

			if r.Excluded(designation) {
				continue
			}

			items = append(items, item)
		}
	}

	return items
}

// All returns built-ins and plugin items with unique designations, sorted by designation.
// A built-in shadows a plugin item with the same designation; among plugins the first one wins.
func (r *Registry[T]) All() []T {
	items := r.Builtins()
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.Designation()] = struct{}{}
	}

	for _, item := range r.Plugins() {
		designation := item.Designation()
		if _, ok := seen[designation]; ok {
			continue
		}
		seen[designation] = struct{}{}
		items = append(items, item)
	}

	sortItems(items)
	return items
}

// Find resolves a designation, preferring built-ins over plugin items.
// An unknown designation is an ordinary outcome and yields mo.None.
func (r *Registry[T]) Find(designation string) mo.Option[T] {
	if designation == "" {
		return mo.None[T]()
	}

	r.mu.RLock()
	item, ok := r.builtins[designation]
	_, excluded := r.excluded[designation]
	r.mu.RUnlock()

	if ok && !excluded {
		return mo.Some(item)
	}

	for _, item := range r.Plugins() {
		if item.Designation() == designation {
			return mo.Some(item)
		}
	}

	return mo.None[T]()
}

// Resolve is Find restricted to active items; dispatchers use it before invoking an item.
func (r *Registry[T]) Resolve(designation string) mo.Option[T] {
	item, ok := r.Find(designation).Get()
	if !ok {
		return mo.None[T]()
	}

	if _, active, err := describe(item); err != nil || !active {
		log.Debugf("%s %s is not active", r.kind, designation)
		return mo.None[T]()
	}

	return mo.Some(item)
}

// Designations returns the designations of All.
func (r *Registry[T]) Designations() []string {
	return lo.Map(r.All(), func(item T, _ int) string {
		return item.Designation()
	})
}

func sortItems[T Item](items []T) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Or(
			cmp.Compare(a.Designation(), b.Designation()),
			cmp.Compare(a.Priority(), b.Priority()),
		)
	})
}

func construct[T Item](factory Factory[T]) (item T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	item, err = factory.New()
	if err == nil && isNil(item) {
		err = errors.New("factory returned nil")
	}
	return item, err
}

func designationOf[T Item](item T) (designation string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return item.Designation(), nil
}

func describe[T Item](item T) (designation string, active bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	if isNil(item) {
		return "", false, errors.New("nil item")
	}
	return item.Designation(), item.IsActive(), nil
}

func list[T Item](src Source[T]) (items []T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return src.List()
}

func isNil[T Item](item T) bool {
	return any(item) == nil
}
