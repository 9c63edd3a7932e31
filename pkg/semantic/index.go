package semantic

import (
	"errors"
	"fmt"
	"sort"
)

// ErrTypeNotFound reports a type name the environment does not know.
var ErrTypeNotFound = errors.New("semantic: type not found")

// Environment is the read-only view of the semantic model the generator
// resolves names and hierarchies against.
type Environment interface {
	// Find returns the type with the given binary name.
	Find(name string) (*Type, bool)
	// Types returns every known type (nested types included) sorted by name.
	Types() []*Type
}

// Index is an in-memory Environment built from descriptors.
type Index struct {
	types   map[string]*Type
	sources map[string][]string
}

// Ensure the implementation satisfies the public interface.
var _ Environment = (*Index)(nil)

// NewIndex registers the supplied top-level types and their nested members.
func NewIndex(types ...*Type) (*Index, error) {
	idx := &Index{
		types:   make(map[string]*Type),
		sources: make(map[string][]string),
	}
	for _, t := range types {
		if err := idx.Add(t); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Add registers a top-level type and its members. Duplicate names fail.
func (x *Index) Add(t *Type) error {
	if t == nil {
		return errors.New("semantic: type is nil")
	}
	if t.Name == "" {
		return errors.New("semantic: type name is required")
	}
	if err := x.add(t, nil, 0); err != nil {
		return err
	}
	if t.Source != "" {
		x.sources[t.Source] = append(x.sources[t.Source], t.Name)
	}
	return nil
}

func (x *Index) add(t *Type, declaring *Type, index int) error {
	if _, exists := x.types[t.Name]; exists {
		return fmt.Errorf("semantic: duplicate type %q", t.Name)
	}
	t.declaring = declaring
	t.index = index
	x.types[t.Name] = t
	for i, m := range t.Members {
		if m.Source == "" {
			m.Source = t.Source
		}
		if err := x.add(m, t, i); err != nil {
			return err
		}
	}
	return nil
}

// Merge adds every top-level type of other into x.
func (x *Index) Merge(other *Index) error {
	if other == nil {
		return nil
	}
	for _, t := range other.TopLevel() {
		if err := x.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the type with the given binary name.
func (x *Index) Find(name string) (*Type, bool) {
	if x == nil {
		return nil, false
	}
	t, ok := x.types[name]
	return t, ok
}

// Lookup is Find with an ErrTypeNotFound error.
func (x *Index) Lookup(name string) (*Type, error) {
	return Lookup(x, name)
}

// Types returns every registered type sorted by name.
func (x *Index) Types() []*Type {
	if x == nil {
		return nil
	}
	out := make([]*Type, 0, len(x.types))
	for _, t := range x.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TopLevel returns the registered top-level types sorted by name.
func (x *Index) TopLevel() []*Type {
	var out []*Type
	for _, t := range x.Types() {
		if t.declaring == nil {
			out = append(out, t)
		}
	}
	return out
}

// TypesFromSource lists the top-level types declared by a descriptor file.
func (x *Index) TypesFromSource(source string) []string {
	if x == nil {
		return nil
	}
	names := append([]string(nil), x.sources[source]...)
	sort.Strings(names)
	return names
}

// Lookup returns the named type from env or an error wrapping ErrTypeNotFound.
func Lookup(env Environment, name string) (*Type, error) {
	if env == nil {
		return nil, errors.New("semantic: environment is nil")
	}
	t, ok := env.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	return t, nil
}
