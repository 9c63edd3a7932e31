package generator

import "strings"

// Flags is the modifier set of a generated element.
type Flags uint32

const (
	Public Flags = 1 << iota
	Protected
	Private
	Abstract
	Static
	Final
	Interface
)

const visibility = Public | Protected | Private

// modifierOrder is the order modifiers appear in source.
var modifierOrder = []struct {
	flag Flags
	word string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
}

// Set returns f with the bits of o added. Visibility bits in o replace the
// existing visibility.
func (f Flags) Set(o Flags) Flags {
	if o&visibility != 0 {
		f = f.WithVisibility(o & visibility)
	}
	return f | (o &^ visibility)
}

// Clear returns f without the bits of o.
func (f Flags) Clear(o Flags) Flags { return f &^ o }

// WithVisibility clears every visibility bit before applying v. Passing 0
// yields package-private visibility.
func (f Flags) WithVisibility(v Flags) Flags {
	return f&^visibility | v&visibility
}

// Has reports whether all bits of o are set.
func (f Flags) Has(o Flags) bool { return f&o == o }

// Visibility returns the visibility bits of f.
func (f Flags) Visibility() Flags { return f & visibility }

// String renders the modifiers in source order. Interface is not a modifier
// and is never rendered.
func (f Flags) String() string {
	var words []string
	for _, m := range modifierOrder {
		if f.Has(m.flag) {
			words = append(words, m.word)
		}
	}
	return strings.Join(words, " ")
}
