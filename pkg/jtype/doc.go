// Package jtype models immutable references to Java types as handed out by the
// semantic model: classes (binary names, '$' separating member types) with
// generic arguments, primitives, type variables, wildcards and arrays. Refs
// are values; every transformation returns a copy.
package jtype
