// Package semantic is the read-only semantic model the DTO generator works
// against: Java types with their modifiers, supertypes (generic arguments
// included), type parameters, annotations, methods and nested types.
//
// Types are described by model descriptors instead of parsed Java source.
// LoadFS accepts JSON and YAML documents sharing one schema and HCL documents
// using equivalent blocks. Nested types use simple names; their binary names
// are derived from the enclosing type (Outer$Inner). Supertype signatures are
// Java source signatures and may reference the type parameters in scope.
package semantic
