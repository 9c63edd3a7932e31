// Package generator composes Java source from a tree of builders: a
// compilation unit owns one primary type plus secondary types, a type owns an
// ordered list of fields, methods and nested types. Names are requested from
// an imports.Resolver while the body is written; import lines are emitted
// only after the whole body is complete.
package generator
