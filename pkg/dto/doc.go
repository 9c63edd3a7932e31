// Package dto turns UI-model types into data-transfer classes.
//
// A Session resolves the marker annotations of model types into Decisions,
// maps CREATE roots onto a DtoType tree (superclass, generic binding, ordered
// members) and emits Java source for it. Sessions memoize per type and are
// meant to live for one generation pass.
package dto
