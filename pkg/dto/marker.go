package dto

import (
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// marker is the parsed @FormData or @PageData annotation of one type.
type marker struct {
	present        bool
	page           bool
	command        Command
	defaultSubtype Command
	target         *jtype.Ref
	ordinal        int
	interfaces     []jtype.Ref
}

func (s *Session) marker(t *semantic.Type) (marker, error) {
	if e, ok := s.markers[t.Name]; ok {
		return e.m, e.err
	}
	m, err := readMarker(t)
	s.markers[t.Name] = markerEntry{m: m, err: err}
	return m, err
}

func readMarker(t *semantic.Type) (marker, error) {
	m := marker{ordinal: -1}
	ann, ok := t.Annotation(scout.FormDataAnnotation)
	if !ok {
		ann, ok = t.Annotation(scout.PageDataAnnotation)
		if !ok {
			return m, nil
		}
		m.page = true
	}
	m.present = true

	target, present, err := ann.Class(scout.AttrValue)
	if err != nil {
		return m, newError(t.Name, ReasonInvalidAttribute, "%s.value: %v", ann.Type, err)
	}
	if present {
		m.target = &target
	}
	if m.page {
		m.command = CommandCreate
		return m, nil
	}

	if raw, ok := ann.String(scout.AttrSdkCommand); ok {
		if m.command, err = ParseCommand(raw); err != nil {
			return m, newError(t.Name, ReasonInvalidAttribute, "sdkCommand: %v", err)
		}
	}
	if raw, ok := ann.String(scout.AttrDefaultSubtypeSdkCommand); ok {
		if m.defaultSubtype, err = ParseSubtypeCommand(raw); err != nil {
			return m, newError(t.Name, ReasonInvalidAttribute, "defaultSubtypeSdkCommand: %v", err)
		}
	}
	if _, has := ann.Value(scout.AttrGenericOrdinal); has {
		ord, ok := ann.Int(scout.AttrGenericOrdinal)
		if !ok || ord < -1 {
			return m, newError(t.Name, ReasonInvalidAttribute, "genericOrdinal must be an integer >= -1")
		}
		m.ordinal = ord
	}
	if m.interfaces, err = ann.Classes(scout.AttrInterfaces); err != nil {
		return m, newError(t.Name, ReasonInvalidAttribute, "interfaces: %v", err)
	}
	return m, nil
}
