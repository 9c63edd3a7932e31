package dto

import (
	"errors"
	"sort"
	"strings"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// Origin records how a Decision's command was reached.
type Origin uint8

const (
	OriginNone Origin = iota
	OriginOwn
	OriginDefaultSubtype
	OriginInherited
)

func (o Origin) String() string {
	switch o {
	case OriginOwn:
		return "own"
	case OriginDefaultSubtype:
		return "default subtype"
	case OriginInherited:
		return "inherited"
	default:
		return "none"
	}
}

// Decision is the generation decision for one model type. It is computed
// once per session and never changes afterwards.
type Decision struct {
	Owner *semantic.Type
	// Annotated is set when Owner itself carries a marker annotation.
	Annotated bool
	// Command is the effective command; CommandDefault means undecided.
	Command Command
	// Explicit is the command written on Owner's own marker.
	Explicit              Command
	DefaultSubtypeCommand Command
	// Target is the declared DTO class for CREATE and the bound DTO type a
	// USE node plugs into.
	Target         *jtype.Ref
	GenericOrdinal int
	// SuperType is the superclass of the DTO, set for CREATE decisions.
	SuperType  *jtype.Ref
	Interfaces []jtype.Ref

	Origin Origin
	// Source is the type whose marker decided Command.
	Source *semantic.Type
	// SuperSource is the model ancestor whose DTO is SuperType, if any.
	SuperSource *semantic.Type
	// Replaces is the node overridden through @Replace.
	Replaces *semantic.Type
}

// Decided reports whether an effective command was found.
func (d Decision) Decided() bool { return d.Command != CommandDefault }

// Decide resolves the decision of t. Results, errors included, are memoized
// for the lifetime of the session.
func (s *Session) Decide(t *semantic.Type) (Decision, error) {
	if t == nil {
		return Decision{}, errors.New("dto: type is nil")
	}
	if e, ok := s.decisions[t.Name]; ok {
		return e.d, e.err
	}
	if _, busy := s.resolving[t.Name]; busy {
		return Decision{}, newError(t.Name, ReasonCycle, "decision depends on itself")
	}
	s.resolving[t.Name] = struct{}{}
	d, err := s.decide(t)
	delete(s.resolving, t.Name)
	s.decisions[t.Name] = decisionEntry{d: d, err: err}
	return d, err
}

func (s *Session) decide(t *semantic.Type) (Decision, error) {
	d := Decision{Owner: t, GenericOrdinal: -1}
	m, err := s.marker(t)
	if err != nil {
		return d, err
	}
	if m.present {
		d.Annotated = true
		d.Explicit = m.command
		d.DefaultSubtypeCommand = m.defaultSubtype
		d.Target = m.target
		d.GenericOrdinal = m.ordinal
		d.Interfaces = m.interfaces
	}

	if m.present && m.command != CommandDefault {
		d.Command, d.Origin, d.Source = m.command, OriginOwn, t
	} else {
		cmd, src, err := s.subtypeDefault(t)
		if err != nil {
			return d, err
		}
		if cmd != CommandDefault {
			d.Command, d.Origin, d.Source = cmd, OriginDefaultSubtype, src
		} else if cmd, src, err := s.inherited(t); err != nil {
			return d, err
		} else if cmd != CommandDefault {
			d.Command, d.Origin, d.Source = cmd, OriginInherited, src
		}
	}

	if err := s.checkReplace(t, m, &d); err != nil {
		return d, err
	}

	switch d.Command {
	case CommandUse:
		target, err := s.useTarget(t, d.Source)
		if err != nil {
			return d, err
		}
		d.Target = &target
	case CommandCreate:
		superRef, src, err := s.dtoSuper(t)
		if err != nil {
			return d, err
		}
		d.SuperType, d.SuperSource = &superRef, src
	}
	return d, nil
}

// subtypeDefault finds the nearest ancestor level declaring a default
// subtype command. Differing commands on that level are ambiguous.
func (s *Session) subtypeDefault(t *semantic.Type) (Command, *semantic.Type, error) {
	type candidate struct {
		cmd Command
		src *semantic.Type
	}
	var found []candidate
	level := -1
	for _, anc := range semantic.Ancestors(s.env, t) {
		if level >= 0 && anc.Distance > level {
			break
		}
		if anc.Type == nil {
			continue
		}
		m, err := s.marker(anc.Type)
		if err != nil {
			return CommandDefault, nil, err
		}
		if !m.present || m.defaultSubtype == CommandDefault {
			continue
		}
		level = anc.Distance
		found = append(found, candidate{cmd: m.defaultSubtype, src: anc.Type})
	}
	if len(found) == 0 {
		return CommandDefault, nil, nil
	}
	for _, c := range found[1:] {
		if c.cmd != found[0].cmd {
			names := make([]string, len(found))
			for i, f := range found {
				names[i] = f.src.Name + "=" + f.cmd.String()
			}
			sort.Strings(names)
			return CommandDefault, nil, newError(t.Name, ReasonAmbiguous,
				"ancestors at distance %d declare differing default subtype commands: %s", level, strings.Join(names, ", "))
		}
	}
	return found[0].cmd, found[0].src, nil
}

// inherited returns the command of the nearest ancestor with an explicit
// command.
func (s *Session) inherited(t *semantic.Type) (Command, *semantic.Type, error) {
	for _, anc := range semantic.Ancestors(s.env, t) {
		if anc.Type == nil {
			continue
		}
		m, err := s.marker(anc.Type)
		if err != nil {
			return CommandDefault, nil, err
		}
		if m.present && m.command != CommandDefault {
			return m.command, anc.Type, nil
		}
	}
	return CommandDefault, nil, nil
}

// checkReplace validates an @Replace node against the node it overrides.
// An explicit command is always accepted. Without one the node must not
// turn a USE into a CREATE and must not name a different target.
func (s *Session) checkReplace(t *semantic.Type, m marker, d *Decision) error {
	if !t.HasAnnotation(scout.ReplaceAnnotation) || t.Super == nil {
		return nil
	}
	replaced, ok := s.env.Find(t.Super.Name())
	if !ok {
		return nil
	}
	d.Replaces = replaced
	if m.present && m.command != CommandDefault {
		return nil
	}
	rd, err := s.Decide(replaced)
	if err != nil {
		// The replaced node reports its own failure.
		return nil
	}
	if rd.Command == CommandUse && d.Command == CommandCreate {
		return newError(t.Name, ReasonReplaceConflict,
			"replaces %s which is USE but resolves to CREATE without an explicit sdkCommand", replaced.Name)
	}
	if m.target != nil && rd.Target != nil && !m.target.Raw().Equal(rd.Target.Raw()) {
		return newError(t.Name, ReasonReplaceConflict,
			"declares target %s but replaced %s uses %s; add an explicit sdkCommand", m.target.Raw(), replaced.Name, rd.Target.Raw())
	}
	return nil
}

func (s *Session) useTarget(t, src *semantic.Type) (jtype.Ref, error) {
	if src == nil {
		src = t
	}
	m, err := s.marker(src)
	if err != nil {
		return jtype.Ref{}, err
	}
	if m.target == nil {
		return jtype.Ref{}, newError(t.Name, ReasonMissingAttribute, "USE requires a value (decided by %s)", src.Name)
	}
	return s.bindGeneric(t, src, m)
}

// bindGeneric parameterizes the target of the USE marker declared on anc for
// the concrete type t. The marker's ordinal indexes the type arguments of
// anc as seen from t; when anc declares no type parameters the arguments of
// its direct superclass are used.
func (s *Session) bindGeneric(t, anc *semantic.Type, m marker) (jtype.Ref, error) {
	target := *m.target
	if m.ordinal < 0 {
		return target, nil
	}
	var args []jtype.Ref
	if len(anc.TypeParams) > 0 {
		args, _ = semantic.TypeArguments(s.env, t, anc.Name)
	} else if anc.Super != nil {
		args, _ = semantic.TypeArguments(s.env, t, anc.Super.Name())
	}
	if m.ordinal >= len(args) {
		return jtype.Ref{}, newError(t.Name, ReasonOrdinalOutOfRange,
			"genericOrdinal %d of %s exceeds the %d type argument(s) it is bound with", m.ordinal, anc.Name, len(args))
	}
	arg := s.concreteArg(t, args[m.ordinal])

	dt, ok := s.env.Find(target.Name())
	if !ok {
		return jtype.Ref{}, newError(t.Name, ReasonInvalidAttribute,
			"genericOrdinal %d needs the type parameters of %s, which is not described", m.ordinal, target.Name())
	}
	slots := len(dt.TypeParams)
	switch {
	case slots == 0:
		return target.Raw(), nil
	case slots == 1:
		return target.WithArgs(arg), nil
	case m.ordinal >= slots:
		return jtype.Ref{}, newError(t.Name, ReasonOrdinalOutOfRange,
			"genericOrdinal %d exceeds the %d type parameter(s) of %s", m.ordinal, slots, target.Name())
	}
	bound := make([]jtype.Ref, slots)
	for i := range bound {
		bound[i] = objectRef
	}
	bound[m.ordinal] = arg
	return target.WithArgs(bound...), nil
}

var objectRef = jtype.Class("java.lang.Object")

// concreteArg makes a type argument usable in a DTO declared for t: type
// variables t does not declare and unbounded wildcards become Object,
// bounded wildcards their bound, primitives their wrapper.
func (s *Session) concreteArg(t *semantic.Type, arg jtype.Ref) jtype.Ref {
	switch arg.Kind() {
	case jtype.KindTypeVar:
		for _, p := range t.TypeParams {
			if p.Name == arg.Name() {
				return arg
			}
		}
		return objectRef
	case jtype.KindWildcard:
		if b, inner, ok := arg.Bound(); ok && b == jtype.BoundExtends {
			return s.concreteArg(t, inner)
		}
		return objectRef
	default:
		return arg.Boxed()
	}
}
