package semantic

import (
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

// Ancestor is a supertype reached from an origin type. Ref carries the
// generic arguments as seen from the origin (type variables of intermediate
// types substituted). Type is nil when the environment does not know Ref.
type Ancestor struct {
	Type     *Type
	Ref      jtype.Ref
	Distance int
}

type walkItem struct {
	t        *Type
	bindings map[string]jtype.Ref
	distance int
}

// Ancestors lists the supertypes of t breadth first: every type at distance
// n precedes those at n+1, the superclass precedes interfaces on each level
// and each type appears once (at its smallest distance).
func Ancestors(env Environment, t *Type) []Ancestor {
	if t == nil {
		return nil
	}
	var out []Ancestor
	seen := map[string]struct{}{t.Name: {}}
	queue := []walkItem{{t: t}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		for _, super := range item.t.SuperRefs() {
			ref := super.Substitute(item.bindings)
			if _, ok := seen[ref.Name()]; ok {
				continue
			}
			seen[ref.Name()] = struct{}{}

			anc := Ancestor{Ref: ref, Distance: item.distance + 1}
			if env != nil {
				if st, ok := env.Find(ref.Name()); ok {
					anc.Type = st
					queue = append(queue, walkItem{
						t:        st,
						bindings: bindArgs(st, ref),
						distance: anc.Distance,
					})
				}
			}
			out = append(out, anc)
		}
	}
	return out
}

// SuperclassChain follows only superclass links, nearest first.
func SuperclassChain(env Environment, t *Type) []Ancestor {
	var out []Ancestor
	seen := map[string]struct{}{}
	cur := t
	var bindings map[string]jtype.Ref
	for distance := 1; cur != nil && cur.Super != nil; distance++ {
		ref := cur.Super.Substitute(bindings)
		if _, ok := seen[ref.Name()]; ok {
			break
		}
		seen[ref.Name()] = struct{}{}
		anc := Ancestor{Ref: ref, Distance: distance}
		if env == nil {
			out = append(out, anc)
			break
		}
		next, ok := env.Find(ref.Name())
		if ok {
			anc.Type = next
			bindings = bindArgs(next, ref)
		}
		out = append(out, anc)
		if !ok {
			break
		}
		cur = next
	}
	return out
}

// TypeArguments returns the generic arguments of ancestor as seen from t.
// When t is ancestor itself its own type variables are returned. A raw
// supertype reference yields an empty, found result.
func TypeArguments(env Environment, t *Type, ancestor string) ([]jtype.Ref, bool) {
	if t == nil {
		return nil, false
	}
	if t.Name == ancestor {
		out := make([]jtype.Ref, len(t.TypeParams))
		for i, p := range t.TypeParams {
			out[i] = jtype.TypeVar(p.Name)
		}
		return out, true
	}
	for _, anc := range Ancestors(env, t) {
		if anc.Ref.Name() == ancestor {
			return anc.Ref.Args(), true
		}
	}
	return nil, false
}

// IsSubtypeOf reports whether t is name or inherits from it.
func IsSubtypeOf(env Environment, t *Type, name string) bool {
	if t == nil {
		return false
	}
	if t.Name == name {
		return true
	}
	for _, anc := range Ancestors(env, t) {
		if anc.Ref.Name() == name {
			return true
		}
	}
	return false
}

func bindArgs(t *Type, ref jtype.Ref) map[string]jtype.Ref {
	args := ref.Args()
	if len(t.TypeParams) == 0 || len(args) == 0 {
		return nil
	}
	out := make(map[string]jtype.Ref, len(t.TypeParams))
	for i, p := range t.TypeParams {
		if i < len(args) {
			out[p.Name] = args[i]
		}
	}
	return out
}
