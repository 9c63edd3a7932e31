package jtype

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse reads a Java source type signature such as
// "java.util.Map<java.lang.String, ? extends com.acme.Foo$Bar>[]".
// Package-less names are returned as class references; callers that know the
// type parameters in scope use MarkTypeVars to turn them into variables.
func Parse(signature string) (Ref, error) {
	p := &parser{src: signature}
	ref, err := p.parseType()
	if err != nil {
		return Ref{}, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return Ref{}, fmt.Errorf("jtype: unexpected %q at offset %d in %q", p.src[p.pos:], p.pos, signature)
	}
	return ref, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants and tests.
func MustParse(signature string) Ref {
	ref, err := Parse(signature)
	if err != nil {
		panic(err)
	}
	return ref
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("jtype: "+format+" in %q", append(args, p.src)...)
}

func (p *parser) parseType() (Ref, error) {
	var ref Ref
	if p.peek() == '?' {
		p.pos++
		ref = Wildcard()
		switch word := p.peekWord(); word {
		case "extends", "super":
			p.pos += len(word)
			bound, err := p.parseType()
			if err != nil {
				return Ref{}, err
			}
			if word == "extends" {
				ref = Extends(bound)
			} else {
				ref = Super(bound)
			}
		}
		return ref, nil
	}

	name := p.readName()
	if name == "" {
		if p.pos >= len(p.src) {
			return Ref{}, p.errorf("unexpected end of signature")
		}
		return Ref{}, p.errorf("expected type name at offset %d", p.pos)
	}
	if IsPrimitiveName(name) {
		ref = Primitive(name)
	} else {
		ref = Class(name)
		if p.peek() == '<' {
			p.pos++
			var args []Ref
			for {
				arg, err := p.parseType()
				if err != nil {
					return Ref{}, err
				}
				args = append(args, arg)
				c := p.peek()
				if c == ',' {
					p.pos++
					continue
				}
				if c == '>' {
					p.pos++
					break
				}
				return Ref{}, p.errorf("expected ',' or '>' at offset %d", p.pos)
			}
			ref = ref.WithArgs(args...)
		}
	}

	dims := 0
	for p.peek() == '[' {
		p.pos++
		if p.peek() != ']' {
			return Ref{}, p.errorf("expected ']' at offset %d", p.pos)
		}
		p.pos++
		dims++
	}
	if p.peekDots() {
		p.pos += 3
		dims++
	}
	return ref.Array(dims), nil
}

func (p *parser) peekDots() bool {
	p.skipSpace()
	return strings.HasPrefix(p.src[p.pos:], "...")
}

func (p *parser) peekWord() string {
	p.skipSpace()
	end := p.pos
	for end < len(p.src) && unicode.IsLetter(rune(p.src[end])) {
		end++
	}
	return p.src[p.pos:end]
}

func (p *parser) readName() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c == '.' && strings.HasPrefix(p.src[p.pos:], "...") {
			break
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '$' || c == '.' {
			p.pos++
			continue
		}
		break
	}
	return strings.Trim(p.src[start:p.pos], ".")
}
