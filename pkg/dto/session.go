package dto

import (
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// Session is the per-pass context every resolver call goes through. It
// memoizes markers, kinds and decisions by type identity. A Session is not
// safe for concurrent use.
type Session struct {
	env      semantic.Environment
	sanitize func(string) string

	markers   map[string]markerEntry
	kinds     map[string]Kind
	decisions map[string]decisionEntry
	resolving map[string]struct{}
}

type markerEntry struct {
	m   marker
	err error
}

type decisionEntry struct {
	d   Decision
	err error
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithDocSanitizer replaces the javadoc sanitizer. Passing nil keeps the
// model documentation unchanged.
func WithDocSanitizer(fn func(string) string) SessionOption {
	return func(s *Session) {
		s.sanitize = fn
	}
}

// NewSession opens a session over env.
func NewSession(env semantic.Environment, opts ...SessionOption) *Session {
	s := &Session{
		env:      env,
		sanitize: SanitizeDoc,
	}
	s.reset()
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Environment returns the semantic environment of the session.
func (s *Session) Environment() semantic.Environment { return s.env }

// Close drops every memoized result.
func (s *Session) Close() {
	s.reset()
}

func (s *Session) reset() {
	s.markers = make(map[string]markerEntry)
	s.kinds = make(map[string]Kind)
	s.decisions = make(map[string]decisionEntry)
	s.resolving = make(map[string]struct{})
}

// Kind classifies t.
func (s *Session) Kind(t *semantic.Type) Kind {
	if k, ok := s.kinds[t.Name]; ok {
		return k
	}
	k := classify(s.env, t)
	s.kinds[t.Name] = k
	return k
}

func (s *Session) doc(text string) string {
	if s.sanitize == nil {
		return text
	}
	return s.sanitize(text)
}
