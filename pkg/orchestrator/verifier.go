package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/dto"
)

// ErrRejected is wrapped by errors of verifiers that refuse a result.
var ErrRejected = errors.New("orchestrator: result rejected")

// Verifier checks a rendered DTO before it reaches the sink. Implementations
// typically hand the source to an external compiler.
type Verifier interface {
	Verify(ctx context.Context, result dto.Result) error
}

// VerifierFunc adapts plain functions to the Verifier interface.
type VerifierFunc func(ctx context.Context, result dto.Result) error

// Verify executes the wrapped function when non-nil.
func (fn VerifierFunc) Verify(ctx context.Context, result dto.Result) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, result)
}

// SourceVerifier performs cheap structural checks on emitted source: the
// package declaration matches the result, the DTO class is declared and
// braces balance outside string literals.
type SourceVerifier struct{}

// Verify implements Verifier.
func (SourceVerifier) Verify(_ context.Context, result dto.Result) error {
	if result.Package != "" && !strings.Contains(result.Source, "package "+result.Package+";") {
		return fmt.Errorf("%w: %s: missing package declaration %q", ErrRejected, result.ModelType, result.Package)
	}
	simple := result.DtoType
	if idx := strings.LastIndexAny(simple, ".$"); idx >= 0 {
		simple = simple[idx+1:]
	}
	if !strings.Contains(result.Source, "class "+simple+" ") && !strings.Contains(result.Source, "class "+simple+"<") {
		return fmt.Errorf("%w: %s: class %s not declared", ErrRejected, result.ModelType, simple)
	}
	if depth := braceDepth(result.Source); depth != 0 {
		return fmt.Errorf("%w: %s: unbalanced braces (%d)", ErrRejected, result.ModelType, depth)
	}
	return nil
}

func braceDepth(source string) int {
	depth := 0
	inString, escaped := false, false
	for _, r := range source {
		switch {
		case escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == '{':
			depth++
		case r == '}':
			depth--
		}
	}
	return depth
}
