package dto

import (
	"errors"
	"fmt"
)

// Reason classifies a ResolutionError.
type Reason string

const (
	ReasonMissingAttribute  Reason = "missing attribute"
	ReasonInvalidAttribute  Reason = "invalid attribute"
	ReasonAmbiguous         Reason = "ambiguous decision"
	ReasonOrdinalOutOfRange Reason = "generic ordinal out of range"
	ReasonReplaceConflict   Reason = "replace conflict"
	ReasonDuplicateMember   Reason = "duplicate member"
	ReasonCycle             Reason = "cyclic resolution"
)

var (
	ErrMissingAttribute  = errors.New("dto: missing attribute")
	ErrInvalidAttribute  = errors.New("dto: invalid attribute")
	ErrAmbiguous         = errors.New("dto: ambiguous decision")
	ErrOrdinalOutOfRange = errors.New("dto: generic ordinal out of range")
	ErrReplaceConflict   = errors.New("dto: replace conflict")
	ErrDuplicateMember   = errors.New("dto: duplicate member")
	ErrCycle             = errors.New("dto: cyclic resolution")

	// ErrNotRoot reports a type that does not produce a top-level DTO.
	ErrNotRoot = errors.New("dto: type is not a DTO root")
)

var reasonSentinels = map[Reason]error{
	ReasonMissingAttribute:  ErrMissingAttribute,
	ReasonInvalidAttribute:  ErrInvalidAttribute,
	ReasonAmbiguous:         ErrAmbiguous,
	ReasonOrdinalOutOfRange: ErrOrdinalOutOfRange,
	ReasonReplaceConflict:   ErrReplaceConflict,
	ReasonDuplicateMember:   ErrDuplicateMember,
	ReasonCycle:             ErrCycle,
}

// ResolutionError is a per-type failure. It never aborts a batch; callers
// report it with the type identity and continue.
type ResolutionError struct {
	Type   string
	Reason Reason
	Msg    string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("dto: %s: %s: %s", e.Type, e.Reason, e.Msg)
}

// Is matches the sentinel of the reason.
func (e *ResolutionError) Is(target error) bool {
	return reasonSentinels[e.Reason] == target
}

func newError(typeName string, reason Reason, format string, args ...any) *ResolutionError {
	return &ResolutionError{Type: typeName, Reason: reason, Msg: fmt.Sprintf(format, args...)}
}
