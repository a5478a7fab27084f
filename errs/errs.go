// Package errs defines the structural-failure taxonomy for optigo.
//
// Per-ray numerical failures (missed intersection, TIR, aperture clip,
// invalid geometry input) never surface here: they collapse to a dead
// ray inside a batch (see raytrace). Only configuration and entry-point
// failures that abort a whole trace are typed errors.
package errs

import "github.com/cpmech/gosl/chk"

// Kind discriminates the fatal error taxonomy of spec.md §7.
type Kind int

const (
	MaterialDataMissing Kind = iota
	UnknownSurfaceType
	UnknownDistribution
	UnknownAimStrategy
	RedefinitionOfStop
	TelecentricFieldConflict
	ParaxialSingularity
	InvalidConfiguration
)

func (k Kind) String() string {
	switch k {
	case MaterialDataMissing:
		return "MaterialDataMissing"
	case UnknownSurfaceType:
		return "UnknownSurfaceType"
	case UnknownDistribution:
		return "UnknownDistribution"
	case UnknownAimStrategy:
		return "UnknownAimStrategy"
	case RedefinitionOfStop:
		return "RedefinitionOfStop"
	case TelecentricFieldConflict:
		return "TelecentricFieldConflict"
	case ParaxialSingularity:
		return "ParaxialSingularity"
	case InvalidConfiguration:
		return "InvalidConfiguration"
	}
	return "Unknown"
}

// Error is a structural/configuration failure, always fatal to the
// calling operation (never raised from inside a per-ray loop).
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// New builds a typed Error, routed through gosl/chk.Err so the message
// carries the same call-site formatting the rest of the module uses.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: chk.Err(format, args...).Error()}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
