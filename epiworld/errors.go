package epiworld

import "github.com/pkg/errors"

// Sentinel errors forming the taxonomy from spec.md §7. Call sites wrap
// these with github.com/pkg/errors to attach context, the way
// evoepi_config.go wraps domain errors before returning them to callers.
var (
	// ErrInvalidArgument flags an illegal parameter: negative prevalence,
	// burnin >= samples, a probability above 1, and similar.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfRange flags an index or id outside its valid bounds.
	ErrOutOfRange = errors.New("out of range")
	// ErrOwnershipViolation flags an attempt to mutate an entity through
	// an agent that does not own it.
	ErrOwnershipViolation = errors.New("ownership violation")
	// ErrUnknownEntity flags a reference to a virus or tool not registered
	// with the model.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUninitialized flags use of the model before Init.
	ErrUninitialized = errors.New("model not initialized")
	// ErrIOFailure flags a missing or malformed input file.
	ErrIOFailure = errors.New("io failure")
	// ErrLogicBug flags an invariant violation caught by a debug-only
	// assertion; it should never surface in a correct release build.
	ErrLogicBug = errors.New("logic bug")
)
