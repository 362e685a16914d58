package model

import "github.com/rotisserie/eris"

// Sentinel errors for the analysis engine. Callers match them with
// errors.Is; eris wrapping preserves the chain.
var (
	// ErrDataIntegrity indicates malformed or duplicate baseline input.
	// Fatal to the run; no partial results are produced.
	ErrDataIntegrity = eris.New("data integrity violation")

	// ErrNotFound indicates a lookup of an unknown block or scenario.
	ErrNotFound = eris.New("not found")

	// ErrInvalidYear indicates an estimation year before the census baseline.
	ErrInvalidYear = eris.New("invalid year")

	// ErrUnresolvedConflict indicates finalize was attempted while
	// nonzero-population attribution issues remain un-overridden.
	ErrUnresolvedConflict = eris.New("unresolved attribution conflict")

	// ErrEmptyInput indicates balance analysis over zero wards.
	ErrEmptyInput = eris.New("empty input")

	// ErrDuplicateName indicates a scenario name collision within one run.
	ErrDuplicateName = eris.New("duplicate name")
)
