package command

import (
	"errors"
	"fmt"
)

// ErrConstruction is matched by every error returned from Factory.Build.
var ErrConstruction = errors.New("command could not be built")

// ConstructionError describes a factory state that does not form a valid
// command: the kind is unknown or the parameters do not fit it.
type ConstructionError struct {
	Kind        Kind
	Easing      Easing
	Start       int
	End         int
	StartParams []float64
	EndParams   []float64
	Reason      string
}

func (e *ConstructionError) Error() string {
	kind := string(e.Kind)
	if kind == "" {
		kind = "<unset>"
	}
	return fmt.Sprintf("%v: %s (type=%s easing=%d start=%d end=%d start params=%v end params=%v)",
		ErrConstruction, e.Reason, kind, e.Easing, e.Start, e.End, e.StartParams, e.EndParams)
}

// Is reports whether target is ErrConstruction.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}
