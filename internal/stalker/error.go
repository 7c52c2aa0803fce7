package stalker

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSize      = errors.New("grid dimensions must be positive")
	ErrOutOfBounds      = errors.New("position is out of bounds")
	ErrHazardOnEndpoint = errors.New("start and goal cannot be hazards")

	ErrEmptyPath         = errors.New("path is empty")
	ErrPathEndpoints     = errors.New("path does not connect start and goal")
	ErrPathDiscontinuous = errors.New("path contains a non-orthogonal step")
	ErrPathHazard        = errors.New("path steps on a hazard")
)

// ConfigError reports a grid that cannot be searched. Err is one of
// ErrInvalidSize, ErrOutOfBounds or ErrHazardOnEndpoint.
type ConfigError struct {
	Field string
	Pos   Position
	Err   error
}

// [ConfigError] implements [error]
func (e *ConfigError) Error() string {
	if e.Field == "size" {
		return fmt.Sprintf("invalid grid %s: %s", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid grid %s %s: %s", e.Field, e.Pos, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
