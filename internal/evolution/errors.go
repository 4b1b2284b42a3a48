package evolution

import (
	"errors"
	"fmt"
)

var (
	// ErrEarthMissing is returned when the solar system has no body named Earth
	ErrEarthMissing = errors.New("launching body Earth is not configured")
	// ErrUnknownDestination is returned when the target planet names no configured body
	ErrUnknownDestination = errors.New("destination body is not configured")
	// ErrNoApproach is returned by PrepareTrace for a genome that never gets
	// closer to the destination than it was at launch
	ErrNoApproach = errors.New("trajectory never approaches the destination")
)

// ConfigError reports a search document the engine cannot run
type ConfigError struct {
	Reason error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid search configuration: %v", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Reason
}
