package sprig

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors wrap one of these and are matched with errors.Is.
var (
	// ErrConfig reports bad configuration: unknown phases, settings keys,
	// missing transitions.
	ErrConfig = errors.New("configuration error")
	// ErrInvariant reports a broken scene-graph invariant such as an
	// overlapping grid cell. Mutators panic with an error wrapping it.
	ErrInvariant = errors.New("invariant violation")
	// ErrResource reports an art, font, mask or sound asset that could not
	// be loaded.
	ErrResource = errors.New("resource error")
	// ErrUnknownSound is returned when a sound name is not in the catalog.
	ErrUnknownSound = errors.New("unknown sound")
)

// invariant panics with an error wrapping ErrInvariant.
func invariant(format string, args ...any) {
	panic(fmt.Errorf("sprig: %w: %s", ErrInvariant, fmt.Sprintf(format, args...)))
}

func configError(format string, args ...any) error {
	return fmt.Errorf("sprig: %w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func resourceError(what string, err error) error {
	return fmt.Errorf("sprig: %w: %s: %w", ErrResource, what, err)
}
