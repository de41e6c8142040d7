package playfield

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativePosition is returned when a computed cell coordinate would
	// fall above the top row or left of the first column.
	ErrNegativePosition = errors.New("playfield: negative position")

	// ErrCollision is returned when a piece's cells overlap a locked cell or
	// leave the grid.
	ErrCollision = errors.New("playfield: collision")

	// ErrTopOut signals that a freshly spawned piece collided. The session is
	// over once it has been returned.
	ErrTopOut = fmt.Errorf("playfield: top out: %w", ErrCollision)

	// ErrLookahead is returned when peeking further ahead than the bags that
	// have been generated.
	ErrLookahead = errors.New("playfield: lookahead beyond materialized bags")

	// ErrInvalidConfig wraps every board construction failure.
	ErrInvalidConfig = errors.New("playfield: invalid config")
)
