package playfield

import (
	"fmt"
	"strings"
)

// LockReset selects which actions refill the lock-delay counter.
type LockReset int

const (
	// LockResetMove refills the counter on every successful gravity step and,
	// up to MaxLockResets times per piece, on successful moves and rotations.
	LockResetMove LockReset = iota
	// LockResetStep refills the counter only when the piece falls a row.
	LockResetStep
)

// String returns the config name of the policy.
func (r LockReset) String() string {
	switch r {
	case LockResetMove:
		return "move"
	case LockResetStep:
		return "step"
	default:
		return fmt.Sprintf("LockReset(%d)", int(r))
	}
}

// ParseLockReset converts a config name to a LockReset.
func ParseLockReset(name string) (LockReset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "move":
		return LockResetMove, nil
	case "step":
		return LockResetStep, nil
	}
	return 0, fmt.Errorf("playfield: unknown lock reset policy %q", name)
}

// MarshalText encodes the policy by name.
func (r LockReset) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a policy name.
func (r *LockReset) UnmarshalText(text []byte) error {
	parsed, err := ParseLockReset(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Config holds everything a Board needs. It is built once at startup and
// passed to NewBoard; the board never reads configuration from anywhere else.
type Config struct {
	Width  int // Columns, at least 4
	Height int // Rows including the hidden spawn rows, at least 4

	LockDelay     int       // Blocked gravity steps before a resting piece locks
	LockReset     LockReset // Which actions refill the lock counter
	MaxLockResets int       // Cap on move/rotate refills per piece (LockResetMove only)

	SoftDropFactor int         // Gravity divisor while soft dropping
	Delays         *DelayTable // Level to gravity interval; nil means DefaultDelayTable

	Bag         BagStrategy
	StartLevel  int
	Progression bool // Whether clearing lines raises the level
	ComboReset  bool // Whether a lock without clears breaks the combo chain
	HoldEnabled bool
}

// DefaultConfig returns the standard 10x24 setup.
func DefaultConfig() Config {
	return Config{
		Width:          10,
		Height:         24,
		LockDelay:      3,
		LockReset:      LockResetMove,
		MaxLockResets:  15,
		SoftDropFactor: 8,
		Delays:         DefaultDelayTable(),
		Bag:            BagSeven,
		StartLevel:     1,
		Progression:    true,
		ComboReset:     true,
		HoldEnabled:    true,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Width < 4:
		return fmt.Errorf("%w: width %d is below 4", ErrInvalidConfig, c.Width)
	case c.Height < 4:
		return fmt.Errorf("%w: height %d is below 4", ErrInvalidConfig, c.Height)
	case c.LockDelay < 1:
		return fmt.Errorf("%w: lock delay must be positive, got %d", ErrInvalidConfig, c.LockDelay)
	case c.MaxLockResets < 0:
		return fmt.Errorf("%w: max lock resets must not be negative, got %d", ErrInvalidConfig, c.MaxLockResets)
	case c.SoftDropFactor < 1:
		return fmt.Errorf("%w: soft drop factor must be positive, got %d", ErrInvalidConfig, c.SoftDropFactor)
	case c.StartLevel < 1:
		return fmt.Errorf("%w: start level must be at least 1, got %d", ErrInvalidConfig, c.StartLevel)
	}
	if _, ok := bagNames[c.Bag]; !ok {
		return fmt.Errorf("%w: unknown bag strategy %d", ErrInvalidConfig, int(c.Bag))
	}
	if c.LockReset != LockResetMove && c.LockReset != LockResetStep {
		return fmt.Errorf("%w: unknown lock reset policy %d", ErrInvalidConfig, int(c.LockReset))
	}
	return nil
}
