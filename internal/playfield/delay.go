package playfield

import (
	"sort"
	"time"

	"github.com/kamstrup/intmap"
)

// DefaultTickDelay is used for levels below the lowest tabulated one.
const DefaultTickDelay = 800 * time.Millisecond

var defaultDelays = map[int]time.Duration{
	1:  800 * time.Millisecond,
	2:  717 * time.Millisecond,
	3:  633 * time.Millisecond,
	4:  550 * time.Millisecond,
	5:  467 * time.Millisecond,
	6:  383 * time.Millisecond,
	7:  300 * time.Millisecond,
	8:  217 * time.Millisecond,
	9:  133 * time.Millisecond,
	10: 100 * time.Millisecond,
	13: 83 * time.Millisecond,
	16: 67 * time.Millisecond,
	19: 50 * time.Millisecond,
	29: 33 * time.Millisecond,
}

// DelayTable maps levels to gravity intervals. Only some levels need an entry:
// a lookup falls back to the nearest lower tabulated level.
type DelayTable struct {
	delays   *intmap.Map[int, time.Duration]
	levels   []int // sorted keys of delays
	fallback time.Duration
}

// NewDelayTable returns an empty table that answers every lookup with fallback.
func NewDelayTable(fallback time.Duration) *DelayTable {
	return &DelayTable{
		delays:   intmap.New[int, time.Duration](32),
		fallback: fallback,
	}
}

// DefaultDelayTable returns the guideline-like curve from 800ms at level 1
// down to 33ms at level 29.
func DefaultDelayTable() *DelayTable {
	t := NewDelayTable(DefaultTickDelay)
	for level, d := range defaultDelays {
		t.Set(level, d)
	}
	return t
}

// Set stores the delay for a level, replacing any previous entry.
func (t *DelayTable) Set(level int, d time.Duration) {
	if _, ok := t.delays.Get(level); !ok {
		i := sort.SearchInts(t.levels, level)
		t.levels = append(t.levels, 0)
		copy(t.levels[i+1:], t.levels[i:])
		t.levels[i] = level
	}
	t.delays.Put(level, d)
}

// Lookup returns the delay for level.
func (t *DelayTable) Lookup(level int) time.Duration {
	if d, ok := t.delays.Get(level); ok {
		return d
	}
	// Index of the first tabulated level above the requested one.
	i := sort.SearchInts(t.levels, level+1)
	if i == 0 {
		return t.fallback
	}
	d, _ := t.delays.Get(t.levels[i-1])
	return d
}

// Fallback returns the delay used below the lowest tabulated level.
func (t *DelayTable) Fallback() time.Duration {
	return t.fallback
}

// Len returns the number of tabulated levels.
func (t *DelayTable) Len() int {
	return t.delays.Len()
}

// Levels returns the tabulated levels in ascending order.
func (t *DelayTable) Levels() []int {
	return append([]int(nil), t.levels...)
}
