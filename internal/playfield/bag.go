package playfield

import (
	"fmt"
	"math/rand"
	"strings"
)

// BagStrategy selects how piece sequences are generated.
type BagStrategy int

const (
	BagSeven    BagStrategy = iota // Permutation of all seven kinds
	BagFourteen                    // Two full sets shuffled together
	BagClassic                     // Seven independent uniform picks
	BagPairs                       // Seven independent picks, each doubled
)

var bagNames = map[BagStrategy]string{
	BagSeven:    "seven",
	BagFourteen: "fourteen",
	BagClassic:  "classic",
	BagPairs:    "pairs",
}

// String returns the config name of the strategy.
func (s BagStrategy) String() string {
	if name, ok := bagNames[s]; ok {
		return name
	}
	return fmt.Sprintf("BagStrategy(%d)", int(s))
}

// ParseBagStrategy converts a config name to a BagStrategy.
func ParseBagStrategy(name string) (BagStrategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range bagNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("playfield: unknown bag strategy %q", name)
}

// MarshalText encodes the strategy by name.
func (s BagStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a strategy name.
func (s *BagStrategy) UnmarshalText(text []byte) error {
	parsed, err := ParseBagStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// NewSequence generates one bag worth of kinds using the given strategy.
func NewSequence(s BagStrategy, rng *rand.Rand) []Kind {
	switch s {
	case BagFourteen:
		seq := append(AllKinds(), AllKinds()...)
		shuffle(seq, rng)
		return seq
	case BagClassic:
		seq := make([]Kind, KindCount)
		for i := range seq {
			seq[i] = Kind(rng.Intn(int(KindCount)))
		}
		return seq
	case BagPairs:
		seq := make([]Kind, 0, 2*KindCount)
		for i := 0; i < int(KindCount); i++ {
			k := Kind(rng.Intn(int(KindCount)))
			seq = append(seq, k, k)
		}
		return seq
	default:
		seq := AllKinds()
		shuffle(seq, rng)
		return seq
	}
}

func shuffle(seq []Kind, rng *rand.Rand) {
	rng.Shuffle(len(seq), func(i, j int) {
		seq[i], seq[j] = seq[j], seq[i]
	})
}

// Bag keeps the current and the following sequence so that lookahead can
// cross a bag boundary. The cursor always points at the active piece.
type Bag struct {
	strategy BagStrategy
	rng      *rand.Rand
	current  []Kind
	next     []Kind
	cursor   int
}

// NewBag creates a bag with two sequences already generated.
func NewBag(s BagStrategy, rng *rand.Rand) *Bag {
	b := &Bag{strategy: s, rng: rng}
	b.current = NewSequence(s, rng)
	b.next = NewSequence(s, rng)
	return b
}

// Strategy returns the strategy used to fill the bag.
func (b *Bag) Strategy() BagStrategy {
	return b.strategy
}

// Len returns the length of the current sequence, which bounds Peek.
func (b *Bag) Len() int {
	return len(b.current)
}

// Current returns the kind under the cursor.
func (b *Bag) Current() Kind {
	return b.current[b.cursor]
}

// Advance moves the cursor to the next kind, rolling over to a fresh sequence
// when the current one is exhausted, and returns the new current kind.
func (b *Bag) Advance() Kind {
	b.cursor++
	if b.cursor >= len(b.current) {
		b.current = b.next
		b.next = NewSequence(b.strategy, b.rng)
		b.cursor = 0
	}
	return b.current[b.cursor]
}

// Peek returns the kind that becomes current after n calls to Advance.
// Only one sequence beyond the current one exists, so n may not exceed the
// current sequence length.
func (b *Bag) Peek(n int) (Kind, error) {
	if n < 0 || n > len(b.current) {
		return 0, fmt.Errorf("%w: %d ahead, at most %d", ErrLookahead, n, len(b.current))
	}
	idx := b.cursor + n
	if idx < len(b.current) {
		return b.current[idx], nil
	}
	idx -= len(b.current)
	if idx >= len(b.next) {
		return 0, fmt.Errorf("%w: %d ahead", ErrLookahead, n)
	}
	return b.next[idx], nil
}

// Preview returns up to n upcoming kinds, nearest first.
func (b *Bag) Preview(n int) []Kind {
	out := make([]Kind, 0, n)
	for i := 1; i <= n; i++ {
		k, err := b.Peek(i)
		if err != nil {
			break
		}
		out = append(out, k)
	}
	return out
}
