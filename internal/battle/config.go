package battle

import (
	"fmt"
	"slices"
)

// DefaultSides is the side count assumed when a config leaves dice
// unspecified.
const DefaultSides = 6

// Config is a validated, normalized description of one engagement. Attack
// troops start on the territory adjacent to Defense[0] and fight through the
// chain in order. All per-territory slices have the same length once a
// Config has been constructed. Treat as immutable.
type Config struct {
	Attack       int
	Defense      []int
	AttackSides  []int
	DefenseSides []int
	Stop         int
}

// NewConfig validates and normalizes an engagement description. Side-count
// slices may be nil (defaults to six-sided dice), a single value (broadcast
// to every territory) or one value per territory. Validation happens here,
// before any computation: attack must exceed 1, every defense troop and side
// count must be positive, and stop must be positive.
func NewConfig(attack int, defense, attackSides, defenseSides []int, stop int) (Config, error) {
	if attack <= 1 {
		return Config{}, fmt.Errorf("attack troops must be greater than 1, got %d", attack)
	}
	if len(defense) == 0 {
		return Config{}, fmt.Errorf("at least one defended territory is required")
	}
	if stop <= 0 {
		return Config{}, fmt.Errorf("stop threshold must be positive, got %d", stop)
	}
	for i, d := range defense {
		if d <= 0 {
			return Config{}, fmt.Errorf("defense troops on territory %d must be positive, got %d", i, d)
		}
	}

	n := len(defense)
	aSides, err := broadcastSides("attack sides", attackSides, n)
	if err != nil {
		return Config{}, err
	}
	dSides, err := broadcastSides("defense sides", defenseSides, n)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Attack:       attack,
		Defense:      slices.Clone(defense),
		AttackSides:  aSides,
		DefenseSides: dSides,
		Stop:         stop,
	}, nil
}

// broadcastSides applies the scalar-to-list normalization rule for side
// counts.
func broadcastSides(name string, sides []int, n int) ([]int, error) {
	var out []int
	switch len(sides) {
	case 0:
		out = make([]int, n)
		for i := range out {
			out[i] = DefaultSides
		}
	case 1:
		out = make([]int, n)
		for i := range out {
			out[i] = sides[0]
		}
	case n:
		out = slices.Clone(sides)
	default:
		return nil, fmt.Errorf("%s has %d values, want 1 or %d", name, len(sides), n)
	}
	for i, s := range out {
		if s <= 0 {
			return nil, fmt.Errorf("%s for territory %d must be positive, got %d", name, i, s)
		}
	}
	return out, nil
}

// NumTerritories returns the length of the defended chain.
func (c Config) NumTerritories() int { return len(c.Defense) }

// WithDefenseAdded returns a copy of the config with one more defending
// troop on the given territory. The receiver is not modified.
func (c Config) WithDefenseAdded(territory int) Config {
	defense := slices.Clone(c.Defense)
	defense[territory]++
	out := c
	out.Defense = defense
	return out
}

// WithAttack returns a copy of the config with a different attacking troop
// count.
func (c Config) WithAttack(attack int) Config {
	out := c
	out.Attack = attack
	return out
}
