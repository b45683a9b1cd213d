// Package mintroops finds the smallest attacking force that reaches a target
// probability of conquering an entire defended chain. It treats the battle
// engine as an oracle and relies on full-conquest probability being
// non-decreasing in the attacking troop count.
package mintroops

import (
	"fmt"
	"log/slog"

	"github.com/cswallow/risk-battle-odds/internal/battle"
)

// DefaultHiStart is the initial upper bound tried before bracket doubling.
const DefaultHiStart = 8

// Partial is the fixed side of the search: everything in a battle config
// except the attacking troop count. Zero values for Stop and HiStart take
// the defaults (1 and DefaultHiStart).
type Partial struct {
	Defense      []int
	AttackSides  []int
	DefenseSides []int
	Stop         int
	HiStart      int
}

// Find returns the minimal attacking troop count whose probability of
// conquering every territory is at least target, along with that exact
// probability. The upper bound is doubled until it meets the target (the
// lower bound sliding up behind it), then the bracket is bisected.
func Find(target float64, part Partial) (int, float64, error) {
	if target <= 0 || target >= 1 {
		return 0, 0, fmt.Errorf("target probability must be strictly between 0 and 1, got %v", target)
	}

	stop := part.Stop
	if stop == 0 {
		stop = 1
	}

	winProb := func(attack int) (float64, error) {
		cfg, err := battle.NewConfig(attack, part.Defense, part.AttackSides, part.DefenseSides, stop)
		if err != nil {
			return 0, err
		}
		return battle.CalcWinProb(cfg), nil
	}

	// Anything at or below the stop threshold never fights, so the search
	// starts just above it.
	lo := stop + 1
	hi := part.HiStart
	if hi == 0 {
		hi = DefaultHiStart
	}
	if hi < lo {
		hi = lo
	}

	slog.Debug("testing upper bound", "troops", hi)
	p, err := winProb(hi)
	if err != nil {
		return 0, 0, err
	}
	for p < target {
		lo = hi + 1
		hi *= 2
		slog.Debug("upper bound too low, doubling", "lo", lo, "hi", hi)
		if p, err = winProb(hi); err != nil {
			return 0, 0, err
		}
	}

	troops := hi
	for lo <= hi {
		troops = (lo + hi) / 2
		if p, err = winProb(troops); err != nil {
			return 0, 0, err
		}
		slog.Debug("bisecting", "troops", troops, "prob", p)
		if p < target {
			lo = troops + 1
		} else if p > target {
			hi = troops - 1
		} else {
			break
		}
	}

	// Midpoint rounding can leave the search one below the target.
	if p < target {
		troops++
		if p, err = winProb(troops); err != nil {
			return 0, 0, err
		}
		slog.Debug("incrementing past rounding", "troops", troops, "prob", p)
	}

	return troops, p, nil
}
