// Package battle computes exact outcome distributions for sequential
// dice-resolved battles in the style of the board game Risk: an attacking
// force works through a chain of defended territories, leaving one troop
// behind on each territory it conquers, until it is worn down to its stop
// threshold or the defense is eliminated.
package battle

import (
	"sort"
	"sync"
)

// DiceKey identifies a dice-count pairing for one round of combat.
// Attack rolls 1-3 dice, defense rolls 1-2.
type DiceKey struct {
	Attack  int
	Defense int
}

// LossKey identifies a (attacker losses, defender losses) combination.
type LossKey struct {
	Attack  int
	Defense int
}

// LossTable maps each legal dice pairing to the probability of every loss
// combination that pairing can produce.
type LossTable map[DiceKey]map[LossKey]float64

// Exact per-round probabilities for standard six-sided dice. This is the
// common case by far, so it is kept as a literal rather than enumerated on
// every cold start (the 3v2 pairing alone has 7776 roll combinations).
var lossProbs66 = LossTable{
	{Attack: 3, Defense: 2}: {
		{Attack: 0, Defense: 2}: 2890.0 / 7776,
		{Attack: 2, Defense: 0}: 2275.0 / 7776,
		{Attack: 1, Defense: 1}: 2611.0 / 7776,
	},
	{Attack: 3, Defense: 1}: {
		{Attack: 0, Defense: 1}: 855.0 / 1296,
		{Attack: 1, Defense: 0}: 441.0 / 1296,
	},
	{Attack: 2, Defense: 2}: {
		{Attack: 0, Defense: 2}: 295.0 / 1296,
		{Attack: 2, Defense: 0}: 581.0 / 1296,
		{Attack: 1, Defense: 1}: 420.0 / 1296,
	},
	{Attack: 2, Defense: 1}: {
		{Attack: 0, Defense: 1}: 125.0 / 216,
		{Attack: 1, Defense: 0}: 91.0 / 216,
	},
	{Attack: 1, Defense: 2}: {
		{Attack: 0, Defense: 1}: 55.0 / 216,
		{Attack: 1, Defense: 0}: 161.0 / 216,
	},
	{Attack: 1, Defense: 1}: {
		{Attack: 0, Defense: 1}: 15.0 / 36,
		{Attack: 1, Defense: 0}: 21.0 / 36,
	},
}

type sidesKey struct {
	attack  int
	defense int
}

// Tables are a pure function of the two side counts, so they are cached
// process-wide. Written once per key, read-only afterwards.
var (
	lossTableMu    sync.Mutex
	lossTableCache = map[sidesKey]LossTable{{6, 6}: lossProbs66}
)

// CalcLossProbs returns the per-round loss probabilities for dice with the
// given side counts. The result is exact (full enumeration of equiprobable
// roll tuples, no simulation) and must not be modified by callers.
func CalcLossProbs(aSides, dSides int) LossTable {
	key := sidesKey{aSides, dSides}

	lossTableMu.Lock()
	defer lossTableMu.Unlock()
	if table, ok := lossTableCache[key]; ok {
		return table
	}
	table := enumerateLossProbs(aSides, dSides)
	lossTableCache[key] = table
	return table
}

func enumerateLossProbs(aSides, dSides int) LossTable {
	table := make(LossTable, 6)
	for aDice := 1; aDice <= 3; aDice++ {
		for dDice := 1; dDice <= 2; dDice++ {
			table[DiceKey{aDice, dDice}] = enumeratePairing(aSides, dSides, aDice, dDice)
		}
	}
	return table
}

// enumeratePairing walks every roll tuple for one dice pairing, matches the
// highest rolls positionally (defender wins ties) and tallies attacker
// losses.
func enumeratePairing(aSides, dSides, aDice, dDice int) map[LossKey]float64 {
	dice := aDice + dDice
	rolls := make([]int, dice)
	for i := range rolls {
		rolls[i] = 1
	}
	sidesAt := func(i int) int {
		if i < aDice {
			return aSides
		}
		return dSides
	}

	pairs := min(aDice, dDice)
	aVals := make([]int, aDice)
	dVals := make([]int, dDice)
	counts := make(map[LossKey]int)
	total := 0

	for {
		copy(aVals, rolls[:aDice])
		copy(dVals, rolls[aDice:])
		sort.Sort(sort.Reverse(sort.IntSlice(aVals)))
		sort.Sort(sort.Reverse(sort.IntSlice(dVals)))

		aLosses := 0
		for i := 0; i < pairs; i++ {
			if aVals[i] <= dVals[i] {
				aLosses++
			}
		}
		counts[LossKey{aLosses, pairs - aLosses}]++
		total++

		// Advance the roll odometer.
		i := dice - 1
		for ; i >= 0; i-- {
			rolls[i]++
			if rolls[i] <= sidesAt(i) {
				break
			}
			rolls[i] = 1
		}
		if i < 0 {
			break
		}
	}

	probs := make(map[LossKey]float64, len(counts))
	for key, n := range counts {
		probs[key] = float64(n) / float64(total)
	}
	return probs
}
