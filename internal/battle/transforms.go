package battle

import "sort"

// CumEntry is one row of a cumulative troop-survival view: the probability
// that a player ends with at least Remaining troops, ending on Territory
// with OnTerritory troops there.
type CumEntry struct {
	Territory   int
	Remaining   int
	OnTerritory int
	CumProb     float64
}

// RemainingTroops returns the total troops still alive for attack and
// defense in an outcome. The attack total counts the one troop left behind
// on each conquered territory; the defense total counts the untouched
// garrisons past the final territory.
func RemainingTroops(out Outcome, defense []int) (atk, dfn int) {
	atk = out.Attack + out.Territory
	dfn = out.Defense
	for _, d := range defense[out.Territory+1:] {
		dfn += d
	}
	return atk, dfn
}

// CalcCumProbs derives the cumulative troop-survival views for both players.
// Rows are sorted by descending remaining troops, so each row reads as
// "probability of ending at least this well off"; the final row of each view
// accumulates to 1.
func CalcCumProbs(dist Distribution, cfg Config) (atk, dfn []CumEntry) {
	return cumOnePlayer(dist, cfg, true), cumOnePlayer(dist, cfg, false)
}

func cumOnePlayer(dist Distribution, cfg Config, attack bool) []CumEntry {
	type group struct {
		territory   int
		remaining   int
		onTerritory int
	}

	grouped := make(map[group]float64)
	for out, p := range dist {
		aRem, dRem := RemainingTroops(out, cfg.Defense)
		g := group{out.Territory, dRem, out.Defense}
		if attack {
			g = group{out.Territory, aRem, out.Attack}
		}
		grouped[g] += p
	}

	keys := make([]group, 0, len(grouped))
	for g := range grouped {
		keys = append(keys, g)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].remaining != keys[j].remaining {
			return keys[i].remaining > keys[j].remaining
		}
		if keys[i].territory != keys[j].territory {
			return keys[i].territory > keys[j].territory
		}
		return keys[i].onTerritory > keys[j].onTerritory
	})

	entries := make([]CumEntry, 0, len(keys))
	var cum float64
	for _, g := range keys {
		cum += grouped[g]
		entries = append(entries, CumEntry{
			Territory:   g.territory,
			Remaining:   g.remaining,
			OnTerritory: g.onTerritory,
			CumProb:     cum,
		})
	}
	return entries
}

// CalcWinProbs returns, per territory index, the probability that the attack
// conquers territories 0 through that index inclusive. The sequence is
// non-increasing and padded with zeros for unreachable territories.
func CalcWinProbs(dist Distribution, numTerritories int) []float64 {
	// Outcomes with defense eliminated are credited to a virtual territory
	// one past the final battlefield, which makes "conquered everything up
	// to here" a plain suffix sum.
	terr := make([]float64, numTerritories+1)
	for out, p := range dist {
		t := out.Territory
		if out.Defense == 0 {
			t++
		}
		terr[t] += p
	}

	win := make([]float64, numTerritories)
	var run float64
	for t := numTerritories; t >= 1; t-- {
		run += terr[t]
		win[t-1] = run
	}
	return win
}
