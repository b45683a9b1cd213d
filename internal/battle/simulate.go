package battle

import (
	"math/rand"
	"sort"
	"time"
)

// Simulate plays out iters random battles for the config and returns the
// empirical outcome distribution. It shares the exact per-round loss tables
// with the engine and applies the same advance and stop rules, so it serves
// as an independent cross-check of CalcDist, not as part of it. Pass a
// seeded rng for reproducible results; nil uses a time-based seed.
func Simulate(cfg Config, iters int, rng *rand.Rand) Distribution {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	counts := make(map[Outcome]int)
	for i := 0; i < iters; i++ {
		counts[simulateOne(cfg, rng)]++
	}
	dist := make(Distribution, len(counts))
	for out, n := range counts {
		dist[out] = float64(n) / float64(iters)
	}
	return dist
}

func simulateOne(cfg Config, rng *rand.Rand) Outcome {
	t, a, d := 0, cfg.Attack, cfg.Defense[0]
	for a > cfg.Stop && d > 0 {
		table := CalcLossProbs(cfg.AttackSides[t], cfg.DefenseSides[t])
		rolls := table[DiceKey{Attack: min(3, a-1), Defense: min(2, d)}]
		loss := sampleLoss(rolls, rng.Float64())
		a, d = a-loss.Attack, d-loss.Defense

		if d == 0 && a > cfg.Stop && t < cfg.NumTerritories()-1 {
			t++
			a, d = a-1, cfg.Defense[t]
		}
	}
	return Outcome{Territory: t, Attack: a, Defense: d}
}

// sampleLoss picks a loss combination by inverse transform over a fixed key
// order, so a seeded rng replays identically.
func sampleLoss(rolls map[LossKey]float64, r float64) LossKey {
	keys := make([]LossKey, 0, len(rolls))
	for k := range rolls {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Attack != keys[j].Attack {
			return keys[i].Attack < keys[j].Attack
		}
		return keys[i].Defense < keys[j].Defense
	})

	var acc float64
	for _, k := range keys {
		acc += rolls[k]
		if r < acc {
			return k
		}
	}
	return keys[len(keys)-1]
}
