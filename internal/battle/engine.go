package battle

// Outcome identifies an absorbing state of a battle: either the attack has
// been worn down to its stop threshold while defense still holds Territory,
// or Defense is zero and Territory is the last territory conquered.
type Outcome struct {
	Territory int
	Attack    int
	Defense   int
}

// Distribution maps every reachable absorbing state to its probability.
// For any valid config the values sum to 1 (within floating tolerance) by
// construction; the engine never renormalizes.
type Distribution map[Outcome]float64

// Sum returns the total probability mass of the distribution.
func (dist Distribution) Sum() float64 {
	var total float64
	for _, p := range dist {
		total += p
	}
	return total
}

// Probs bundles the exact distribution with its derived views, mirroring
// what the adapters consume in one call.
type Probs struct {
	Dist       Distribution
	CumAttack  []CumEntry
	CumDefense []CumEntry
	Win        []float64
}

// CalcProbs evaluates the config and derives the cumulative and
// win-probability views.
func CalcProbs(cfg Config) Probs {
	dist := CalcDist(cfg)
	atk, dfn := CalcCumProbs(dist, cfg)
	return Probs{
		Dist:       dist,
		CumAttack:  atk,
		CumDefense: dfn,
		Win:        CalcWinProbs(dist, cfg.NumTerritories()),
	}
}

// CalcWinProb returns the probability that the attack conquers every
// territory in the chain.
func CalcWinProb(cfg Config) float64 {
	win := CalcWinProbs(CalcDist(cfg), cfg.NumTerritories())
	return win[len(win)-1]
}

type state struct {
	t, a, d int
}

// CalcDist computes the exact probability of every absorbing state for the
// config. Pure and deterministic; the memo table lives only for the duration
// of the call, because its keys do not capture dice sides and so must never
// be shared between configs.
func CalcDist(cfg Config) Distribution {
	e := evaluator{cfg: cfg, memo: make(map[state]Distribution)}
	return e.eval(0, cfg.Attack, cfg.Defense[0])
}

type evaluator struct {
	cfg  Config
	memo map[state]Distribution
}

// eval returns the outcome distribution reachable from (t, a, d). Each
// recursive step either keeps t fixed and strictly shrinks a+d, or advances
// t while shrinking the remaining troop pool, so the recursion terminates.
func (e *evaluator) eval(t, a, d int) Distribution {
	if a <= e.cfg.Stop || d == 0 {
		return Distribution{{Territory: t, Attack: a, Defense: d}: 1}
	}
	key := state{t, a, d}
	if dist, ok := e.memo[key]; ok {
		return dist
	}

	table := CalcLossProbs(e.cfg.AttackSides[t], e.cfg.DefenseSides[t])
	rolls := table[DiceKey{Attack: min(3, a-1), Defense: min(2, d)}]

	dist := make(Distribution)
	for loss, p := range rolls {
		a2, d2 := a-loss.Attack, d-loss.Defense

		var sub Distribution
		if d2 == 0 && a2 > e.cfg.Stop && t < e.cfg.NumTerritories()-1 {
			// Territory conquered: one troop stays behind to hold it,
			// the rest advance to the next territory.
			sub = e.eval(t+1, a2-1, e.cfg.Defense[t+1])
		} else {
			sub = e.eval(t, a2, d2)
		}
		for out, q := range sub {
			dist[out] += p * q
		}
	}

	e.memo[key] = dist
	return dist
}
