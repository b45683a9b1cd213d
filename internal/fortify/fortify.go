// Package fortify allocates additional defensive troops across one or more
// battle scenarios so as to minimize an aggregate risk metric. Placement is
// a single-troop greedy hill climb: each troop goes wherever it lowers the
// metric the most, with no backtracking or lookahead. The result is locally
// improving at every step but carries no global-optimality guarantee.
package fortify

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/cswallow/risk-battle-odds/internal/battle"
)

// Method selects the risk metric minimized by the allocator.
type Method string

const (
	// Weakest minimizes the worst single scenario's fall probability:
	// appropriate when only one of the engagements will actually happen.
	Weakest Method = "weakest"

	// Any minimizes the probability that the attack wins at least one
	// engagement, 1 - prod(1 - p_i): appropriate when all of them happen.
	Any Method = "any"
)

// ParseMethod maps a string (e.g. from a flag or request body) to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case Weakest, Any:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown fortify method %q (want %q or %q)", s, Weakest, Any)
}

// Placement records one committed greedy step.
type Placement struct {
	Step      int     `json:"step"`
	Scenario  int     `json:"scenario"`
	Territory int     `json:"territory"`
	WinProb   float64 `json:"win_prob"`
	Metric    float64 `json:"metric"`
}

// Result is the outcome of an allocation run.
type Result struct {
	// Configs are the fortified scenarios, in input order.
	Configs []battle.Config
	// Allocations counts the troops added per scenario and territory.
	Allocations [][]int
	// WinProbs are the attackers' full-conquest probabilities after
	// fortification, per scenario.
	WinProbs []float64
	// Metric is the risk metric over WinProbs.
	Metric float64
	// Placements lists every committed step; the Metric fields are
	// non-increasing from step to step.
	Placements []Placement
}

// Allocate distributes troops defensive reinforcements across the scenarios.
func Allocate(scenarios []battle.Config, troops int, method Method) (Result, error) {
	return AllocateObserved(scenarios, troops, method, nil)
}

// AllocateObserved is Allocate with a callback invoked after each committed
// placement, for callers that want to surface progress while the oracle
// grinds through candidates.
func AllocateObserved(scenarios []battle.Config, troops int, method Method, observe func(Placement)) (Result, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return Result{}, err
	}
	if len(scenarios) == 0 {
		return Result{}, fmt.Errorf("at least one scenario is required")
	}
	if troops < 0 {
		return Result{}, fmt.Errorf("troops to allocate must not be negative, got %d", troops)
	}

	o := newOracle()
	cfgs := slices.Clone(scenarios)
	probs := make([]float64, len(cfgs))
	alloc := make([][]int, len(cfgs))
	for i, cfg := range cfgs {
		probs[i] = o.winProb(cfg)
		alloc[i] = make([]int, cfg.NumTerritories())
	}

	placements := make([]Placement, 0, troops)
	for step := 0; step < troops; step++ {
		bestMetric := math.Inf(1)
		bestScenario, bestTerritory := -1, -1
		var bestProb float64

		// Try one extra defender on every (scenario, territory); only the
		// touched scenario is re-evaluated, the rest come from the cache.
		for i, cfg := range cfgs {
			for terr := 0; terr < cfg.NumTerritories(); terr++ {
				p := o.winProb(cfg.WithDefenseAdded(terr))
				m := metricWithReplacement(method, probs, i, p)
				if m < bestMetric {
					bestMetric, bestScenario, bestTerritory, bestProb = m, i, terr, p
				}
			}
		}

		cfgs[bestScenario] = cfgs[bestScenario].WithDefenseAdded(bestTerritory)
		probs[bestScenario] = bestProb
		alloc[bestScenario][bestTerritory]++

		placed := Placement{
			Step:      step + 1,
			Scenario:  bestScenario,
			Territory: bestTerritory,
			WinProb:   bestProb,
			Metric:    bestMetric,
		}
		placements = append(placements, placed)
		slog.Debug("placed defensive troop",
			"step", placed.Step, "scenario", bestScenario,
			"territory", bestTerritory, "metric", bestMetric)
		if observe != nil {
			observe(placed)
		}
	}

	return Result{
		Configs:     cfgs,
		Allocations: alloc,
		WinProbs:    probs,
		Metric:      riskMetric(method, probs),
		Placements:  placements,
	}, nil
}

// metricWithReplacement computes the risk metric over probs with the idx-th
// entry replaced by p, without mutating probs.
func metricWithReplacement(method Method, probs []float64, idx int, p float64) float64 {
	switch method {
	case Weakest:
		worst := p
		for i, q := range probs {
			if i != idx && q > worst {
				worst = q
			}
		}
		return worst
	default: // Any
		survive := 1 - p
		for i, q := range probs {
			if i != idx {
				survive *= 1 - q
			}
		}
		return 1 - survive
	}
}

func riskMetric(method Method, probs []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	return metricWithReplacement(method, probs[1:], -1, probs[0])
}

// oracle memoizes full-conquest probabilities per config, so candidate
// placements revisited on later greedy passes cost nothing.
type oracle struct {
	memo map[string]float64
}

func newOracle() *oracle {
	return &oracle{memo: make(map[string]float64)}
}

func (o *oracle) winProb(cfg battle.Config) float64 {
	key := fmt.Sprintf("%d|%v|%v|%v|%d",
		cfg.Attack, cfg.Defense, cfg.AttackSides, cfg.DefenseSides, cfg.Stop)
	if p, ok := o.memo[key]; ok {
		return p
	}
	p := battle.CalcWinProb(cfg)
	o.memo[key] = p
	return p
}
