package fortify

import (
	"testing"

	"github.com/cswallow/risk-battle-odds/internal/battle"
)

func mustConfig(t *testing.T, attack int, defense, dSides []int) battle.Config {
	t.Helper()
	cfg, err := battle.NewConfig(attack, defense, nil, dSides, 1)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func testScenarios(t *testing.T) []battle.Config {
	return []battle.Config{
		mustConfig(t, 8, []int{4}, nil),
		mustConfig(t, 8, []int{4}, []int{8}),
		mustConfig(t, 16, []int{8, 3, 2}, nil),
	}
}

func TestAllocateMetricMonotonic(t *testing.T) {
	for _, method := range []Method{Weakest, Any} {
		t.Run(string(method), func(t *testing.T) {
			scenarios := testScenarios(t)
			res, err := Allocate(scenarios, 6, method)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(res.Placements) != 6 {
				t.Fatalf("expected 6 placements, got %d", len(res.Placements))
			}
			prev := riskMetric(method, initialProbs(scenarios))
			for _, placed := range res.Placements {
				if placed.Metric > prev+1e-12 {
					t.Errorf("metric rose from %v to %v at step %d", prev, placed.Metric, placed.Step)
				}
				prev = placed.Metric
			}
			if res.Metric != prev {
				t.Errorf("final metric %v != last step metric %v", res.Metric, prev)
			}
		})
	}
}

func initialProbs(scenarios []battle.Config) []float64 {
	probs := make([]float64, len(scenarios))
	for i, cfg := range scenarios {
		probs[i] = battle.CalcWinProb(cfg)
	}
	return probs
}

func TestAllocateSpendsWholeBudget(t *testing.T) {
	res, err := Allocate(testScenarios(t), 5, Weakest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := 0
	for i, perTerr := range res.Allocations {
		for terr, n := range perTerr {
			total += n
			wantDefense := testScenarios(t)[i].Defense[terr] + n
			if res.Configs[i].Defense[terr] != wantDefense {
				t.Errorf("scenario %d territory %d: defense %d, want %d",
					i, terr, res.Configs[i].Defense[terr], wantDefense)
			}
		}
	}
	if total != 5 {
		t.Errorf("allocated %d troops, want 5", total)
	}
}

func TestAllocateLowersWinProbs(t *testing.T) {
	scenarios := testScenarios(t)
	before := initialProbs(scenarios)

	res, err := Allocate(scenarios, 4, Any)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range res.WinProbs {
		if p > before[i]+1e-12 {
			t.Errorf("scenario %d win prob rose from %v to %v", i, before[i], p)
		}
	}
}

func TestAllocateZeroTroops(t *testing.T) {
	scenarios := testScenarios(t)
	res, err := Allocate(scenarios, 0, Weakest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Placements) != 0 {
		t.Errorf("expected no placements, got %d", len(res.Placements))
	}
	if res.Metric != riskMetric(Weakest, initialProbs(scenarios)) {
		t.Errorf("zero-troop metric should match the unfortified metric")
	}
}

func TestAllocateObservedStreamsEachStep(t *testing.T) {
	var seen []Placement
	res, err := AllocateObserved(testScenarios(t), 3, Any, func(p Placement) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != len(res.Placements) {
		t.Fatalf("observer saw %d placements, result has %d", len(seen), len(res.Placements))
	}
	for i := range seen {
		if seen[i] != res.Placements[i] {
			t.Errorf("observer placement %d = %+v, want %+v", i, seen[i], res.Placements[i])
		}
	}
}

func TestAllocateRejectsBadInput(t *testing.T) {
	scenarios := testScenarios(t)

	if _, err := Allocate(scenarios, 3, Method("best")); err == nil {
		t.Error("expected error for unknown method")
	}
	if _, err := Allocate(nil, 3, Weakest); err == nil {
		t.Error("expected error for empty scenario list")
	}
	if _, err := Allocate(scenarios, -1, Weakest); err == nil {
		t.Error("expected error for negative troop budget")
	}
}

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"weakest", "any"} {
		if _, err := ParseMethod(s); err != nil {
			t.Errorf("ParseMethod(%q): %v", s, err)
		}
	}
	if _, err := ParseMethod("minimax"); err == nil {
		t.Error("expected error for unrecognized method")
	}
}
