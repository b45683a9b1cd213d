package mintroops

import (
	"math"
	"testing"

	"github.com/cswallow/risk-battle-odds/internal/battle"
)

func relClose(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

func TestFindKnownFixtures(t *testing.T) {
	cases := []struct {
		name       string
		target     float64
		part       Partial
		wantTroops int
		wantProb   float64
	}{
		{"even odds vs 11", 0.5, Partial{Defense: []int{11}}, 12, 0.5762944972440298},
		{"near certainty vs 11", 0.95, Partial{Defense: []int{11}}, 21, 0.9616912565871958},
		{"eight sided defense", 0.5, Partial{Defense: []int{11}, DefenseSides: []int{8}}, 19, 0.5070879747303201},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			troops, prob, err := Find(tc.target, tc.part)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if troops != tc.wantTroops {
				t.Errorf("troops = %d, want %d", troops, tc.wantTroops)
			}
			if !relClose(prob, tc.wantProb, 1e-9) {
				t.Errorf("prob = %.16f, want %.16f", prob, tc.wantProb)
			}
		})
	}
}

func TestFindMeetsTarget(t *testing.T) {
	part := Partial{Defense: []int{4, 3}}
	target := 0.8

	troops, prob, err := Find(target, part)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prob < target {
		t.Errorf("returned prob %v below target %v", prob, target)
	}

	// One fewer troop must miss the target, otherwise the count is not
	// minimal.
	if troops > 2 {
		cfg, err := battle.NewConfig(troops-1, part.Defense, nil, nil, 1)
		if err != nil {
			t.Fatalf("config: %v", err)
		}
		if below := battle.CalcWinProb(cfg); below >= target {
			t.Errorf("%d troops already reach %v >= target %v", troops-1, below, target)
		}
	}
}

func TestFindSmallUpperBoundStart(t *testing.T) {
	// A tiny starting bound forces the doubling path.
	troops, prob, err := Find(0.95, Partial{Defense: []int{11}, HiStart: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if troops != 21 {
		t.Errorf("troops = %d, want 21", troops)
	}
	if prob < 0.95 {
		t.Errorf("prob %v below target", prob)
	}
}

func TestFindRejectsBadTarget(t *testing.T) {
	for _, target := range []float64{0, 1, -0.5, 1.5} {
		if _, _, err := Find(target, Partial{Defense: []int{3}}); err == nil {
			t.Errorf("target %v: expected error, got nil", target)
		}
	}
}

func TestFindRejectsBadPartial(t *testing.T) {
	if _, _, err := Find(0.5, Partial{Defense: []int{0}}); err == nil {
		t.Error("expected validation error for zero defense")
	}
}
