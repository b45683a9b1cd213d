package battle

import (
	"math"
	"testing"
)

func TestRemainingTroops(t *testing.T) {
	defense := []int{3, 2}
	cases := []struct {
		out     Outcome
		wantAtk int
		wantDfn int
	}{
		// Stopped on territory 0: all defense still standing behind it.
		{Outcome{0, 1, 1}, 1, 3},
		// Stopped on territory 1: one attack troop garrisons territory 0.
		{Outcome{1, 1, 1}, 2, 1},
		// Defense wiped out on the last territory.
		{Outcome{1, 4, 0}, 5, 0},
	}

	for _, tc := range cases {
		atk, dfn := RemainingTroops(tc.out, defense)
		if atk != tc.wantAtk || dfn != tc.wantDfn {
			t.Errorf("RemainingTroops(%v) = (%d, %d), want (%d, %d)",
				tc.out, atk, dfn, tc.wantAtk, tc.wantDfn)
		}
	}
}

func TestCumProbsKnownValues(t *testing.T) {
	cfg := mustConfig(t, 5, []int{3, 2}, nil, nil, 1)
	atk, dfn := CalcCumProbs(CalcDist(cfg), cfg)

	atkWant := []float64{0.0911264, 0.1861678, 0.2500009, 0.6416229, 1.0}
	dfnWant := []float64{0.1311585, 0.2750526, 0.3583771, 0.6606328, 0.7499991, 1.0}

	if len(atk) != len(atkWant) {
		t.Fatalf("attack view has %d rows, want %d", len(atk), len(atkWant))
	}
	if len(dfn) != len(dfnWant) {
		t.Fatalf("defense view has %d rows, want %d", len(dfn), len(dfnWant))
	}
	for i := range atkWant {
		if !relClose(atk[i].CumProb, atkWant[i], probRelTol) {
			t.Errorf("attack cum[%d] = %.7f, want %.7f", i, atk[i].CumProb, atkWant[i])
		}
	}
	for i := range dfnWant {
		if !relClose(dfn[i].CumProb, dfnWant[i], probRelTol) {
			t.Errorf("defense cum[%d] = %.7f, want %.7f", i, dfn[i].CumProb, dfnWant[i])
		}
	}
}

func TestCumProbsSortedAndComplete(t *testing.T) {
	cases := []Config{
		mustConfig(t, 5, []int{3, 2}, nil, nil, 1),
		mustConfig(t, 15, []int{4, 6, 2}, nil, []int{8}, 1),
		mustConfig(t, 7, []int{5}, []int{4}, nil, 2),
	}

	for _, cfg := range cases {
		atk, dfn := CalcCumProbs(CalcDist(cfg), cfg)
		for _, view := range [][]CumEntry{atk, dfn} {
			if len(view) == 0 {
				t.Fatal("empty cumulative view")
			}
			for i := 1; i < len(view); i++ {
				if view[i].Remaining > view[i-1].Remaining {
					t.Errorf("rows not sorted by descending remaining troops: %v", view)
				}
				if view[i].CumProb < view[i-1].CumProb {
					t.Errorf("cumulative probability decreased: %v", view)
				}
			}
			final := view[len(view)-1].CumProb
			if math.Abs(final-1) > 1e-9 {
				t.Errorf("final cumulative value = %.12f, want 1", final)
			}
		}
	}
}

func TestWinProbsFullConquestMatchesDist(t *testing.T) {
	cfg := mustConfig(t, 8, []int{3, 3}, nil, nil, 1)
	dist := CalcDist(cfg)
	win := CalcWinProbs(dist, cfg.NumTerritories())

	// The last entry must equal the mass of defense-eliminated outcomes on
	// the final territory.
	var conquered float64
	for out, p := range dist {
		if out.Defense == 0 && out.Territory == cfg.NumTerritories()-1 {
			conquered += p
		}
	}
	if !relClose(win[len(win)-1], conquered, 1e-12) {
		t.Errorf("full-conquest prob %v != summed mass %v", win[len(win)-1], conquered)
	}
}
