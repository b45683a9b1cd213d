// Command risk prints exact outcome probabilities for a sequential dice
// battle: the full outcome distribution, cumulative troop-count tables for
// both sides and the per-territory win probabilities.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cswallow/risk-battle-odds/internal/battle"
)

func main() {
	attack := flag.Int("a", 0, "number of troops on the attacking territory")
	defense := flag.String("d", "", "defending troops per territory, comma separated")
	aSides := flag.String("asides", "", "attack dice sides, one value or one per territory (default 6)")
	dSides := flag.String("dsides", "", "defense dice sides, one value or one per territory (default 6)")
	stop := flag.Int("stop", 1, "attack stops at this many troops or fewer")
	all := flag.Bool("all", false, "print the full distribution and cumulative tables, not just win probabilities")
	sim := flag.Int("sim", 0, "additionally run this many random battles and print the empirical distribution")
	flag.Parse()

	dfn, err := parseIntList(*defense)
	if err != nil {
		fatalf("flag -d: %v", err)
	}
	asd, err := parseOptIntList(*aSides)
	if err != nil {
		fatalf("flag -asides: %v", err)
	}
	dsd, err := parseOptIntList(*dSides)
	if err != nil {
		fatalf("flag -dsides: %v", err)
	}

	cfg, err := battle.NewConfig(*attack, dfn, asd, dsd, *stop)
	if err != nil {
		fatalf("%v", err)
	}

	probs := battle.CalcProbs(cfg)
	if *all {
		printAll(probs)
	} else {
		printWinProbs(probs.Win)
	}

	if *sim > 0 {
		fmt.Println()
		printSimulation(*sim, battle.Simulate(cfg, *sim, nil))
	}
}

func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty list")
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseOptIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	return parseIntList(s)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
