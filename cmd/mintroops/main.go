// Command mintroops finds the smallest attacking force whose probability of
// conquering every defending territory meets a target.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cswallow/risk-battle-odds/internal/mintroops"
)

func main() {
	target := flag.Float64("target", 0.95, "required win probability, exclusive between 0 and 1")
	defense := flag.String("d", "", "defending troops per territory, comma separated")
	aSides := flag.String("asides", "", "attack dice sides, one value or one per territory (default 6)")
	dSides := flag.String("dsides", "", "defense dice sides, one value or one per territory (default 6)")
	stop := flag.Int("stop", 1, "attack stops at this many troops or fewer")
	verbose := flag.Bool("v", false, "log each search probe")
	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

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

	troops, prob, err := mintroops.Find(*target, mintroops.Partial{
		Defense:      dfn,
		AttackSides:  asd,
		DefenseSides: dsd,
		Stop:         *stop,
	})
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("%d troops gives a win probability of %v\n", troops, prob)
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
