// Command fortify spreads a budget of defensive reinforcements across one
// or more battle scenarios so as to minimize the chosen risk metric, and
// prints the allocation alongside before/after win probabilities.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cswallow/risk-battle-odds/internal/battle"
	"github.com/cswallow/risk-battle-odds/internal/fortify"
)

// scenarioFlags collects repeated -scenario values, each a semicolon-joined
// spec like "a=8;d=4,3;dsides=8".
type scenarioFlags []battle.Config

func (f *scenarioFlags) String() string {
	return fmt.Sprintf("%d scenarios", len(*f))
}

func (f *scenarioFlags) Set(s string) error {
	cfg, err := parseScenario(s)
	if err != nil {
		return err
	}
	*f = append(*f, cfg)
	return nil
}

func main() {
	var scenarios scenarioFlags
	flag.Var(&scenarios, "scenario",
		`battle scenario as "a=8;d=4,3;dsides=8" (keys: a, d, asides, dsides, stop); repeatable`)
	troops := flag.Int("troops", 0, "number of defensive troops to allocate")
	method := flag.String("method", string(fortify.Weakest),
		fmt.Sprintf("risk metric to minimize: %q or %q", fortify.Weakest, fortify.Any))
	flag.Parse()

	m, err := fortify.ParseMethod(*method)
	if err != nil {
		fatalf("%v", err)
	}

	before := make([]float64, len(scenarios))
	for i, cfg := range scenarios {
		before[i] = battle.CalcWinProb(cfg)
	}

	res, err := fortify.Allocate(scenarios, *troops, m)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Println("scenario | allocation | win prob before | win prob after")
	for i, alloc := range res.Allocations {
		fmt.Printf("%8d | %10s | %15v | %v\n", i+1, intList(alloc), before[i], res.WinProbs[i])
	}
	fmt.Printf("%s metric after fortifying: %v\n", m, res.Metric)
}

func parseScenario(s string) (battle.Config, error) {
	attack, stop := 0, 1
	var defense, aSides, dSides []int

	for _, field := range strings.Split(s, ";") {
		key, val, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok {
			return battle.Config{}, fmt.Errorf("scenario field %q is not key=value", field)
		}
		var err error
		switch key {
		case "a":
			attack, err = strconv.Atoi(val)
		case "d":
			defense, err = parseIntList(val)
		case "asides":
			aSides, err = parseIntList(val)
		case "dsides":
			dSides, err = parseIntList(val)
		case "stop":
			stop, err = strconv.Atoi(val)
		default:
			return battle.Config{}, fmt.Errorf("unknown scenario key %q", key)
		}
		if err != nil {
			return battle.Config{}, fmt.Errorf("scenario field %q: %w", field, err)
		}
	}
	return battle.NewConfig(attack, defense, aSides, dSides, stop)
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

func intList(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
