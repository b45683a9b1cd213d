package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cswallow/risk-battle-odds/internal/battle"
)

// Territories are printed 1-based; internally they are 0-based indices.

func printAll(probs battle.Probs) {
	printDistProbs(probs.Dist)
	fmt.Println()
	printCumProbs(probs.CumAttack, probs.CumDefense)
	fmt.Println()
	printWinProbs(probs.Win)
}

func printDistProbs(dist battle.Distribution) {
	fmt.Println("territory | attack | defense | probability")
	for _, o := range sortedOutcomes(dist) {
		fmt.Printf("%9d | %6d |%8d | %v\n", o.Territory+1, o.Attack, o.Defense, dist[o])
	}
}

func printCumProbs(atk, dfn []battle.CumEntry) {
	for i, entries := range [][]battle.CumEntry{atk, dfn} {
		player := [2]string{"attack", "defense"}[i] + " (cumulative)"
		fmt.Println(centerDots(player, 66))
		fmt.Println("territory | troops on territory | troops remaining | cumulative prob.")
		for _, e := range entries {
			fmt.Printf("%9d | %19d | %16d | %v\n", e.Territory+1, e.OnTerritory, e.Remaining, e.CumProb)
		}
		if i == 0 {
			fmt.Println()
		}
	}
}

func printWinProbs(win []float64) {
	fmt.Println("territory | attack win probability")
	for t, p := range win {
		fmt.Printf("%9d | %v\n", t+1, p)
	}
}

func printSimulation(iters int, dist battle.Distribution) {
	fmt.Printf("simulated %s battles\n", humanize.Comma(int64(iters)))
	fmt.Println("territory | attack | defense | frequency")
	for _, o := range sortedOutcomes(dist) {
		fmt.Printf("%9d | %6d |%8d | %v\n", o.Territory+1, o.Attack, o.Defense, dist[o])
	}
}

func sortedOutcomes(dist battle.Distribution) []battle.Outcome {
	outs := make([]battle.Outcome, 0, len(dist))
	for o := range dist {
		outs = append(outs, o)
	}
	sort.Slice(outs, func(i, j int) bool {
		if outs[i].Territory != outs[j].Territory {
			return outs[i].Territory < outs[j].Territory
		}
		if outs[i].Attack != outs[j].Attack {
			return outs[i].Attack < outs[j].Attack
		}
		return outs[i].Defense < outs[j].Defense
	})
	return outs
}

func centerDots(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(".", left) + s + strings.Repeat(".", right)
}
