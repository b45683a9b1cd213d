// Package api defines the wire types of the battle-odds HTTP API and a
// typed client for it.
package api

// ProbsRequest asks for the exact outcome distribution of one engagement.
// The same fields are accepted as query parameters (comma-separated lists)
// on GET requests.
type ProbsRequest struct {
	Attack       int   `json:"a"`
	Defense      []int `json:"d"`
	AttackSides  []int `json:"asides,omitempty"`
	DefenseSides []int `json:"dsides,omitempty"`
	Stop         int   `json:"stop,omitempty"`

	// Full includes the distribution and cumulative views in the
	// response; by default only the win probabilities are returned.
	Full bool `json:"full,omitempty"`
}

// OutcomeProb is one absorbing state and its probability.
type OutcomeProb struct {
	Territory int     `json:"territory"`
	Attack    int     `json:"attack"`
	Defense   int     `json:"defense"`
	Prob      float64 `json:"prob"`
}

// CumProb is one row of a cumulative troop-survival view.
type CumProb struct {
	Territory   int     `json:"territory"`
	Remaining   int     `json:"remaining"`
	OnTerritory int     `json:"on_territory"`
	CumProb     float64 `json:"cum_prob"`
}

// ProbsResponse carries the win probabilities and, when requested, the full
// views.
type ProbsResponse struct {
	Win        []float64     `json:"win"`
	Dist       []OutcomeProb `json:"dist,omitempty"`
	CumAttack  []CumProb     `json:"cum_attack,omitempty"`
	CumDefense []CumProb     `json:"cum_defense,omitempty"`
}

// MinTroopsRequest asks for the smallest attacking force reaching a target
// full-conquest probability.
type MinTroopsRequest struct {
	Target       float64 `json:"target"`
	Defense      []int   `json:"d"`
	AttackSides  []int   `json:"asides,omitempty"`
	DefenseSides []int   `json:"dsides,omitempty"`
	Stop         int     `json:"stop,omitempty"`
}

// MinTroopsResponse is the minimal troop count and its exact probability.
type MinTroopsResponse struct {
	Troops int     `json:"troops"`
	Prob   float64 `json:"prob"`
}

// FortifyScenario is one engagement inside a fortify request.
type FortifyScenario struct {
	Attack       int   `json:"a"`
	Defense      []int `json:"d"`
	AttackSides  []int `json:"asides,omitempty"`
	DefenseSides []int `json:"dsides,omitempty"`
	Stop         int   `json:"stop,omitempty"`
}

// FortifyRequest asks for a greedy defensive allocation across scenarios.
type FortifyRequest struct {
	Scenarios []FortifyScenario `json:"scenarios"`
	Troops    int               `json:"troops"`
	Method    string            `json:"method"`
}

// FortifyPlacement is one committed greedy step.
type FortifyPlacement struct {
	Step      int     `json:"step"`
	Scenario  int     `json:"scenario"`
	Territory int     `json:"territory"`
	WinProb   float64 `json:"win_prob"`
	Metric    float64 `json:"metric"`
}

// FortifyResponse reports the allocation and the resulting risk metric.
type FortifyResponse struct {
	Allocations [][]int            `json:"allocations"`
	WinProbs    []float64          `json:"win_probs"`
	Metric      float64            `json:"metric"`
	Placements  []FortifyPlacement `json:"placements,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}
