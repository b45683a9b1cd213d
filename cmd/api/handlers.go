package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/cswallow/risk-battle-odds/internal/api"
	"github.com/cswallow/risk-battle-odds/internal/battle"
	"github.com/cswallow/risk-battle-odds/internal/config"
	"github.com/cswallow/risk-battle-odds/internal/fortify"
	"github.com/cswallow/risk-battle-odds/internal/mintroops"
)

type server struct {
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func newServer(cfg *config.Config) *server {
	s := &server{cfg: cfg}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || cfg.Server.AllowedOrigin == "*" ||
				origin == cfg.Server.AllowedOrigin
		},
	}
	return s
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/api/probs", s.handleProbs).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/mintroops", s.handleMinTroops).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/fortify", s.handleFortify).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/fortify/live", s.handleFortifyLive).Methods(http.MethodGet)
	r.Use(requestID, logRequests, withCORS(s.cfg.Server.AllowedOrigin))
	return r
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleProbs accepts the engagement either as query parameters (GET, with
// comma-separated lists) or as a JSON body (POST).
func (s *server) handleProbs(w http.ResponseWriter, r *http.Request) {
	var req api.ProbsRequest
	var err error
	if r.Method == http.MethodGet {
		req, err = probsFromQuery(r)
	} else {
		err = json.NewDecoder(r.Body).Decode(&req)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := s.buildConfig(req.Attack, req.Defense, req.AttackSides, req.DefenseSides, req.Stop)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	probs := battle.CalcProbs(cfg)
	resp := api.ProbsResponse{Win: probs.Win}
	if req.Full {
		resp.Dist = distToWire(probs.Dist)
		resp.CumAttack = cumToWire(probs.CumAttack)
		resp.CumDefense = cumToWire(probs.CumDefense)
	}
	writeJSON(w, resp)
}

func (s *server) handleMinTroops(w http.ResponseWriter, r *http.Request) {
	var req api.MinTroopsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	troops, prob, err := mintroops.Find(req.Target, mintroops.Partial{
		Defense:      req.Defense,
		AttackSides:  req.AttackSides,
		DefenseSides: req.DefenseSides,
		Stop:         req.Stop,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if troops > s.cfg.Server.MaxAttack {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("result %d exceeds the server's attack cap of %d", troops, s.cfg.Server.MaxAttack))
		return
	}
	writeJSON(w, api.MinTroopsResponse{Troops: troops, Prob: prob})
}

func (s *server) handleFortify(w http.ResponseWriter, r *http.Request) {
	var req api.FortifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	scenarios, method, err := s.buildFortify(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := fortify.Allocate(scenarios, req.Troops, method)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, fortifyToWire(res))
}

func (s *server) buildConfig(attack int, defense, aSides, dSides []int, stop int) (battle.Config, error) {
	if attack > s.cfg.Server.MaxAttack {
		return battle.Config{}, fmt.Errorf("attack troops %d exceed the server cap of %d", attack, s.cfg.Server.MaxAttack)
	}
	if stop == 0 {
		stop = 1
	}
	return battle.NewConfig(attack, defense, aSides, dSides, stop)
}

func (s *server) buildFortify(req api.FortifyRequest) ([]battle.Config, fortify.Method, error) {
	method, err := fortify.ParseMethod(req.Method)
	if err != nil {
		return nil, "", err
	}
	if req.Troops > s.cfg.Server.MaxFortifyTroops {
		return nil, "", fmt.Errorf("troop budget %d exceeds the server cap of %d", req.Troops, s.cfg.Server.MaxFortifyTroops)
	}
	scenarios := make([]battle.Config, 0, len(req.Scenarios))
	for i, sc := range req.Scenarios {
		cfg, err := s.buildConfig(sc.Attack, sc.Defense, sc.AttackSides, sc.DefenseSides, sc.Stop)
		if err != nil {
			return nil, "", fmt.Errorf("scenario %d: %w", i, err)
		}
		scenarios = append(scenarios, cfg)
	}
	return scenarios, method, nil
}

func probsFromQuery(r *http.Request) (api.ProbsRequest, error) {
	q := r.URL.Query()
	var req api.ProbsRequest
	var err error

	if req.Attack, err = strconv.Atoi(q.Get("a")); err != nil {
		return req, fmt.Errorf("query parameter a: %q is not a number", q.Get("a"))
	}
	if req.Defense, err = parseIntList(q.Get("d")); err != nil {
		return req, fmt.Errorf("query parameter d: %w", err)
	}
	if v := q.Get("asides"); v != "" {
		if req.AttackSides, err = parseIntList(v); err != nil {
			return req, fmt.Errorf("query parameter asides: %w", err)
		}
	}
	if v := q.Get("dsides"); v != "" {
		if req.DefenseSides, err = parseIntList(v); err != nil {
			return req, fmt.Errorf("query parameter dsides: %w", err)
		}
	}
	if v := q.Get("stop"); v != "" {
		if req.Stop, err = strconv.Atoi(v); err != nil {
			return req, fmt.Errorf("query parameter stop: %q is not a number", v)
		}
	}
	req.Full = q.Get("full") == "1" || strings.EqualFold(q.Get("full"), "true")
	return req, nil
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

func distToWire(dist battle.Distribution) []api.OutcomeProb {
	out := make([]api.OutcomeProb, 0, len(dist))
	for o, p := range dist {
		out = append(out, api.OutcomeProb{
			Territory: o.Territory, Attack: o.Attack, Defense: o.Defense, Prob: p,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Territory != out[j].Territory {
			return out[i].Territory < out[j].Territory
		}
		if out[i].Attack != out[j].Attack {
			return out[i].Attack < out[j].Attack
		}
		return out[i].Defense < out[j].Defense
	})
	return out
}

func cumToWire(entries []battle.CumEntry) []api.CumProb {
	out := make([]api.CumProb, len(entries))
	for i, e := range entries {
		out[i] = api.CumProb{
			Territory:   e.Territory,
			Remaining:   e.Remaining,
			OnTerritory: e.OnTerritory,
			CumProb:     e.CumProb,
		}
	}
	return out
}

func fortifyToWire(res fortify.Result) api.FortifyResponse {
	placements := make([]api.FortifyPlacement, len(res.Placements))
	for i, p := range res.Placements {
		placements[i] = api.FortifyPlacement(p)
	}
	return api.FortifyResponse{
		Allocations: res.Allocations,
		WinProbs:    res.WinProbs,
		Metric:      res.Metric,
		Placements:  placements,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   http.StatusText(code),
		Message: msg,
		Status:  code,
	})
}
