package main

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/cswallow/risk-battle-odds/internal/api"
	"github.com/cswallow/risk-battle-odds/internal/config"
)

func newTestServer(t *testing.T) (*httptest.Server, *api.Client) {
	t.Helper()
	srv := httptest.NewServer(newServer(config.Default()).routes())
	t.Cleanup(srv.Close)
	return srv, api.NewClient(srv.URL)
}

func relClose(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

func TestHealthz(t *testing.T) {
	_, client := newTestServer(t)
	if err := client.Healthz(context.Background()); err != nil {
		t.Fatalf("healthz: %v", err)
	}
}

func TestProbsQueryParams(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/probs?a=5&d=3,2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var out api.ProbsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	want := []float64{0.6416229, 0.2500009}
	if len(out.Win) != len(want) {
		t.Fatalf("win has %d entries, want %d", len(out.Win), len(want))
	}
	for i := range want {
		if !relClose(out.Win[i], want[i], 1e-6) {
			t.Errorf("win[%d] = %v, want %v", i, out.Win[i], want[i])
		}
	}
	if out.Dist != nil {
		t.Error("distribution returned without full=1")
	}
}

func TestProbsPostFull(t *testing.T) {
	_, client := newTestServer(t)

	out, err := client.Probs(context.Background(), api.ProbsRequest{
		Attack:  5,
		Defense: []int{3, 2},
		Full:    true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Dist) != 8 {
		t.Errorf("distribution has %d outcomes, want 8", len(out.Dist))
	}
	var mass float64
	for _, o := range out.Dist {
		mass += o.Prob
	}
	if math.Abs(mass-1) > 1e-9 {
		t.Errorf("distribution mass = %v", mass)
	}
	if got := out.CumAttack[len(out.CumAttack)-1].CumProb; math.Abs(got-1) > 1e-9 {
		t.Errorf("final attack cumulative = %v, want 1", got)
	}
}

func TestProbsRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, url := range []string{
		"/api/probs?a=one&d=3",
		"/api/probs?a=5&d=",
		"/api/probs?a=1&d=3",      // attack must exceed 1
		"/api/probs?a=5000&d=3",   // above the server cap
		"/api/probs?a=5&d=3&stop=-1",
	} {
		resp, err := http.Get(srv.URL + url)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", url, resp.StatusCode)
		}
	}
}

func TestMinTroopsEndpoint(t *testing.T) {
	_, client := newTestServer(t)

	out, err := client.MinTroops(context.Background(), api.MinTroopsRequest{
		Target:  0.5,
		Defense: []int{11},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Troops != 12 {
		t.Errorf("troops = %d, want 12", out.Troops)
	}
	if !relClose(out.Prob, 0.5762944972440298, 1e-9) {
		t.Errorf("prob = %v", out.Prob)
	}

	if _, err := client.MinTroops(context.Background(), api.MinTroopsRequest{
		Target:  1.5,
		Defense: []int{11},
	}); err == nil {
		t.Error("expected error for target outside (0,1)")
	}
}

func TestFortifyEndpoint(t *testing.T) {
	_, client := newTestServer(t)

	req := api.FortifyRequest{
		Scenarios: []api.FortifyScenario{
			{Attack: 8, Defense: []int{4}},
			{Attack: 8, Defense: []int{4}, DefenseSides: []int{8}},
		},
		Troops: 3,
		Method: "weakest",
	}
	out, err := client.Fortify(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	total := 0
	for _, perTerr := range out.Allocations {
		for _, n := range perTerr {
			total += n
		}
	}
	if total != 3 {
		t.Errorf("allocated %d troops, want 3", total)
	}
	if len(out.Placements) != 3 {
		t.Errorf("placements = %d, want 3", len(out.Placements))
	}

	req.Method = "optimal"
	if _, err := client.Fortify(context.Background(), req); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestFortifyLiveStreamsPlacements(t *testing.T) {
	srv, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/fortify/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	err = conn.WriteJSON(api.FortifyRequest{
		Scenarios: []api.FortifyScenario{{Attack: 8, Defense: []int{4}}},
		Troops:    2,
		Method:    "any",
	})
	if err != nil {
		t.Fatal(err)
	}

	placements := 0
	for {
		var frame struct {
			Type    string          `json:"type"`
			Message string          `json:"message"`
			Result  json.RawMessage `json:"result"`
		}
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		switch frame.Type {
		case "placement":
			placements++
		case "result":
			if placements != 2 {
				t.Errorf("saw %d placement frames, want 2", placements)
			}
			return
		case "error":
			t.Fatalf("stream error: %s", frame.Message)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/probs", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("response missing X-Request-Id header")
	}
}
