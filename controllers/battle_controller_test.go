package controllers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"versehub/config"
	"versehub/controllers"
	"versehub/internal/battle"
	"versehub/routes"
	"versehub/websocket"

	"github.com/gin-gonic/gin"
)

// countingGenerator returns canned verses, delivered as two deltas each.
type countingGenerator struct {
	mu    sync.Mutex
	calls int
}

func (g *countingGenerator) Generate(ctx context.Context, history []battle.Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return fmt.Sprintf("verse %d", g.calls), nil
}

func (g *countingGenerator) GenerateStream(ctx context.Context, history []battle.Message, onDelta func(string)) (string, error) {
	text, err := g.Generate(ctx, history)
	if err != nil {
		return "", err
	}
	for _, chunk := range strings.SplitAfter(text, " ") {
		onDelta(chunk)
	}
	return text, nil
}

// closeNotifyingRecorder satisfies http.CloseNotifier for gin's Stream.
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyingRecorder() *closeNotifyingRecorder {
	return &closeNotifyingRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (c *closeNotifyingRecorder) CloseNotify() <-chan bool {
	return c.closed
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig("/nonexistent/config.yml")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	registry := battle.NewRegistry()
	controllers.InitBattleController(registry, &countingGenerator{}, cfg)
	websocket.InitBattleHub(registry)

	router := gin.New()
	routes.SetupBattleRoutes(router)
	return router
}

func startTestBattle(t *testing.T, router *gin.Engine, body string) controllers.BattleResponse {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/battle/start", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /battle/start, got %d: %s", w.Code, w.Body.String())
	}
	var resp controllers.BattleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode start response: %v", err)
	}
	return resp
}

func TestStartBattleClampsRounds(t *testing.T) {
	router := setupTestRouter(t)

	resp := startTestBattle(t, router, `{"rapper_a":"X","rapper_b":"Y","rounds":50}`)
	if resp.TotalRounds != 10 {
		t.Errorf("Expected rounds clamped to 10, got %d", resp.TotalRounds)
	}
	if resp.ID == "" {
		t.Error("Expected a battle id")
	}

	resp = startTestBattle(t, router, `{"rapper_a":"X","rapper_b":"Y"}`)
	if resp.TotalRounds != 5 {
		t.Errorf("Expected default of 5 rounds, got %d", resp.TotalRounds)
	}
}

func TestStartBattleValidation(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/battle/start", bytes.NewBufferString(`{"rapper_a":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing rapper_b, got %d", w.Code)
	}
}

func TestGetBattleNotFound(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/battle/battle/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown battle, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/battle/battle_stream/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown battle stream, got %d", w.Code)
	}
}

func TestStreamBattleEndToEnd(t *testing.T) {
	router := setupTestRouter(t)

	resp := startTestBattle(t, router, `{"rapper_a":"X","rapper_b":"Y","rounds":1}`)

	w := newCloseNotifyingRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/battle/battle_stream/"+resp.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from stream, got %d", w.Code)
	}

	var finals []battle.Event
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		var ev battle.Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("Bad NDJSON line %q: %v", scanner.Text(), err)
		}
		if ev.Error != "" {
			t.Fatalf("Unexpected error event: %s", ev.Error)
		}
		if ev.Complete {
			finals = append(finals, ev)
		}
	}
	if len(finals) != 2 {
		t.Fatalf("Expected 2 final events for a 1-round battle, got %d", len(finals))
	}
	if finals[0].Rapper != "X" || finals[1].Rapper != "Y" {
		t.Errorf("Expected rappers [X Y], got [%s %s]", finals[0].Rapper, finals[1].Rapper)
	}

	// The polling endpoint now reports the battle as complete.
	gw := httptest.NewRecorder()
	router.ServeHTTP(gw, httptest.NewRequest("GET", "/battle/battle/"+resp.ID, nil))
	var state controllers.BattleResponse
	if err := json.Unmarshal(gw.Body.Bytes(), &state); err != nil {
		t.Fatalf("Failed to decode battle state: %v", err)
	}
	if !state.Complete {
		t.Error("Expected battle to be complete after the stream ended")
	}
	if len(state.Verses) != 2 {
		t.Errorf("Expected 2 verses in the final state, got %d", len(state.Verses))
	}
}
