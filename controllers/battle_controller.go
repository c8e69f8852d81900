package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"

	"versehub/config"
	"versehub/internal/battle"
	"versehub/websocket"

	"github.com/gin-gonic/gin"
)

type BattleRequest struct {
	RapperA string `json:"rapper_a" binding:"required"`
	RapperB string `json:"rapper_b" binding:"required"`
	Rounds  int    `json:"rounds"`
}

type BattleResponse struct {
	ID           string         `json:"id"`
	RapperA      string         `json:"rapper_a"`
	RapperB      string         `json:"rapper_b"`
	Verses       []battle.Verse `json:"verses"`
	Complete     bool           `json:"complete"`
	CurrentRound int            `json:"current_round"`
	TotalRounds  int            `json:"total_rounds"`
}

var (
	registry  *battle.Registry
	generator battle.Generator
	cfg       *config.Config
)

// InitBattleController wires the battle core used by the HTTP handlers.
func InitBattleController(reg *battle.Registry, gen battle.Generator, c *config.Config) {
	registry = reg
	generator = gen
	cfg = c
}

func battleResponse(snap battle.Snapshot) BattleResponse {
	verses := snap.Verses
	if verses == nil {
		verses = []battle.Verse{}
	}
	return BattleResponse{
		ID:           snap.ID,
		RapperA:      snap.RapperA,
		RapperB:      snap.RapperB,
		Verses:       verses,
		Complete:     snap.Complete,
		CurrentRound: snap.CurrentRound,
		TotalRounds:  snap.TotalRounds,
	}
}

// StartBattle creates a new battle and returns its descriptor. The
// requested round count is clamped to the configured bounds here, at the
// intake boundary.
func StartBattle(c *gin.Context) {
	var req BattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	rounds := cfg.ClampRounds(req.Rounds)
	session := registry.Create(req.RapperA, req.RapperB, rounds)
	log.Printf("Created battle %s: %s vs %s, %d rounds", session.ID, req.RapperA, req.RapperB, rounds)

	c.JSON(200, battleResponse(session.Snapshot()))
}

// GetBattle returns the current state of a battle for polling.
func GetBattle(c *gin.Context) {
	session, err := registry.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, battle.ErrBattleNotFound) {
			c.JSON(404, gin.H{"error": "Battle not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, battleResponse(session.Snapshot()))
}

// StreamBattle drives the battle and streams its events to the client,
// one JSON object per line. Spectators connected over the websocket feed
// receive the same events.
func StreamBattle(c *gin.Context) {
	session, err := registry.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, battle.ErrBattleNotFound) {
			c.JSON(404, gin.H{"error": "Battle not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	relay := battle.NewRelay(session, generator)
	events, err := relay.Stream(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}

		websocket.BroadcastBattleEvent(session.ID, ev)

		data, err := json.Marshal(ev)
		if err != nil {
			log.Printf("Failed to marshal battle event: %v", err)
			return false
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return false
		}
		return true
	})
}
