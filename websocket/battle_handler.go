package websocket

import (
	"log"
	"net/http"
	"sync"

	"versehub/internal/battle"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// room holds the spectator connections for one battle.
type room struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var rooms = make(map[string]*room)
var roomsMutex sync.Mutex

var registry *battle.Registry

// InitBattleHub wires the session registry used to validate spectator
// connections.
func InitBattleHub(reg *battle.Registry) {
	registry = reg
}

func getRoom(battleID string) *room {
	roomsMutex.Lock()
	defer roomsMutex.Unlock()
	r, ok := rooms[battleID]
	if !ok {
		r = &room{clients: make(map[*websocket.Conn]bool)}
		rooms[battleID] = r
	}
	return r
}

// BattleSpectatorHandler upgrades the connection and registers it to
// receive the battle's stream events. Spectators are read-only; whatever
// they send is discarded.
func BattleSpectatorHandler(c *gin.Context) {
	battleID := c.Param("id")
	if registry == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Battle hub not initialized"})
		return
	}
	if _, err := registry.Get(battleID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Battle not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for battle %s: %v", battleID, err)
		return
	}

	r := getRoom(battleID)
	r.mutex.Lock()
	r.clients[conn] = true
	r.mutex.Unlock()
	log.Printf("Spectator joined battle %s", battleID)

	go func() {
		defer func() {
			r.mutex.Lock()
			delete(r.clients, conn)
			r.mutex.Unlock()
			conn.Close()
			log.Printf("Spectator left battle %s", battleID)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// BroadcastBattleEvent sends an event to every spectator of the battle.
// Connections that fail to accept the write are dropped.
func BroadcastBattleEvent(battleID string, ev battle.Event) {
	roomsMutex.Lock()
	r, ok := rooms[battleID]
	roomsMutex.Unlock()
	if !ok {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	for conn := range r.clients {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("Dropping spectator of battle %s: %v", battleID, err)
			conn.Close()
			delete(r.clients, conn)
		}
	}
}
