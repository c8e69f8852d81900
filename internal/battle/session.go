package battle

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrBattleNotFound is returned by Registry.Get for unknown battle IDs.
var ErrBattleNotFound = errors.New("battle not found")

// Verse is one produced unit of output within a battle.
type Verse struct {
	Content string `json:"content"`
	Rapper  string `json:"rapper"`
	Round   int    `json:"round"`
}

// Session tracks the state of one battle between two fixed rappers.
// turnMu serializes whole turns so at most one is ever in flight; mu
// guards the fields below it and is never held across a backend call, so
// Snapshot stays cheap while a verse is generating. All mutation happens
// inside Machine.Step.
type Session struct {
	ID          string
	RapperA     string
	RapperB     string
	TotalRounds int

	turnMu sync.Mutex

	mu            sync.Mutex
	currentRound  int
	currentRapper string
	verses        []Verse
	log           []Message
}

// Snapshot is a read-only copy of a session's observable state,
// suitable for polling while a battle is running.
type Snapshot struct {
	ID            string
	RapperA       string
	RapperB       string
	TotalRounds   int
	CurrentRound  int
	CurrentRapper string
	Verses        []Verse
	Complete      bool
}

// Snapshot copies the session state under the session mutex.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	verses := make([]Verse, len(s.verses))
	copy(verses, s.verses)

	return Snapshot{
		ID:            s.ID,
		RapperA:       s.RapperA,
		RapperB:       s.RapperB,
		TotalRounds:   s.TotalRounds,
		CurrentRound:  s.currentRound,
		CurrentRapper: s.currentRapper,
		Verses:        verses,
		Complete:      s.currentRound > s.TotalRounds,
	}
}

// Registry is the process-wide map of active battles. It only stores and
// looks up sessions; no eviction policy is applied here, lifecycle is the
// owner's concern.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create registers a new battle. Rapper A always opens, round counting
// starts at 1, and the conditioning log is seeded with the system
// instructions.
func (r *Registry) Create(rapperA, rapperB string, totalRounds int) *Session {
	s := &Session{
		ID:            uuid.NewString(),
		RapperA:       rapperA,
		RapperB:       rapperB,
		TotalRounds:   totalRounds,
		currentRound:  1,
		currentRapper: rapperA,
		log:           []Message{{Role: RoleSystem, Content: SystemInstructions}},
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s
}

// Get looks up a battle by ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrBattleNotFound
	}
	return s, nil
}
