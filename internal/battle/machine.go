package battle

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// State of a battle's turn machine.
type State int

const (
	StateAwaitingTurn State = iota
	StateGenerating
	StateTurnComplete
	StateBattleComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingTurn:
		return "awaiting_turn"
	case StateGenerating:
		return "generating"
	case StateTurnComplete:
		return "turn_complete"
	case StateBattleComplete:
		return "battle_complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrBattleComplete signals an attempt to produce a verse after the
	// final round. Callers driving a machine past this point have a bug.
	ErrBattleComplete = errors.New("battle already complete")

	// ErrEmptyVerse signals that the backend returned no usable text.
	ErrEmptyVerse = errors.New("backend returned an empty verse")
)

// TurnProgress receives the accumulated verse text so far while a verse
// is being generated, along with the round it belongs to. The rapper is
// not reported here: attribution is only resolved when the turn
// completes.
type TurnProgress func(sofar string, round int)

// Machine drives one session through its alternating turns. Rapper A
// opens every battle and every round, B follows, and the round counter
// advances when B finishes. Multiple machines may share a session; the
// session's turn lock keeps at most one turn in flight.
type Machine struct {
	session *Session
	gen     Generator
	state   State
}

func NewMachine(s *Session, gen Generator) *Machine {
	return &Machine{session: s, gen: gen, state: StateAwaitingTurn}
}

// State reports this machine's view of the battle after its last Step.
func (m *Machine) State() State {
	return m.state
}

// Step produces the next verse: compose the prompt, call the backend with
// the full conditioning history, append the verse, toggle the rapper and
// advance the round when a pair of verses completes. On any failure the
// session is left untouched so the same turn can be retried.
//
// The session's turn lock is held for the whole transition, so a
// concurrent Step on the same session waits and then produces the
// following turn (or observes completion) rather than duplicating this
// one. The state lock is released during the backend call, keeping
// snapshots responsive while a verse streams in.
func (m *Machine) Step(ctx context.Context, progress TurnProgress) (Verse, error) {
	s := m.session
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.mu.Lock()
	if s.currentRound > s.TotalRounds {
		s.mu.Unlock()
		m.state = StateBattleComplete
		return Verse{}, ErrBattleComplete
	}

	rapper := s.currentRapper
	round := s.currentRound

	// Contract check: under correct alternation the previous verse never
	// belongs to the rapper about to act.
	if n := len(s.verses); n > 0 && s.verses[n-1].Rapper == rapper {
		s.mu.Unlock()
		return Verse{}, fmt.Errorf("turn order violated: %s cannot answer their own verse", rapper)
	}

	prompt := composePrompt(s, rapper)
	conditioning := make([]Message, len(s.log), len(s.log)+1)
	copy(conditioning, s.log)
	conditioning = append(conditioning, Message{Role: RoleUser, Content: prompt})
	s.mu.Unlock()

	m.state = StateGenerating
	text, err := m.generate(ctx, conditioning, round, progress)
	if err != nil {
		m.state = StateAwaitingTurn
		return Verse{}, fmt.Errorf("generating verse for %s: %w", rapper, err)
	}
	if strings.TrimSpace(text) == "" {
		m.state = StateAwaitingTurn
		return Verse{}, fmt.Errorf("generating verse for %s: %w", rapper, ErrEmptyVerse)
	}

	verse := Verse{Content: text, Rapper: rapper, Round: round}

	s.mu.Lock()
	s.verses = append(s.verses, verse)
	s.log = append(s.log,
		Message{Role: RoleUser, Content: prompt},
		Message{Role: RoleAssistant, Content: text},
	)
	if rapper == s.RapperB {
		s.currentRapper = s.RapperA
		s.currentRound++
	} else {
		s.currentRapper = s.RapperB
	}
	complete := s.currentRound > s.TotalRounds
	s.mu.Unlock()

	if complete {
		m.state = StateBattleComplete
	} else {
		m.state = StateTurnComplete
	}

	return verse, nil
}

func (m *Machine) generate(ctx context.Context, history []Message, round int, progress TurnProgress) (string, error) {
	sg, ok := m.gen.(StreamingGenerator)
	if !ok || progress == nil {
		return m.gen.Generate(ctx, history)
	}

	var sofar strings.Builder
	return sg.GenerateStream(ctx, history, func(delta string) {
		sofar.WriteString(delta)
		progress(sofar.String(), round)
	})
}
