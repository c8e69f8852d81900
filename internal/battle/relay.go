package battle

import (
	"context"
	"errors"
	"sync"
)

// Relay converts a session's turn-by-turn generation into an ordered,
// finite sequence of stream events: zero or more partial events per
// verse, exactly one final event per verse, and on a backend failure a
// single error event after which the sequence ends. A Relay is single
// use; open a fresh one to retry a failed turn, the session state was
// not advanced.
type Relay struct {
	machine  *Machine
	battleID string

	mu      sync.Mutex
	started bool
}

func NewRelay(s *Session, gen Generator) *Relay {
	return &Relay{machine: NewMachine(s, gen), battleID: s.ID}
}

// Stream drives the battle until completion or the first failure. The
// returned channel is closed when the sequence ends. If ctx is cancelled
// mid-verse the in-flight backend call is abandoned, nothing is appended
// to the session, and the channel closes without an error event.
func (r *Relay) Stream(ctx context.Context) (<-chan Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil, errors.New("relay already started")
	}
	r.started = true

	ch := make(chan Event)
	go r.run(ctx, ch)
	return ch, nil
}

func (r *Relay) run(ctx context.Context, ch chan<- Event) {
	defer close(ch)

	for {
		progress := func(sofar string, round int) {
			r.emit(ctx, ch, Event{
				Verse:    sofar,
				Round:    round,
				BattleID: r.battleID,
			})
		}

		verse, err := r.machine.Step(ctx, progress)
		if err != nil {
			if errors.Is(err, ErrBattleComplete) {
				return
			}
			if ctx.Err() != nil {
				// Consumer went away; nobody is listening for an error event.
				return
			}
			r.emit(ctx, ch, Event{Error: err.Error(), BattleID: r.battleID})
			return
		}

		r.emit(ctx, ch, Event{
			Verse:    verse.Content,
			Rapper:   verse.Rapper,
			Complete: true,
			Round:    verse.Round,
			BattleID: r.battleID,
		})

		if r.machine.State() == StateBattleComplete {
			return
		}
	}
}

func (r *Relay) emit(ctx context.Context, ch chan<- Event, ev Event) {
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}
