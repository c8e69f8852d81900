package battle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// fakeGenerator returns canned verses ("verse 1", "verse 2", ...) and can
// be scripted to fail on specific call numbers (1-based).
type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	failOn  map[int]bool
	history [][]Message
}

func (g *fakeGenerator) Generate(ctx context.Context, history []Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.history = append(g.history, history)
	if g.failOn[g.calls] {
		return "", errors.New("backend unavailable")
	}
	return fmt.Sprintf("verse %d", g.calls), nil
}

// streamingFakeGenerator delivers each canned verse as word-sized deltas.
type streamingFakeGenerator struct {
	fakeGenerator
}

func (g *streamingFakeGenerator) GenerateStream(ctx context.Context, history []Message, onDelta func(string)) (string, error) {
	text, err := g.Generate(ctx, history)
	if err != nil {
		return "", err
	}
	for _, chunk := range strings.SplitAfter(text, " ") {
		onDelta(chunk)
	}
	return text, nil
}

// blockingGenerator waits for ctx cancellation and reports it, standing in
// for a backend call abandoned mid-flight.
type blockingGenerator struct {
	started chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, history []Message) (string, error) {
	if g.started != nil {
		close(g.started)
	}
	<-ctx.Done()
	return "", ctx.Err()
}
