package battle

import "context"

// Roles for conditioning messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a session's conditioning log: the system
// instructions, a per-verse prompt, or a raw model output.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces the text of one verse given the full ordered
// conditioning history. Implementations live outside this package; the
// battle core treats generation as an opaque capability.
type Generator interface {
	Generate(ctx context.Context, history []Message) (string, error)
}

// StreamingGenerator is a Generator that can deliver the verse
// incrementally. onDelta is called with each raw text chunk as it
// arrives; the full text is still returned at the end.
type StreamingGenerator interface {
	Generator
	GenerateStream(ctx context.Context, history []Message, onDelta func(delta string)) (string, error)
}
