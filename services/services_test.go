package services

import (
	"context"
	"testing"

	"versehub/config"
	"versehub/internal/battle"
)

func TestOpenAIMessageRoleMapping(t *testing.T) {
	g := NewOpenAIGenerator("test-key", "")

	history := []battle.Message{
		{Role: battle.RoleSystem, Content: "rules"},
		{Role: battle.RoleUser, Content: "prompt"},
		{Role: battle.RoleAssistant, Content: "verse"},
	}
	messages := g.messages(history)

	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	wantRoles := []string{"system", "user", "assistant"}
	for i, msg := range messages {
		if msg.Role != wantRoles[i] {
			t.Errorf("Message %d: expected role %s, got %s", i, wantRoles[i], msg.Role)
		}
		if msg.Content != history[i].Content {
			t.Errorf("Message %d: content changed: %q", i, msg.Content)
		}
	}
}

func TestFlattenHistory(t *testing.T) {
	history := []battle.Message{
		{Role: battle.RoleSystem, Content: "rules"},
		{Role: battle.RoleUser, Content: "prompt"},
	}
	if got, want := flattenHistory(history), "rules\n\nprompt"; got != want {
		t.Errorf("flattenHistory = %q, want %q", got, want)
	}
}

func TestCleanModelOutput(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain verse", "plain verse"},
		{"```\nfenced verse\n```", "fenced verse"},
		{"  padded verse \n", "padded verse"},
	}
	for _, tc := range cases {
		if got := cleanModelOutput(tc.in); got != tc.want {
			t.Errorf("cleanModelOutput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewGeneratorSelection(t *testing.T) {
	cfg, err := config.LoadConfig("/nonexistent/config.yml")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	gen, err := NewGenerator(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	if _, ok := gen.(battle.StreamingGenerator); !ok {
		t.Error("Expected the default backend to support streaming")
	}

	cfg.Battle.Backend = "punchcard"
	if _, err := NewGenerator(context.Background(), cfg); err == nil {
		t.Error("Expected an error for an unknown backend")
	}
}
