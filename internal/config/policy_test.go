package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if len(p.Moderation.BlockedTerms) == 0 {
		t.Fatal("expected default blocked terms")
	}
	if p.Conversation.DriftMinPriorTurns != 5 {
		t.Fatalf("DriftMinPriorTurns=%d, want 5", p.Conversation.DriftMinPriorTurns)
	}
	if p.Conversation.CompletionMinReplyLen != 1000 {
		t.Fatalf("CompletionMinReplyLen=%d, want 1000", p.Conversation.CompletionMinReplyLen)
	}
}

func TestLoadPolicyOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := []byte(`
moderation:
  blocked_terms: ["forbidden"]
conversation:
  drift_min_message_len: 50
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("POLICY_CONFIG_PATH", path)

	p, err := LoadPolicy(nil)
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if len(p.Moderation.BlockedTerms) != 1 || p.Moderation.BlockedTerms[0] != "forbidden" {
		t.Fatalf("blocked terms not overridden: %v", p.Moderation.BlockedTerms)
	}
	if p.Conversation.DriftMinMessageLen != 50 {
		t.Fatalf("DriftMinMessageLen=%d, want 50", p.Conversation.DriftMinMessageLen)
	}
	// Untouched fields keep defaults.
	if p.Conversation.DriftMinPriorTurns != 5 {
		t.Fatalf("DriftMinPriorTurns=%d, want default 5", p.Conversation.DriftMinPriorTurns)
	}
}
