package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/utils"
)

// Policy carries the term lists and thresholds that drive content screening
// and the conversation heuristics. Everything here is tunable per deployment
// through a YAML file so tests and operators can swap lists without a rebuild.
type Policy struct {
	Moderation   ModerationPolicy   `yaml:"moderation"`
	Conversation ConversationPolicy `yaml:"conversation"`
}

type ModerationPolicy struct {
	BlockedTerms []string `yaml:"blocked_terms"`
}

type ConversationPolicy struct {
	CompletionPhrases []string `yaml:"completion_phrases"`
	ContinuityPhrases []string `yaml:"continuity_phrases"`
	NewCasePhrases    []string `yaml:"new_case_phrases"`

	// Length-based completion: a reply longer than CompletionMinReplyLen in a
	// session with more than CompletionMinPriorTurns turns counts as final.
	CompletionMinReplyLen   int `yaml:"completion_min_reply_len"`
	CompletionMinPriorTurns int `yaml:"completion_min_prior_turns"`

	// Drift: a message longer than DriftMinMessageLen in a session with more
	// than DriftMinPriorTurns turns, lacking any continuity phrase, is treated
	// as the start of an unrelated case.
	DriftMinMessageLen int `yaml:"drift_min_message_len"`
	DriftMinPriorTurns int `yaml:"drift_min_prior_turns"`
}

func DefaultPolicy() Policy {
	return Policy{
		Moderation: ModerationPolicy{
			BlockedTerms: []string{
				"murder", "terrorism", "fraud", "money laundering", "drug trafficking",
				"human trafficking", "child abuse", "domestic violence", "extortion",
				"blackmail", "kidnapping", "assault", "theft", "burglary", "robbery",
			},
		},
		Conversation: ConversationPolicy{
			CompletionPhrases: []string{
				"comprehensive analysis", "final recommendation", "conclusion", "in summary",
			},
			ContinuityPhrases:       []string{"regarding", "about this case"},
			NewCasePhrases:          []string{"new case", "different case", "another case"},
			CompletionMinReplyLen:   1000,
			CompletionMinPriorTurns: 4,
			DriftMinMessageLen:      200,
			DriftMinPriorTurns:      5,
		},
	}
}

// LoadPolicy returns the compiled-in defaults, overridden by the YAML file at
// POLICY_CONFIG_PATH when set. Missing fields in the file keep their defaults.
func LoadPolicy(log *logger.Logger) (Policy, error) {
	policy := DefaultPolicy()

	path := utils.GetEnv("POLICY_CONFIG_PATH", "", log)
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read policy config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse policy config %s: %w", path, err)
	}
	if log != nil {
		log.Info("Loaded policy config overrides", "path", path)
	}
	return policy, nil
}
