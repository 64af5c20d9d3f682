package services

import (
	"strings"

	"github.com/lexgen/lexgen-backend/internal/config"
	"github.com/lexgen/lexgen-backend/internal/logger"
)

// ModerationService screens user-entered intake text for disqualifying
// content. The match is a plain lower-cased substring scan with no word
// boundaries: over-blocking is acceptable, letting a disqualifying intake
// through is not.
type ModerationService interface {
	Screen(fields map[string]string) bool
}

type moderationService struct {
	log          *logger.Logger
	blockedTerms []string
}

func NewModerationService(log *logger.Logger, policy config.ModerationPolicy) ModerationService {
	terms := make([]string, 0, len(policy.BlockedTerms))
	for _, term := range policy.BlockedTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			terms = append(terms, term)
		}
	}
	return &moderationService{
		log:          log.With("service", "ModerationService"),
		blockedTerms: terms,
	}
}

// Screen is pure and side-effect free so the UI can re-run it on every field
// edit for live status. Returns false if any blocked term occurs anywhere in
// the concatenated field values.
func (s *moderationService) Screen(fields map[string]string) bool {
	var b strings.Builder
	for _, val := range fields {
		b.WriteString(val)
		b.WriteString(" ")
	}
	text := strings.ToLower(b.String())
	for _, term := range s.blockedTerms {
		if strings.Contains(text, term) {
			return false
		}
	}
	return true
}
