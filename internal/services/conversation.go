package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexgen/lexgen-backend/internal/config"
)

type SessionState string

const (
	SessionStateInit          SessionState = "init"
	SessionStateAwaitingModel SessionState = "awaiting_model"
	SessionStateAwaitingUser  SessionState = "awaiting_user"
	SessionStateRedirected    SessionState = "redirected"
	SessionStateComplete      SessionState = "complete"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// RedirectNotice is emitted when a user appears to start an unrelated case
// mid-session. It is returned without any generation-service call.
const RedirectNotice = `I notice you might be wanting to discuss a new legal case. To ensure I provide the best analysis, I can only handle one case per conversation session.

If you'd like to analyze a different case, please start a new session. This helps me:
- Focus on your specific case details
- Maintain context and accuracy
- Provide personalized legal guidance
- Keep our conversation organized

Would you like me to continue helping with your current case, or would you prefer to start fresh with a new case in a new session?`

type CaseIntake struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	CaseType          string `json:"case_type"`
	AdditionalDetails string `json:"additional_details"`
}

// Fields flattens the intake for the content screen.
func (i CaseIntake) Fields() map[string]string {
	return map[string]string{
		"title":              i.Title,
		"description":        i.Description,
		"case_type":          i.CaseType,
		"additional_details": i.AdditionalDetails,
	}
}

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is one interactive generation run. The intake is frozen at session
// start and the turn log is append-only; a new case requires a new session.
type Session struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Intake    CaseIntake   `json:"intake"`
	Turns     []Turn       `json:"turns"`
	State     SessionState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewSession(userID uuid.UUID, intake CaseIntake) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Intake:    intake,
		Turns:     []Turn{},
		State:     SessionStateInit,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) append(role, content string) {
	s.Turns = append(s.Turns, Turn{Role: role, Content: content})
	s.UpdatedAt = time.Now().UTC()
}

// TurnClassifier decides, from text alone, whether a model reply is the final
// artifact and whether a user message starts an unrelated case. The heuristic
// implementation below is deliberately replaceable: if the generation service
// ever grows a structured stop signal, only this interface needs a new
// implementation, not the state machine.
type TurnClassifier interface {
	ReplyComplete(reply string, priorTurns int) bool
	DriftSuspected(message string, priorTurns int) bool
}

type heuristicTurnClassifier struct {
	cfg config.ConversationPolicy
}

func NewHeuristicTurnClassifier(cfg config.ConversationPolicy) TurnClassifier {
	return &heuristicTurnClassifier{cfg: cfg}
}

func (c *heuristicTurnClassifier) ReplyComplete(reply string, priorTurns int) bool {
	lower := strings.ToLower(reply)
	for _, phrase := range c.cfg.CompletionPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return len(reply) > c.cfg.CompletionMinReplyLen && priorTurns > c.cfg.CompletionMinPriorTurns
}

func (c *heuristicTurnClassifier) DriftSuspected(message string, priorTurns int) bool {
	lower := strings.ToLower(message)
	for _, phrase := range c.cfg.NewCasePhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	if priorTurns <= c.cfg.DriftMinPriorTurns {
		return false
	}
	if len(message) <= c.cfg.DriftMinMessageLen {
		return false
	}
	for _, phrase := range c.cfg.ContinuityPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return false
		}
	}
	return true
}

// ApplyUserMessage advances the session on a user turn. When drift is
// suspected the session passes through redirected back to awaiting_user with
// the fixed notice appended, and the drifting message is NOT recorded, so an
// unrelated case never contaminates the turn log. Returns true on redirect.
func ApplyUserMessage(s *Session, message string, clf TurnClassifier) bool {
	if clf.DriftSuspected(message, len(s.Turns)) {
		s.State = SessionStateRedirected
		s.append(RoleAssistant, RedirectNotice)
		s.State = SessionStateAwaitingUser
		return true
	}
	s.append(RoleUser, message)
	s.State = SessionStateAwaitingModel
	return false
}

// ApplyModelReply appends the assistant turn and decides between complete and
// awaiting_user. Completion is judged against the turn count prior to this
// reply. Returns true when the session reached its terminal state.
func ApplyModelReply(s *Session, reply string, clf TurnClassifier) bool {
	prior := len(s.Turns)
	s.append(RoleAssistant, reply)
	if clf.ReplyComplete(reply, prior) {
		s.State = SessionStateComplete
		return true
	}
	s.State = SessionStateAwaitingUser
	return false
}
