package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lexgen/lexgen-backend/internal/apierr"
	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/repos"
	"github.com/lexgen/lexgen-backend/internal/requestdata"
	"github.com/lexgen/lexgen-backend/internal/types"
)

// GenerationResult is the per-turn payload surfaced to the UI layer.
type GenerationResult struct {
	SessionID     uuid.UUID        `json:"session_id,omitempty"`
	Content       string           `json:"content"`
	IsComplete    bool             `json:"is_complete"`
	NeedsMoreInfo bool             `json:"needs_more_info"`
	State         SessionState     `json:"state"`
	Case          *types.LegalCase `json:"case,omitempty"`
}

// CaseGenerationService is the orchestration engine: it gates an attempt on
// subscription and content screening, drives the prompt/generate/classify
// loop, and commits the finished artifact together with the quota charge.
type CaseGenerationService interface {
	ScreenIntake(intake CaseIntake) bool
	GenerateSimple(ctx context.Context, intake CaseIntake) (*types.LegalCase, error)
	StartSession(ctx context.Context, intake CaseIntake) (*GenerationResult, error)
	ContinueSession(ctx context.Context, sessionID uuid.UUID, message string) (*GenerationResult, error)
}

type caseGenService struct {
	db         *gorm.DB
	log        *logger.Logger
	moderation ModerationService
	classifier TurnClassifier
	genClient  GenerationClient
	sessions   SessionStore
	subRepo    repos.SubscriptionRepo
	caseRepo   repos.LegalCaseRepo
	aiLogRepo  repos.AICallLogRepo

	// Retries apply only to generation-service failures; the adapter itself
	// never retries.
	maxRetries int
}

func NewCaseGenerationService(
	db *gorm.DB,
	log *logger.Logger,
	moderation ModerationService,
	classifier TurnClassifier,
	genClient GenerationClient,
	sessions SessionStore,
	subRepo repos.SubscriptionRepo,
	caseRepo repos.LegalCaseRepo,
	aiLogRepo repos.AICallLogRepo,
	maxRetries int,
) CaseGenerationService {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &caseGenService{
		db:         db,
		log:        log.With("service", "CaseGenerationService"),
		moderation: moderation,
		classifier: classifier,
		genClient:  genClient,
		sessions:   sessions,
		subRepo:    subRepo,
		caseRepo:   caseRepo,
		aiLogRepo:  aiLogRepo,
		maxRetries: maxRetries,
	}
}

func (s *caseGenService) ScreenIntake(intake CaseIntake) bool {
	return s.moderation.Screen(intake.Fields())
}

func (s *caseGenService) GenerateSimple(ctx context.Context, intake CaseIntake) (*types.LegalCase, error) {
	userID, sub, err := s.prepareRun(ctx, &intake, true)
	if err != nil {
		return nil, err
	}

	prompt := BuildSimplePrompt(intake)
	content, err := s.generateWithRetry(ctx, userID, prompt, SimpleSamplingParams())
	if err != nil {
		return nil, err
	}

	created, err := s.commitCase(ctx, userID, sub, intake, content, types.ModeSimple, nil)
	if err != nil {
		return nil, err
	}
	s.log.Info("Simple case generated", "user_id", userID.String(), "case_id", created.ID.String())
	return created, nil
}

func (s *caseGenService) StartSession(ctx context.Context, intake CaseIntake) (*GenerationResult, error) {
	userID, sub, err := s.prepareRun(ctx, &intake, false)
	if err != nil {
		return nil, err
	}
	mode, _ := SelectInteractionMode(sub.Plan)
	if mode != types.ModeInteractive {
		return nil, apierr.BadRequest(errors.New("interactive sessions require a premium plan"))
	}

	session := NewSession(userID, intake)
	session.State = SessionStateAwaitingModel

	prompt := BuildInteractiveOpeningPrompt(intake)
	reply, err := s.generateWithRetry(ctx, userID, prompt, InteractiveSamplingParams())
	if err != nil {
		return nil, err
	}

	complete := ApplyModelReply(session, reply, s.classifier)
	result := &GenerationResult{
		SessionID:     session.ID,
		Content:       reply,
		IsComplete:    complete,
		NeedsMoreInfo: !complete,
		State:         session.State,
	}
	if complete {
		created, err := s.commitCase(ctx, userID, sub, session.Intake, reply, types.ModeInteractive, session.Turns)
		if err != nil {
			return nil, err
		}
		result.Case = created
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, apierr.PersistenceFailed(fmt.Errorf("failed to save session: %w", err))
	}
	s.log.Info("Interactive session started",
		"user_id", userID.String(), "session_id", session.ID.String(), "state", string(session.State))
	return result, nil
}

func (s *caseGenService) ContinueSession(ctx context.Context, sessionID uuid.UUID, message string) (*GenerationResult, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized(errors.New("authentication required"))
	}
	if strings.TrimSpace(message) == "" {
		return nil, apierr.BadRequest(errors.New("message is required"))
	}

	session, err := s.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apierr.NotFound(errors.New("session not found"))
		}
		return nil, apierr.PersistenceFailed(err)
	}
	if session.State == SessionStateComplete {
		return nil, apierr.SessionComplete()
	}

	if ApplyUserMessage(session, message, s.classifier) {
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, apierr.PersistenceFailed(fmt.Errorf("failed to save session: %w", err))
		}
		s.log.Info("Session redirected on suspected topic drift",
			"user_id", userID.String(), "session_id", session.ID.String())
		return &GenerationResult{
			SessionID:     session.ID,
			Content:       RedirectNotice,
			IsComplete:    false,
			NeedsMoreInfo: true,
			State:         session.State,
		}, nil
	}

	// The user turn was just appended; the prompt serializes everything
	// before it plus the message itself.
	prompt := BuildInteractiveContinuationPrompt(session.Turns[:len(session.Turns)-1], message)
	reply, err := s.generateWithRetry(ctx, userID, prompt, InteractiveSamplingParams())
	if err != nil {
		return nil, err
	}

	complete := ApplyModelReply(session, reply, s.classifier)
	result := &GenerationResult{
		SessionID:     session.ID,
		Content:       reply,
		IsComplete:    complete,
		NeedsMoreInfo: !complete,
		State:         session.State,
	}
	if complete {
		sub, err := s.subRepo.GetByUserID(ctx, nil, userID)
		if err != nil {
			return nil, apierr.PersistenceFailed(err)
		}
		created, err := s.commitCase(ctx, userID, sub, session.Intake, reply, types.ModeInteractive, session.Turns)
		if err != nil {
			return nil, err
		}
		result.Case = created
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, apierr.PersistenceFailed(fmt.Errorf("failed to save session: %w", err))
	}
	return result, nil
}

// prepareRun resolves identity, reads the subscription, normalizes the intake
// and enforces the gate. Nothing is mutated: a rejection leaves no state.
func (s *caseGenService) prepareRun(ctx context.Context, intake *CaseIntake, deriveFromDescription bool) (uuid.UUID, *types.Subscription, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, nil, apierr.Unauthorized(errors.New("authentication required"))
	}

	if strings.TrimSpace(intake.Description) == "" {
		return uuid.Nil, nil, apierr.BadRequest(errors.New("description is required"))
	}
	if deriveFromDescription {
		normalizeSimpleIntake(intake)
	} else if strings.TrimSpace(intake.Title) == "" || strings.TrimSpace(intake.CaseType) == "" {
		return uuid.Nil, nil, apierr.BadRequest(errors.New("title and case type are required"))
	}

	sub, err := s.subRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, nil, apierr.NotFound(errors.New("no subscription found for account"))
		}
		return uuid.Nil, nil, apierr.PersistenceFailed(err)
	}

	passed := s.moderation.Screen(intake.Fields())
	if err := AuthorizeGeneration(sub, passed); err != nil {
		return uuid.Nil, nil, err
	}
	return userID, sub, nil
}

// Single-field simple intake: title and case type fall back to the first
// line of the description.
func normalizeSimpleIntake(intake *CaseIntake) {
	if strings.TrimSpace(intake.Title) == "" {
		firstLine := strings.SplitN(strings.TrimSpace(intake.Description), "\n", 2)[0]
		if len(firstLine) > 100 {
			firstLine = firstLine[:100]
		}
		intake.Title = firstLine
	}
	if strings.TrimSpace(intake.CaseType) == "" {
		intake.CaseType = "General Inquiry"
	}
}

func (s *caseGenService) generateWithRetry(ctx context.Context, userID uuid.UUID, prompt string, params SamplingParams) (string, error) {
	backoff := 1 * time.Second
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", apierr.GenerationFailed(ctx.Err())
		}

		content, err := s.genClient.Generate(ctx, prompt, params)
		s.auditCall(userID, prompt, content, err)
		if err == nil {
			return content, nil
		}
		lastErr = err

		if !IsGenerationServiceError(err) || attempt == s.maxRetries {
			break
		}

		sleepFor := backoff
		if sleepFor > 10*time.Second {
			sleepFor = 10 * time.Second
		}
		sleepFor = jitterSleep(sleepFor)
		s.log.Warn("Generation call retrying",
			"attempt", attempt+1,
			"max_retries", s.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	return "", apierr.GenerationFailed(lastErr)
}

// +/- 20%
func jitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	high := base.Seconds() + delta
	if low < 0 {
		low = 0
	}
	v := low + rand.Float64()*(high-low)
	return time.Duration(v * float64(time.Second))
}

// commitCase persists the artifact and charges the quota in one transaction.
// The decrement is a conditional in-place update; zero affected rows means a
// concurrent run consumed the last case, and the whole commit rolls back.
func (s *caseGenService) commitCase(ctx context.Context, userID uuid.UUID, sub *types.Subscription, intake CaseIntake, content, mode string, history []Turn) (*types.LegalCase, error) {
	if history == nil {
		history = []Turn{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, apierr.PersistenceFailed(err)
	}

	legalCase := &types.LegalCase{
		UserID:              userID,
		Title:               intake.Title,
		Description:         intake.Description,
		CaseType:            intake.CaseType,
		GeneratedContent:    content,
		EthicalReviewPassed: true,
		TierUsed:            sub.Plan,
		InteractionMode:     mode,
		ConversationHistory: datatypes.JSON(historyJSON),
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.caseRepo.Create(ctx, tx, []*types.LegalCase{legalCase}); err != nil {
			return err
		}
		if !sub.QuotaExempt() {
			affected, err := s.subRepo.DecrementCasesRemaining(ctx, tx, userID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return apierr.QuotaExhausted()
			}
		}
		return nil
	})
	if txErr != nil {
		var ae *apierr.Error
		if errors.As(txErr, &ae) {
			return nil, ae
		}
		return nil, apierr.PersistenceFailed(txErr)
	}
	return legalCase, nil
}

// auditCall records the generation exchange best effort; failures here never
// fail the attempt.
func (s *caseGenService) auditCall(userID uuid.UUID, prompt, response string, callErr error) {
	if s.aiLogRepo == nil {
		return
	}
	entry := &types.AICallLog{
		UserID:   &userID,
		CallType: "case_generation",
		Model:    s.genClient.ModelName(),
		Prompt:   prompt,
		Response: response,
		Success:  callErr == nil,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}
	if _, err := s.aiLogRepo.Create(context.Background(), nil, []*types.AICallLog{entry}); err != nil {
		s.log.Warn("Failed to write AI call log", "error", err)
	}
}
