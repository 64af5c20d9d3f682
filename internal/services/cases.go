package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexgen/lexgen-backend/internal/apierr"
	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/repos"
	"github.com/lexgen/lexgen-backend/internal/requestdata"
	"github.com/lexgen/lexgen-backend/internal/types"
)

// CaseService covers reads of persisted cases plus the explicit premium save
// that re-writes generated content after a manual edit.
type CaseService interface {
	List(ctx context.Context) ([]*types.LegalCase, error)
	Get(ctx context.Context, caseID uuid.UUID) (*types.LegalCase, error)
	SaveContent(ctx context.Context, caseID uuid.UUID, content string) (*types.LegalCase, error)
}

type caseService struct {
	db       *gorm.DB
	log      *logger.Logger
	caseRepo repos.LegalCaseRepo
	subRepo  repos.SubscriptionRepo
}

func NewCaseService(db *gorm.DB, log *logger.Logger, caseRepo repos.LegalCaseRepo, subRepo repos.SubscriptionRepo) CaseService {
	return &caseService{
		db:       db,
		log:      log.With("service", "CaseService"),
		caseRepo: caseRepo,
		subRepo:  subRepo,
	}
}

func (s *caseService) List(ctx context.Context) ([]*types.LegalCase, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized(errors.New("authentication required"))
	}
	cases, err := s.caseRepo.ListByUserID(ctx, nil, userID, 0)
	if err != nil {
		return nil, apierr.PersistenceFailed(err)
	}
	return cases, nil
}

func (s *caseService) Get(ctx context.Context, caseID uuid.UUID) (*types.LegalCase, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized(errors.New("authentication required"))
	}
	legalCase, err := s.caseRepo.GetByID(ctx, nil, userID, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(errors.New("case not found"))
		}
		return nil, apierr.PersistenceFailed(err)
	}
	return legalCase, nil
}

func (s *caseService) SaveContent(ctx context.Context, caseID uuid.UUID, content string) (*types.LegalCase, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized(errors.New("authentication required"))
	}
	if strings.TrimSpace(content) == "" {
		return nil, apierr.BadRequest(errors.New("content is required"))
	}

	sub, err := s.subRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(errors.New("no subscription found for account"))
		}
		return nil, apierr.PersistenceFailed(err)
	}
	if sub.Plan != types.PlanPremium {
		return nil, apierr.New(http.StatusForbidden, "forbidden", errors.New("editing generated content requires a premium plan"))
	}

	affected, err := s.caseRepo.UpdateGeneratedContent(ctx, nil, userID, caseID, content)
	if err != nil {
		return nil, apierr.PersistenceFailed(err)
	}
	if affected == 0 {
		return nil, apierr.NotFound(errors.New("case not found"))
	}
	return s.caseRepo.GetByID(ctx, nil, userID, caseID)
}
