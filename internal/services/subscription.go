package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/lexgen/lexgen-backend/internal/apierr"
	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/repos"
	"github.com/lexgen/lexgen-backend/internal/requestdata"
	"github.com/lexgen/lexgen-backend/internal/types"
)

type AccountOverview struct {
	Plan           string             `json:"plan"`
	CasesRemaining int                `json:"cases_remaining"`
	Unlimited      bool               `json:"unlimited"`
	TotalCases     int64              `json:"total_cases"`
	RecentCases    []*types.LegalCase `json:"recent_cases"`
}

type SubscriptionService interface {
	GetForUser(ctx context.Context) (*types.Subscription, error)
	Overview(ctx context.Context) (*AccountOverview, error)
}

type subscriptionService struct {
	db       *gorm.DB
	log      *logger.Logger
	subRepo  repos.SubscriptionRepo
	caseRepo repos.LegalCaseRepo
}

func NewSubscriptionService(db *gorm.DB, log *logger.Logger, subRepo repos.SubscriptionRepo, caseRepo repos.LegalCaseRepo) SubscriptionService {
	return &subscriptionService{
		db:       db,
		log:      log.With("service", "SubscriptionService"),
		subRepo:  subRepo,
		caseRepo: caseRepo,
	}
}

func (s *subscriptionService) GetForUser(ctx context.Context) (*types.Subscription, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized(errors.New("authentication required"))
	}
	sub, err := s.subRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(errors.New("no subscription found for account"))
		}
		return nil, apierr.PersistenceFailed(err)
	}
	return sub, nil
}

func (s *subscriptionService) Overview(ctx context.Context) (*AccountOverview, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized(errors.New("authentication required"))
	}

	var (
		sub    *types.Subscription
		total  int64
		recent []*types.LegalCase
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sub, err = s.subRepo.GetByUserID(gctx, nil, userID)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.caseRepo.CountByUserID(gctx, nil, userID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.caseRepo.ListByUserID(gctx, nil, userID, 5)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(errors.New("no subscription found for account"))
		}
		return nil, apierr.PersistenceFailed(err)
	}

	return &AccountOverview{
		Plan:           sub.Plan,
		CasesRemaining: sub.CasesRemaining,
		Unlimited:      sub.QuotaExempt(),
		TotalCases:     total,
		RecentCases:    recent,
	}, nil
}
