package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/types"
)

type SubscriptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, subs []*types.Subscription) ([]*types.Subscription, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Subscription, error)
	// DecrementCasesRemaining charges one case against the account as a single
	// conditional update. It returns the number of rows affected: 0 means the
	// quota was already exhausted (or the row is missing) and nothing changed.
	DecrementCasesRemaining(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	UpdatePlan(ctx context.Context, tx *gorm.DB, userID uuid.UUID, plan string, casesRemaining int) error
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) Create(ctx context.Context, tx *gorm.DB, subs []*types.Subscription) ([]*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(subs) == 0 {
		return []*types.Subscription{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriptionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sub types.Subscription
	if err := transaction.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) DecrementCasesRemaining(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("user_id = ? AND cases_remaining > ?", userID, 0).
		UpdateColumn("cases_remaining", gorm.Expr("cases_remaining - ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *subscriptionRepo) UpdatePlan(ctx context.Context, tx *gorm.DB, userID uuid.UUID, plan string, casesRemaining int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"plan":            plan,
			"cases_remaining": casesRemaining,
		}).Error
}
