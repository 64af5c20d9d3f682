package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/types"
)

type LegalCaseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cases []*types.LegalCase) ([]*types.LegalCase, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, caseID uuid.UUID) (*types.LegalCase, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.LegalCase, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// UpdateGeneratedContent re-writes the generated analysis of an existing
	// case. The explicit save of the premium edit flow is the only caller.
	UpdateGeneratedContent(ctx context.Context, tx *gorm.DB, userID, caseID uuid.UUID, content string) (int64, error)
}

type legalCaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLegalCaseRepo(db *gorm.DB, baseLog *logger.Logger) LegalCaseRepo {
	return &legalCaseRepo{db: db, log: baseLog.With("repo", "LegalCaseRepo")}
}

func (r *legalCaseRepo) Create(ctx context.Context, tx *gorm.DB, cases []*types.LegalCase) ([]*types.LegalCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(cases) == 0 {
		return []*types.LegalCase{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *legalCaseRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, caseID uuid.UUID) (*types.LegalCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var legalCase types.LegalCase
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", caseID, userID).
		First(&legalCase).Error; err != nil {
		return nil, err
	}
	return &legalCase, nil
}

func (r *legalCaseRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.LegalCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var cases []*types.LegalCase
	if err := query.Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *legalCaseRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LegalCase{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *legalCaseRepo) UpdateGeneratedContent(ctx context.Context, tx *gorm.DB, userID, caseID uuid.UUID, content string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.LegalCase{}).
		Where("id = ? AND user_id = ?", caseID, userID).
		UpdateColumn("generated_content", content)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
