package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanFree    = "free"
	PlanBasic   = "basic"
	PlanPremium = "premium"
)

// Subscription is the per-account quota row. CasesRemaining is only ever
// mutated through SubscriptionRepo.DecrementCasesRemaining, which performs a
// conditional in-place update so concurrent completions cannot under-charge.
type Subscription struct {
	gorm.Model
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	Plan           string    `gorm:"not null;default:'free';column:plan" json:"plan"`
	CasesRemaining int       `gorm:"not null;default:0;column:cases_remaining" json:"cases_remaining"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// QuotaExempt reports whether the plan is exempt from quota decrements.
func (s *Subscription) QuotaExempt() bool {
	return s.Plan == PlanPremium
}
