package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ModeSimple      = "simple"
	ModeInteractive = "interactive"
)

// LegalCase is the persisted artifact of one completed generation run. Rows
// are insert-once; only GeneratedContent may be re-written afterwards, by the
// explicit premium save flow.
type LegalCase struct {
	gorm.Model
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Title               string         `gorm:"not null;column:title" json:"title"`
	Description         string         `gorm:"not null;column:description" json:"description"`
	CaseType            string         `gorm:"not null;column:case_type" json:"case_type"`
	GeneratedContent    string         `gorm:"column:generated_content" json:"generated_content"`
	EthicalReviewPassed bool           `gorm:"column:ethical_review_passed" json:"ethical_review_passed"`
	TierUsed            string         `gorm:"not null;column:tier_used" json:"tier_used"`
	InteractionMode     string         `gorm:"column:interaction_mode" json:"interaction_mode"`
	ConversationHistory datatypes.JSON `gorm:"column:conversation_history" json:"conversation_history"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
}

func (LegalCase) TableName() string {
	return "cases"
}

func (c *LegalCase) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
