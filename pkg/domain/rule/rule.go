package rule

import (
	"fmt"
	"time"

	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind is the closed set of detection rule variants. Evaluation dispatches
// on this tag; kind-specific parameters live in the Params map.
type Kind string

const (
	KindKeyword          Kind = "keyword"
	KindRegex            Kind = "regex"
	KindModelRestriction Kind = "model_restriction"
	KindCustomScoring    Kind = "custom_scoring"
)

type Severity string

const (
	SeverityNormal Severity = "normal"
	// SeverityAlwaysFlag forces the flagged verdict on match, regardless of
	// the chatbot's risk threshold.
	SeverityAlwaysFlag Severity = "always_flag"
)

type Category string

const (
	CategoryDataPrivacy Category = "data_privacy"
	CategorySecurity    Category = "security"
	CategoryCompliance  Category = "compliance"
)

type DetectionRule struct {
	ID          uuid.UUID             `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    Category              `json:"category"`
	Kind        Kind                  `json:"kind"`
	Params      domain.RuleParamsJSON `json:"params" gorm:"type:jsonb"`
	Weight      int                   `json:"weight"`
	Severity    Severity              `json:"severity"`
	Enabled     bool                  `json:"enabled"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func (r *DetectionRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	return r.Validate()
}

func (r *DetectionRule) BeforeUpdate(tx *gorm.DB) error {
	r.UpdatedAt = time.Now()
	return r.Validate()
}

func (r *DetectionRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch r.Kind {
	case KindKeyword, KindRegex, KindModelRestriction, KindCustomScoring:
	default:
		return fmt.Errorf("invalid rule kind: %s", r.Kind)
	}
	if r.Weight < 0 || r.Weight > 100 {
		return fmt.Errorf("weight must be between 0 and 100, got %d", r.Weight)
	}
	if r.Severity == "" {
		r.Severity = SeverityNormal
	}
	if r.Severity != SeverityNormal && r.Severity != SeverityAlwaysFlag {
		return fmt.Errorf("invalid severity: %s", r.Severity)
	}
	if r.Category == "" {
		r.Category = CategorySecurity
	}
	switch r.Category {
	case CategoryDataPrivacy, CategorySecurity, CategoryCompliance:
	default:
		return fmt.Errorf("invalid category: %s", r.Category)
	}
	return nil
}

func (r *DetectionRule) TableName() string {
	return "public.detection_rules"
}
