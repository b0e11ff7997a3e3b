package repository

import (
	"context"
	"errors"

	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) rule.Repository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) Save(ctx context.Context, detectionRule *rule.DetectionRule) error {
	return r.db.WithContext(ctx).Create(detectionRule).Error
}

func (r *ruleRepository) Update(ctx context.Context, detectionRule *rule.DetectionRule) error {
	// Select("*") forces every column into the update, so disabling a
	// rule or zeroing its weight actually persists. Updates with a bare
	// struct skips zero-valued fields.
	result := r.db.WithContext(ctx).Model(detectionRule).
		Select("*").
		Omit("created_at").
		Updates(detectionRule)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("detection rule", detectionRule.ID)
	}
	return nil
}

func (r *ruleRepository) Get(ctx context.Context, id uuid.UUID) (*rule.DetectionRule, error) {
	var entity rule.DetectionRule
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("detection rule", id)
		}
		return nil, err
	}
	return &entity, nil
}

func (r *ruleRepository) List(ctx context.Context, offset, limit int) ([]rule.DetectionRule, error) {
	var rules []rule.DetectionRule
	err := r.db.WithContext(ctx).Model(&rule.DetectionRule{}).
		Order("weight desc, id asc").
		Limit(limit).
		Offset(offset).
		Find(&rules).Error
	return rules, err
}

func (r *ruleRepository) ListEnabled(ctx context.Context) ([]rule.DetectionRule, error) {
	var rules []rule.DetectionRule
	err := r.db.WithContext(ctx).Model(&rule.DetectionRule{}).
		Where("enabled = ?", true).
		Order("weight desc, id asc").
		Find(&rules).Error
	return rules, err
}

func (r *ruleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&rule.DetectionRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("detection rule", id)
	}
	return nil
}
