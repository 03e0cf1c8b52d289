package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// AnalysisRepo 封装对 analysis_results 表的所有操作
type AnalysisRepo struct {
	db *gorm.DB
}

func NewAnalysisRepo(db *gorm.DB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

// GetByContact 查询联系人的分析结果，不存在时返回 (nil, nil)
func (r *AnalysisRepo) GetByContact(ctx context.Context, contactID uint) (*AnalysisResult, error) {
	var result AnalysisResult
	err := r.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Upsert 写入分析结果：已存在则原地覆盖各字段并刷新 updated_at，否则新建。
// 同一事务内同步刷新联系人的 updated_at，保证两者要么都可见要么都不可见
func (r *AnalysisRepo) Upsert(ctx context.Context, result *AnalysisResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing AnalysisResult
		err := tx.Where("contact_id = ?", result.ContactID).First(&existing).Error
		switch {
		case err == nil:
			result.ID = existing.ID
			result.CreatedAt = existing.CreatedAt
			if err := tx.Save(result).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(result).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return tx.Model(&Contact{}).
			Where("id = ?", result.ContactID).
			Update("updated_at", time.Now()).Error
	})
}

func (r *AnalysisRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&AnalysisResult{}).Count(&count).Error
	return count, err
}

func (r *AnalysisRepo) CountByContact(ctx context.Context, contactID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AnalysisResult{}).
		Where("contact_id = ?", contactID).
		Count(&count).Error
	return count, err
}
