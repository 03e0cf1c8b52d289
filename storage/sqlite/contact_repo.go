package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ContactRepo 封装对 contacts 表的所有操作
type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

func (r *ContactRepo) Create(ctx context.Context, contact *Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepo) GetByID(ctx context.Context, id uint) (*Contact, error) {
	var contact Contact
	err := r.db.WithContext(ctx).First(&contact, id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// List 按最近更新排序返回全部联系人
func (r *ContactRepo) List(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&contacts).Error
	return contacts, err
}

// ListRecent 最近更新的前 limit 个联系人（首页用）
func (r *ContactRepo) ListRecent(ctx context.Context, limit int) ([]Contact, error) {
	var contacts []Contact
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepo) Update(ctx context.Context, contact *Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// Delete 删除联系人，聊天记录与分析结果由外键级联清理
func (r *ContactRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Contact{}, id).Error
}

func (r *ContactRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Contact{}).Count(&count).Error
	return count, err
}

// CountCreatedSince 统计某时间点之后新建的联系人
func (r *ContactRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Contact{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// CountUpdatedSince 统计某时间点之后有过动态的联系人
func (r *ContactRepo) CountUpdatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Contact{}).
		Where("updated_at >= ?", since).
		Count(&count).Error
	return count, err
}

// MostActiveName 消息最多的联系人姓名，没有任何消息时返回 "-"
func (r *ContactRepo) MostActiveName(ctx context.Context) (string, error) {
	var name string
	err := r.db.WithContext(ctx).
		Model(&Contact{}).
		Select("contacts.name").
		Joins("JOIN chat_logs ON chat_logs.contact_id = contacts.id").
		Group("contacts.id").
		Order("COUNT(chat_logs.id) DESC").
		Limit(1).
		Scan(&name).Error
	if err != nil {
		return "", err
	}
	if name == "" {
		name = "-"
	}
	return name, nil
}
