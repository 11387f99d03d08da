package repository

import (
	"time"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/model"

	"gorm.io/gorm"
)

type ReviewEventRepository struct {
	DB *gorm.DB
}

func NewReviewEventRepository(db *gorm.DB) *ReviewEventRepository {
	return &ReviewEventRepository{DB: db}
}

// Append 追加一条流水，历史记录只写不改
func (r *ReviewEventRepository) Append(tx *gorm.DB, event *model.ReviewEvent) error {
	return tx.Create(event).Error
}

// DailyCounts 统计某学习者在 [dayStart, dayEnd) 内的作答总数与正确数，
// 事务内调用时包含本次刚写入的流水
func (r *ReviewEventRepository) DailyCounts(tx *gorm.DB, learnerID string, dayStart, dayEnd time.Time) (total, correct int64, err error) {
	err = tx.Model(&model.ReviewEvent{}).
		Where("learner_id = ? AND reviewed_at >= ? AND reviewed_at < ?", learnerID, dayStart, dayEnd).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	err = tx.Model(&model.ReviewEvent{}).
		Where("learner_id = ? AND reviewed_at >= ? AND reviewed_at < ? AND is_correct = ?", learnerID, dayStart, dayEnd, true).
		Count(&correct).Error
	if err != nil {
		return 0, 0, err
	}
	return total, correct, nil
}

// ListByLearner 分页查询历史，itemID/itemType 为空时不过滤
func (r *ReviewEventRepository) ListByLearner(learnerID, itemID, itemType string, page, limit int) ([]model.ReviewEvent, int64, error) {
	q := r.DB.Model(&model.ReviewEvent{}).Where("learner_id = ?", learnerID)
	if itemID != "" {
		q = q.Where("item_id = ?", itemID)
	}
	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []model.ReviewEvent
	err := q.Order("reviewed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
