package repository

import (
	"time"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemStateRepository struct {
	DB *gorm.DB
}

func NewItemStateRepository(db *gorm.DB) *ItemStateRepository {
	return &ItemStateRepository{DB: db}
}

// FindForUpdate 在事务内以行锁读取状态行，同一 (learner, item) 的并发提交
// 在此串行化。SQLite（测试环境）不支持 FOR UPDATE，依赖其单写者模型。
func (r *ItemStateRepository) FindForUpdate(tx *gorm.DB, learnerID, itemID, itemType string) (*model.LearningItemState, error) {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var state model.LearningItemState
	err := q.Where("learner_id = ? AND item_id = ? AND item_type = ?", learnerID, itemID, itemType).
		First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *ItemStateRepository) Create(tx *gorm.DB, state *model.LearningItemState) error {
	return tx.Create(state).Error
}

func (r *ItemStateRepository) Save(tx *gorm.DB, state *model.LearningItemState) error {
	return tx.Save(state).Error
}

// FindByItem 只读查询，不加锁
func (r *ItemStateRepository) FindByItem(learnerID, itemID, itemType string) (*model.LearningItemState, error) {
	var state model.LearningItemState
	err := r.DB.Where("learner_id = ? AND item_id = ? AND item_type = ?", learnerID, itemID, itemType).
		First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// FindDue 返回到期条目，按到期时间升序
func (r *ItemStateRepository) FindDue(learnerID string, limit int, now time.Time) ([]model.LearningItemState, error) {
	var states []model.LearningItemState
	q := r.DB.Where("learner_id = ? AND next_due_at <= ?", learnerID, now).
		Order("next_due_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// CountDueAll 全体学习者的到期积压量，供监控指标使用
func (r *ItemStateRepository) CountDueAll(now time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LearningItemState{}).
		Where("next_due_at <= ?", now).
		Count(&count).Error
	return count, err
}
