package repository

import (
	"time"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RollupRepository struct {
	DB *gorm.DB
}

func NewRollupRepository(db *gorm.DB) *RollupRepository {
	return &RollupRepository{DB: db}
}

// FindForUpdate 事务内加锁读取当日汇总行，不存在时返回 gorm.ErrRecordNotFound
func (r *RollupRepository) FindForUpdate(tx *gorm.DB, learnerID string, day time.Time) (*model.DailyRollup, error) {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rollup model.DailyRollup
	err := q.Where("learner_id = ? AND day = ?", learnerID, day).First(&rollup).Error
	if err != nil {
		return nil, err
	}
	return &rollup, nil
}

func (r *RollupRepository) Create(tx *gorm.DB, rollup *model.DailyRollup) error {
	return tx.Create(rollup).Error
}

func (r *RollupRepository) Save(tx *gorm.DB, rollup *model.DailyRollup) error {
	return tx.Save(rollup).Error
}

// ExistsOn 某学习者在指定自然日是否有汇总记录（连续学习判断用）
func (r *RollupRepository) ExistsOn(tx *gorm.DB, learnerID string, day time.Time) (bool, error) {
	var count int64
	err := tx.Model(&model.DailyRollup{}).
		Where("learner_id = ? AND day = ? AND reviews_completed > 0", learnerID, day).
		Count(&count).Error
	return count > 0, err
}

// ExistsAny 某学习者是否有过任何汇总记录
func (r *RollupRepository) ExistsAny(tx *gorm.DB, learnerID string) (bool, error) {
	var count int64
	err := tx.Model(&model.DailyRollup{}).
		Where("learner_id = ?", learnerID).
		Count(&count).Error
	return count > 0, err
}

// FindByDay 只读查询某日汇总
func (r *RollupRepository) FindByDay(learnerID string, day time.Time) (*model.DailyRollup, error) {
	var rollup model.DailyRollup
	err := r.DB.Where("learner_id = ? AND day = ?", learnerID, day).First(&rollup).Error
	if err != nil {
		return nil, err
	}
	return &rollup, nil
}
