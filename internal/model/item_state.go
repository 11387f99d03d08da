package model

import (
	"time"
)

// LearningItemState 每个学习者 × 学习内容一行的当前调度状态
// 首次作答时惰性创建，之后每次作答更新，永不删除
// swagger:model LearningItemState
type LearningItemState struct {
	BaseModel
	LearnerID string `gorm:"type:varchar(64);not null;uniqueIndex:idx_learner_item,priority:1;index:idx_learner_due,priority:1" json:"learnerId"`
	ItemID    string `gorm:"type:varchar(64);not null;uniqueIndex:idx_learner_item,priority:2" json:"itemId"`
	ItemType  string `gorm:"type:varchar(32);not null;uniqueIndex:idx_learner_item,priority:3" json:"itemType"` // word / character / sentence

	Stage        string `gorm:"type:varchar(16);not null" json:"stage"`
	EaseFactor   int    `gorm:"not null;default:2500" json:"easeFactor"` // ×1000 定点表示
	IntervalDays int    `gorm:"not null;default:0" json:"intervalDays"`
	StepIndex    int    `gorm:"not null;default:0" json:"stepIndex"`

	NextDueAt      time.Time  `gorm:"index:idx_learner_due,priority:2;not null" json:"nextDueAt"`
	LastReviewedAt *time.Time `json:"lastReviewedAt,omitempty"`

	// 只增不减的计数器
	TotalReviews   int `gorm:"not null;default:0" json:"totalReviews"`
	CorrectCount   int `gorm:"not null;default:0" json:"correctCount"`
	IncorrectCount int `gorm:"not null;default:0" json:"incorrectCount"`
}

func (LearningItemState) TableName() string {
	return "learning_item_states"
}
