package model

import (
	"time"
)

// ReviewEvent 每次作答一条的不可变历史流水，只追加不修改
// swagger:model ReviewEvent
type ReviewEvent struct {
	UUIDBase
	LearnerID string `gorm:"type:varchar(64);not null;index:idx_event_learner_time,priority:1" json:"learnerId"`
	ItemID    string `gorm:"type:varchar(64);not null;index" json:"itemId"`
	ItemType  string `gorm:"type:varchar(32);not null" json:"itemType"`

	UserAnswer    string `gorm:"type:text" json:"userAnswer"`
	CorrectAnswer string `gorm:"type:text" json:"correctAnswer"`
	IsCorrect     bool   `gorm:"not null" json:"isCorrect"`
	Grade         string `gorm:"type:varchar(8);not null" json:"grade"`

	ResponseTimeMs int64 `gorm:"not null" json:"responseTimeMs"`

	// 提交时刻的调度结果快照
	ResultStage        string `gorm:"type:varchar(16);not null" json:"resultStage"`
	ResultIntervalDays int    `gorm:"not null" json:"resultIntervalDays"`

	ReviewedAt time.Time `gorm:"not null;index:idx_event_learner_time,priority:2" json:"reviewedAt"`
}

func (ReviewEvent) TableName() string {
	return "review_events"
}
