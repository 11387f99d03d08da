package model

import (
	"time"
)

// DailyRollup 每个学习者 × 自然日一行的增量汇总
// swagger:model DailyRollup
type DailyRollup struct {
	BaseModel
	LearnerID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_learner_day,priority:1" json:"learnerId"`
	Day       time.Time `gorm:"type:date;not null;uniqueIndex:idx_learner_day,priority:2" json:"day"`

	ReviewsCompleted int  `gorm:"not null;default:0" json:"reviewsCompleted"`
	AccuracyPct      int  `gorm:"not null;default:0" json:"accuracyPct"` // round(100×当日正确/当日总数)
	TimeSpentSeconds int  `gorm:"not null;default:0" json:"timeSpentSeconds"`
	StreakMaintained bool `gorm:"not null;default:false" json:"streakMaintained"`
}

func (DailyRollup) TableName() string {
	return "daily_rollups"
}
