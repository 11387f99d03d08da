package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/model"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/repository"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/srs"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/monitoring"

	"gorm.io/gorm"
)

type ReviewService struct {
	ItemStateRepo *repository.ItemStateRepository
	EventRepo     *repository.ReviewEventRepository
	RollupRepo    *repository.RollupRepository
	DB            *gorm.DB
	Now           func() time.Time // 可注入时钟，测试时固定

	mu        sync.RWMutex
	scheduler *srs.Scheduler // 配置热更新时整体替换
}

func NewReviewService(
	itemStateRepo *repository.ItemStateRepository,
	eventRepo *repository.ReviewEventRepository,
	rollupRepo *repository.RollupRepository,
	scheduler *srs.Scheduler,
	db *gorm.DB,
) *ReviewService {
	return &ReviewService{
		ItemStateRepo: itemStateRepo,
		EventRepo:     eventRepo,
		RollupRepo:    rollupRepo,
		DB:            db,
		Now:           time.Now,
		scheduler:     scheduler,
	}
}

// SetScheduler 替换调度器，供配置热更新调用
func (s *ReviewService) SetScheduler(scheduler *srs.Scheduler) {
	s.mu.Lock()
	s.scheduler = scheduler
	s.mu.Unlock()
}

func (s *ReviewService) currentScheduler() *srs.Scheduler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheduler
}

// SubmitReviewInput 一次作答提交。正误判定在上游的比对服务完成，
// 这里只接收结论和原始答案快照。
type SubmitReviewInput struct {
	LearnerID      string
	ItemID         string
	ItemType       string
	UserAnswer     string
	CorrectAnswer  string
	IsCorrect      bool
	Grade          srs.Grade
	ResponseTimeMs int64
}

// SubmitReviewResult 提交后的三类落库结果快照
type SubmitReviewResult struct {
	State  *model.LearningItemState `json:"state"`
	Event  *model.ReviewEvent       `json:"event"`
	Rollup *model.DailyRollup       `json:"rollup"`
}

// SubmitReview 以单个事务完成一次复习提交：
// 读取（或初始化）状态 → 调度计算 → 写状态 → 追加流水 → 更新当日汇总。
// 任何一步失败整体回滚；存储层错误原样上抛，这里不做重试。
func (s *ReviewService) SubmitReview(input SubmitReviewInput) (*SubmitReviewResult, error) {
	// 评级非法属于输入错误，在任何写入发生之前拒绝
	if !input.Grade.IsValid() {
		return nil, fmt.Errorf("%w: %q", srs.ErrInvalidGrade, input.Grade)
	}

	now := s.Now()
	var result SubmitReviewResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 行锁读取状态，不存在则在同一事务内按默认值创建
		state, err := s.ItemStateRepo.FindForUpdate(tx, input.LearnerID, input.ItemID, input.ItemType)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			state = &model.LearningItemState{
				LearnerID:  input.LearnerID,
				ItemID:     input.ItemID,
				ItemType:   input.ItemType,
				Stage:      string(srs.StageNew),
				EaseFactor: srs.DefaultEaseFactor,
				NextDueAt:  now,
			}
			if err := s.ItemStateRepo.Create(tx, state); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// 2. 调度计算
		next, err := s.currentScheduler().Next(srs.State{
			Stage:        srs.Stage(state.Stage),
			IntervalDays: state.IntervalDays,
			EaseFactor:   state.EaseFactor,
			StepIndex:    state.StepIndex,
		}, input.Grade, now, time.Local)
		if err != nil {
			return err
		}

		// 3. 写回新状态并推进计数器
		state.Stage = string(next.Stage)
		state.IntervalDays = next.IntervalDays
		state.EaseFactor = next.EaseFactor
		state.StepIndex = next.StepIndex
		state.NextDueAt = next.NextDueAt
		state.LastReviewedAt = &now
		state.TotalReviews++
		if input.IsCorrect {
			state.CorrectCount++
		} else {
			state.IncorrectCount++
		}
		if err := s.ItemStateRepo.Save(tx, state); err != nil {
			return err
		}

		// 4. 追加不可变流水
		event := &model.ReviewEvent{
			LearnerID:          input.LearnerID,
			ItemID:             input.ItemID,
			ItemType:           input.ItemType,
			UserAnswer:         input.UserAnswer,
			CorrectAnswer:      input.CorrectAnswer,
			IsCorrect:          input.IsCorrect,
			Grade:              string(input.Grade),
			ResponseTimeMs:     input.ResponseTimeMs,
			ResultStage:        string(next.Stage),
			ResultIntervalDays: next.IntervalDays,
			ReviewedAt:         now,
		}
		if err := s.EventRepo.Append(tx, event); err != nil {
			return err
		}

		// 5. 增量更新当日汇总
		rollup, err := s.upsertRollup(tx, input, now)
		if err != nil {
			return err
		}

		result = SubmitReviewResult{State: state, Event: event, Rollup: rollup}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ReviewCounter.WithLabelValues(string(input.Grade), result.State.Stage).Inc()
	return &result, nil
}

// upsertRollup 更新当日汇总行。准确率不做累计存储，
// 而是从当日流水（含刚写入的一条）重新计算。
func (s *ReviewService) upsertRollup(tx *gorm.DB, input SubmitReviewInput, now time.Time) (*model.DailyRollup, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	total, correct, err := s.EventRepo.DailyCounts(tx, input.LearnerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	accuracy := 0
	if total > 0 {
		// round(100 × correct / total)，四舍五入
		accuracy = int((100*correct + total/2) / total)
	}
	spentSeconds := int(input.ResponseTimeMs / 1000)

	rollup, err := s.RollupRepo.FindForUpdate(tx, input.LearnerID, dayStart)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		streak, err := s.streakMaintained(tx, input.LearnerID, dayStart)
		if err != nil {
			return nil, err
		}
		rollup = &model.DailyRollup{
			LearnerID:        input.LearnerID,
			Day:              dayStart,
			ReviewsCompleted: 1,
			AccuracyPct:      accuracy,
			TimeSpentSeconds: spentSeconds,
			StreakMaintained: streak,
		}
		if err := s.RollupRepo.Create(tx, rollup); err != nil {
			return nil, err
		}
		return rollup, nil
	} else if err != nil {
		return nil, err
	}

	rollup.ReviewsCompleted++
	rollup.AccuracyPct = accuracy
	rollup.TimeSpentSeconds += spentSeconds
	if err := s.RollupRepo.Save(tx, rollup); err != nil {
		return nil, err
	}
	return rollup, nil
}

// streakMaintained 当日首次作答时判定连续学习：
// 前一自然日有作答记录，或这是该学习者的第一个活跃日
func (s *ReviewService) streakMaintained(tx *gorm.DB, learnerID string, dayStart time.Time) (bool, error) {
	prevDay := dayStart.AddDate(0, 0, -1)
	prevActive, err := s.RollupRepo.ExistsOn(tx, learnerID, prevDay)
	if err != nil {
		return false, err
	}
	if prevActive {
		return true, nil
	}
	hasAny, err := s.RollupRepo.ExistsAny(tx, learnerID)
	if err != nil {
		return false, err
	}
	return !hasAny, nil
}
