package service

import (
	"errors"
	"time"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/model"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/repository"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/util"

	"gorm.io/gorm"
)

type ProgressService struct {
	ItemStateRepo *repository.ItemStateRepository
	EventRepo     *repository.ReviewEventRepository
	RollupRepo    *repository.RollupRepository
	Now           func() time.Time
}

func NewProgressService(
	itemStateRepo *repository.ItemStateRepository,
	eventRepo *repository.ReviewEventRepository,
	rollupRepo *repository.RollupRepository,
) *ProgressService {
	return &ProgressService{
		ItemStateRepo: itemStateRepo,
		EventRepo:     eventRepo,
		RollupRepo:    rollupRepo,
		Now:           time.Now,
	}
}

// DueItems 到期条目选择：next_due_at <= now，按到期时间升序
func (s *ProgressService) DueItems(learnerID string, limit int) ([]model.LearningItemState, error) {
	return s.ItemStateRepo.FindDue(learnerID, limit, s.Now())
}

// GetItemState 单个条目的当前调度状态快照
func (s *ProgressService) GetItemState(learnerID, itemID, itemType string) (*model.LearningItemState, error) {
	state, err := s.ItemStateRepo.FindByItem(learnerID, itemID, itemType)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrItemStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// GetDailyRollup 某自然日的汇总；day 零值表示今天
func (s *ProgressService) GetDailyRollup(learnerID string, day time.Time) (*model.DailyRollup, error) {
	if day.IsZero() {
		now := s.Now()
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	rollup, err := s.RollupRepo.FindByDay(learnerID, day)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRollupNotFound
	}
	if err != nil {
		return nil, err
	}
	return rollup, nil
}

// GetHistory 复习流水分页查询
func (s *ProgressService) GetHistory(learnerID, itemID, itemType string, page, limit int) ([]model.ReviewEvent, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.EventRepo.ListByLearner(learnerID, itemID, itemType, page, limit)
}
