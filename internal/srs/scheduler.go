package srs

import (
	"errors"
	"fmt"
	"time"
)

// Stage 学习卡片所处阶段
type Stage string

const (
	StageNew        Stage = "NEW"
	StageLearning   Stage = "LEARNING"
	StageReview     Stage = "REVIEW"
	StageRelearning Stage = "RELEARNING"
)

func (s Stage) IsValid() bool {
	switch s {
	case StageNew, StageLearning, StageReview, StageRelearning:
		return true
	}
	return false
}

// 哨兵错误，调用方用 errors.Is 判断
var (
	ErrInvalidGrade = errors.New("srs: invalid grade")
	ErrUnknownStage = errors.New("srs: unknown stage")
)

// 难度系数使用 ×1000 的定点整数表示（2500 = 2.500），
// 全程整数运算，只在缩放间隔时换算，避免浮点漂移。
const (
	DefaultEaseFactor = 2500
	MinEaseFactor     = 1300
	MaxEaseFactor     = 3000

	easeDeltaAgain = -200
	easeDeltaHard  = -150
	easeDeltaGood  = 0
	easeDeltaEasy  = 150
)

// Params 调度参数，零值不可用，通过 DefaultParams 获取
type Params struct {
	LearningStepsMinutes   []int // 学习阶段步梯（分钟）
	RelearningStepsMinutes []int // 重学阶段步梯（分钟）
	GraduatingIntervalDays int   // 毕业进入复习阶段的起始间隔
	EasyIntervalDays       int   // NEW 直接评 easy 跳级后的间隔
	MinReviewIntervalDays  int
	MaxReviewIntervalDays  int
}

func DefaultParams() Params {
	return Params{
		LearningStepsMinutes:   []int{1, 10},
		RelearningStepsMinutes: []int{10},
		GraduatingIntervalDays: 1,
		EasyIntervalDays:       4,
		MinReviewIntervalDays:  1,
		MaxReviewIntervalDays:  365,
	}
}

// State 调度器的输入状态
type State struct {
	Stage        Stage
	IntervalDays int
	EaseFactor   int
	StepIndex    int
}

// Result 一次状态转移后的全部调度字段
type Result struct {
	Stage        Stage
	IntervalDays int
	EaseFactor   int
	StepIndex    int
	NextDueAt    time.Time
}

// Scheduler 纯状态机，唯一的非确定性来自注入的 FuzzSource
type Scheduler struct {
	params Params
	fuzz   FuzzSource
}

func NewScheduler(params Params, fuzz FuzzSource) *Scheduler {
	if len(params.LearningStepsMinutes) == 0 {
		params.LearningStepsMinutes = DefaultParams().LearningStepsMinutes
	}
	if len(params.RelearningStepsMinutes) == 0 {
		params.RelearningStepsMinutes = DefaultParams().RelearningStepsMinutes
	}
	return &Scheduler{params: params, fuzz: fuzz}
}

// Next 根据当前状态与评级计算下一个调度状态。
// loc 目前不参与计算：到期时间是以 now 为基准的绝对偏移。
// TODO: 按学习者时区对齐跨日到期边界
func (s *Scheduler) Next(st State, grade Grade, now time.Time, loc *time.Location) (Result, error) {
	if !grade.IsValid() {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidGrade, grade)
	}

	switch st.Stage {
	case StageNew:
		return s.nextFromNew(st, grade, now), nil
	case StageLearning:
		return s.nextFromLearning(st, grade, now), nil
	case StageReview:
		return s.nextFromReview(st, grade, now), nil
	case StageRelearning:
		return s.nextFromRelearning(st, grade, now), nil
	default:
		// 存量数据出现未知阶段属于致命问题，绝不猜一个默认值
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStage, st.Stage)
	}
}

func (s *Scheduler) nextFromNew(st State, grade Grade, now time.Time) Result {
	if grade == GradeEasy {
		// 直接跳过学习阶段，难度系数保持不变
		return Result{
			Stage:        StageReview,
			IntervalDays: s.params.EasyIntervalDays,
			EaseFactor:   clampEase(st.EaseFactor),
			StepIndex:    0,
			NextDueAt:    addDays(now, s.params.EasyIntervalDays),
		}
	}
	return Result{
		Stage:        StageLearning,
		IntervalDays: st.IntervalDays,
		EaseFactor:   applyEaseDelta(st.EaseFactor, grade),
		StepIndex:    0,
		NextDueAt:    addMinutes(now, s.params.LearningStepsMinutes[0]),
	}
}

func (s *Scheduler) nextFromLearning(st State, grade Grade, now time.Time) Result {
	ease := applyEaseDelta(st.EaseFactor, grade)

	switch grade {
	case GradeAgain:
		return Result{
			Stage:        StageLearning,
			IntervalDays: st.IntervalDays,
			EaseFactor:   ease,
			StepIndex:    0,
			NextDueAt:    addMinutes(now, s.params.LearningStepsMinutes[0]),
		}
	case GradeEasy:
		return Result{
			Stage:        StageReview,
			IntervalDays: s.params.EasyIntervalDays,
			EaseFactor:   ease,
			StepIndex:    0,
			NextDueAt:    addDays(now, s.params.EasyIntervalDays),
		}
	default: // hard / good 沿步梯推进
		next := st.StepIndex + 1
		if next >= len(s.params.LearningStepsMinutes) {
			// 毕业进入复习阶段
			return Result{
				Stage:        StageReview,
				IntervalDays: s.params.GraduatingIntervalDays,
				EaseFactor:   ease,
				StepIndex:    0,
				NextDueAt:    addDays(now, s.params.GraduatingIntervalDays),
			}
		}
		return Result{
			Stage:        StageLearning,
			IntervalDays: st.IntervalDays,
			EaseFactor:   ease,
			StepIndex:    next,
			NextDueAt:    addMinutes(now, s.params.LearningStepsMinutes[next]),
		}
	}
}

func (s *Scheduler) nextFromReview(st State, grade Grade, now time.Time) Result {
	ease := applyEaseDelta(st.EaseFactor, grade)

	if grade == GradeAgain {
		// 遗忘：回到重学阶段，间隔保留，供毕业时折半使用
		return Result{
			Stage:        StageRelearning,
			IntervalDays: st.IntervalDays,
			EaseFactor:   ease,
			StepIndex:    0,
			NextDueAt:    addMinutes(now, s.params.RelearningStepsMinutes[0]),
		}
	}

	var candidate int
	switch grade {
	case GradeHard:
		candidate = st.IntervalDays * 6 / 5 // ×1.2 向下取整
	case GradeGood:
		candidate = st.IntervalDays * st.EaseFactor / 1000
	case GradeEasy:
		// interval × ease/1000 × 1.3，定点展开为 ×ease×13/10000
		candidate = st.IntervalDays * st.EaseFactor * 13 / 10000
	}
	// 复习间隔至少要比上次多一天
	if candidate < st.IntervalDays+1 {
		candidate = st.IntervalDays + 1
	}
	candidate = applyFuzz(candidate, s.fuzz)
	candidate = s.clampInterval(candidate)

	return Result{
		Stage:        StageReview,
		IntervalDays: candidate,
		EaseFactor:   ease,
		StepIndex:    0,
		NextDueAt:    addDays(now, candidate),
	}
}

func (s *Scheduler) nextFromRelearning(st State, grade Grade, now time.Time) Result {
	ease := applyEaseDelta(st.EaseFactor, grade)

	switch grade {
	case GradeAgain:
		return Result{
			Stage:        StageRelearning,
			IntervalDays: st.IntervalDays,
			EaseFactor:   ease,
			StepIndex:    0,
			NextDueAt:    addMinutes(now, s.params.RelearningStepsMinutes[0]),
		}
	case GradeEasy:
		return s.graduateFromRelearning(st, ease, now)
	default: // hard / good
		next := st.StepIndex + 1
		if next >= len(s.params.RelearningStepsMinutes) {
			return s.graduateFromRelearning(st, ease, now)
		}
		return Result{
			Stage:        StageRelearning,
			IntervalDays: st.IntervalDays,
			EaseFactor:   ease,
			StepIndex:    next,
			NextDueAt:    addMinutes(now, s.params.RelearningStepsMinutes[next]),
		}
	}
}

// graduateFromRelearning 重学毕业：旧间隔折半作为惩罚
func (s *Scheduler) graduateFromRelearning(st State, ease int, now time.Time) Result {
	interval := st.IntervalDays / 2
	if interval < s.params.MinReviewIntervalDays {
		interval = s.params.MinReviewIntervalDays
	}
	return Result{
		Stage:        StageReview,
		IntervalDays: interval,
		EaseFactor:   ease,
		StepIndex:    0,
		NextDueAt:    addDays(now, interval),
	}
}

func (s *Scheduler) clampInterval(days int) int {
	if days < s.params.MinReviewIntervalDays {
		return s.params.MinReviewIntervalDays
	}
	if days > s.params.MaxReviewIntervalDays {
		return s.params.MaxReviewIntervalDays
	}
	return days
}

func applyEaseDelta(ease int, grade Grade) int {
	switch grade {
	case GradeAgain:
		ease += easeDeltaAgain
	case GradeHard:
		ease += easeDeltaHard
	case GradeGood:
		ease += easeDeltaGood
	case GradeEasy:
		ease += easeDeltaEasy
	}
	return clampEase(ease)
}

func clampEase(ease int) int {
	if ease < MinEaseFactor {
		return MinEaseFactor
	}
	if ease > MaxEaseFactor {
		return MaxEaseFactor
	}
	return ease
}

// 到期时间按绝对时间偏移推进，不做日历对齐
func addMinutes(t time.Time, m int) time.Time {
	return t.Add(time.Duration(m) * time.Minute)
}

func addDays(t time.Time, d int) time.Time {
	return t.Add(time.Duration(d) * 24 * time.Hour)
}
