package srs

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestScheduler() *Scheduler {
	return NewScheduler(DefaultParams(), NoFuzz{})
}

func TestNewStageTransitions(t *testing.T) {
	s := newTestScheduler()
	tests := []struct {
		name      string
		grade     Grade
		wantStage Stage
		wantStep  int
		wantEase  int
		wantDue   time.Time
	}{
		{"again enters learning", GradeAgain, StageLearning, 0, 2300, testNow.Add(1 * time.Minute)},
		{"hard enters learning", GradeHard, StageLearning, 0, 2350, testNow.Add(1 * time.Minute)},
		{"good enters learning", GradeGood, StageLearning, 0, 2500, testNow.Add(1 * time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{Stage: StageNew, EaseFactor: DefaultEaseFactor}
			got, err := s.Next(st, tt.grade, testNow, time.UTC)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if got.Stage != tt.wantStage || got.StepIndex != tt.wantStep {
				t.Errorf("stage/step = %v/%d, want %v/%d", got.Stage, got.StepIndex, tt.wantStage, tt.wantStep)
			}
			if got.EaseFactor != tt.wantEase {
				t.Errorf("ease = %d, want %d", got.EaseFactor, tt.wantEase)
			}
			if !got.NextDueAt.Equal(tt.wantDue) {
				t.Errorf("due = %v, want %v", got.NextDueAt, tt.wantDue)
			}
		})
	}
}

func TestNewEasySkipsLearning(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageNew, EaseFactor: DefaultEaseFactor}
	got, err := s.Next(st, GradeEasy, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Stage != StageReview {
		t.Errorf("stage = %v, want REVIEW", got.Stage)
	}
	if got.IntervalDays != 4 {
		t.Errorf("interval = %d, want 4", got.IntervalDays)
	}
	if got.EaseFactor != DefaultEaseFactor {
		t.Errorf("ease = %d, want unchanged %d", got.EaseFactor, DefaultEaseFactor)
	}
	if !got.NextDueAt.Equal(testNow.Add(4 * 24 * time.Hour)) {
		t.Errorf("due = %v, want now+4d", got.NextDueAt)
	}
}

func TestLearningStepProgression(t *testing.T) {
	s := newTestScheduler()

	// 第一步 good：推进到第二步（10 分钟）
	st := State{Stage: StageLearning, EaseFactor: DefaultEaseFactor, StepIndex: 0}
	got, err := s.Next(st, GradeGood, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Stage != StageLearning || got.StepIndex != 1 {
		t.Errorf("stage/step = %v/%d, want LEARNING/1", got.Stage, got.StepIndex)
	}
	if !got.NextDueAt.Equal(testNow.Add(10 * time.Minute)) {
		t.Errorf("due = %v, want now+10m", got.NextDueAt)
	}

	// 末步 good：毕业，间隔 1 天
	st.StepIndex = 1
	got, err = s.Next(st, GradeGood, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Stage != StageReview || got.IntervalDays != 1 {
		t.Errorf("graduation: stage/interval = %v/%d, want REVIEW/1", got.Stage, got.IntervalDays)
	}
}

func TestLearningAgainResetsStep(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageLearning, EaseFactor: DefaultEaseFactor, StepIndex: 1}
	got, err := s.Next(st, GradeAgain, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Stage != StageLearning || got.StepIndex != 0 {
		t.Errorf("stage/step = %v/%d, want LEARNING/0", got.Stage, got.StepIndex)
	}
	if got.EaseFactor != 2300 {
		t.Errorf("ease = %d, want 2300", got.EaseFactor)
	}
	if !got.NextDueAt.Equal(testNow.Add(1 * time.Minute)) {
		t.Errorf("due = %v, want now+1m", got.NextDueAt)
	}
}

func TestLearningEasyGraduatesEarly(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageLearning, EaseFactor: DefaultEaseFactor, StepIndex: 0}
	got, err := s.Next(st, GradeEasy, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Stage != StageReview || got.IntervalDays != 4 {
		t.Errorf("stage/interval = %v/%d, want REVIEW/4", got.Stage, got.IntervalDays)
	}
	if got.EaseFactor != 2650 {
		t.Errorf("ease = %d, want 2650", got.EaseFactor)
	}
}

func TestReviewGoodScalesByEase(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageReview, IntervalDays: 10, EaseFactor: 2500}
	got, err := s.Next(st, GradeGood, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.IntervalDays != 25 {
		t.Errorf("interval = %d, want 25", got.IntervalDays)
	}
	if got.EaseFactor != 2500 {
		t.Errorf("ease = %d, want unchanged 2500", got.EaseFactor)
	}
	if !got.NextDueAt.Equal(testNow.Add(25 * 24 * time.Hour)) {
		t.Errorf("due = %v, want now+25d", got.NextDueAt)
	}
}

func TestReviewHard(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageReview, IntervalDays: 10, EaseFactor: 2500}
	got, err := s.Next(st, GradeHard, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.IntervalDays != 12 {
		t.Errorf("interval = %d, want 12", got.IntervalDays)
	}
	if got.EaseFactor != 2350 {
		t.Errorf("ease = %d, want 2350", got.EaseFactor)
	}
}

func TestReviewEasy(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageReview, IntervalDays: 10, EaseFactor: 2500}
	got, err := s.Next(st, GradeEasy, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	// 10 × 2.5 × 1.3 = 32.5，向下取整
	if got.IntervalDays != 32 {
		t.Errorf("interval = %d, want 32", got.IntervalDays)
	}
	if got.EaseFactor != 2650 {
		t.Errorf("ease = %d, want 2650", got.EaseFactor)
	}
}

func TestReviewAgainLapsesToRelearning(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageReview, IntervalDays: 10, EaseFactor: 2500}
	got, err := s.Next(st, GradeAgain, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Stage != StageRelearning || got.StepIndex != 0 {
		t.Errorf("stage/step = %v/%d, want RELEARNING/0", got.Stage, got.StepIndex)
	}
	// 旧间隔保留，供重学毕业折半
	if got.IntervalDays != 10 {
		t.Errorf("interval = %d, want preserved 10", got.IntervalDays)
	}
	if got.EaseFactor != 2300 {
		t.Errorf("ease = %d, want 2300", got.EaseFactor)
	}
	if !got.NextDueAt.Equal(testNow.Add(10 * time.Minute)) {
		t.Errorf("due = %v, want now+10m", got.NextDueAt)
	}
}

func TestReviewIntervalGrowsAtLeastOneDay(t *testing.T) {
	s := newTestScheduler()
	// 低难度系数下 interval×ease 不增长，仍须至少 +1 天
	st := State{Stage: StageReview, IntervalDays: 1, EaseFactor: MinEaseFactor}
	for _, grade := range []Grade{GradeHard, GradeGood, GradeEasy} {
		got, err := s.Next(st, grade, testNow, time.UTC)
		if err != nil {
			t.Fatalf("Next(%v): %v", grade, err)
		}
		if got.IntervalDays < st.IntervalDays+1 {
			t.Errorf("%v: interval = %d, want >= %d", grade, got.IntervalDays, st.IntervalDays+1)
		}
	}
}

func TestReviewIntervalClampedAtMax(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageReview, IntervalDays: 365, EaseFactor: MaxEaseFactor}
	got, err := s.Next(st, GradeEasy, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.IntervalDays != 365 {
		t.Errorf("interval = %d, want clamped 365", got.IntervalDays)
	}
}

func TestRelearningAgainKeepsInterval(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageRelearning, IntervalDays: 20, EaseFactor: 2000, StepIndex: 0}
	got, err := s.Next(st, GradeAgain, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Stage != StageRelearning || got.StepIndex != 0 {
		t.Errorf("stage/step = %v/%d, want RELEARNING/0", got.Stage, got.StepIndex)
	}
	if got.IntervalDays != 20 {
		t.Errorf("interval = %d, want preserved 20", got.IntervalDays)
	}
	if got.EaseFactor != 1800 {
		t.Errorf("ease = %d, want 1800", got.EaseFactor)
	}
}

func TestRelearningGraduationHalvesInterval(t *testing.T) {
	s := newTestScheduler()
	tests := []struct {
		name         string
		grade        Grade
		intervalDays int
		wantInterval int
		wantEase     int
	}{
		{"good halves", GradeGood, 10, 5, 2000},
		{"easy halves", GradeEasy, 10, 5, 2150},
		{"floor of half", GradeGood, 9, 4, 2000},
		{"minimum one day", GradeGood, 1, 1, 2000},
		{"zero interval still one day", GradeEasy, 0, 1, 2150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{Stage: StageRelearning, IntervalDays: tt.intervalDays, EaseFactor: 2000, StepIndex: 0}
			got, err := s.Next(st, tt.grade, testNow, time.UTC)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if got.Stage != StageReview {
				t.Errorf("stage = %v, want REVIEW", got.Stage)
			}
			if got.IntervalDays != tt.wantInterval {
				t.Errorf("interval = %d, want %d", got.IntervalDays, tt.wantInterval)
			}
			if got.EaseFactor != tt.wantEase {
				t.Errorf("ease = %d, want %d", got.EaseFactor, tt.wantEase)
			}
		})
	}
}

func TestRelearningMultiStepLadder(t *testing.T) {
	params := DefaultParams()
	params.RelearningStepsMinutes = []int{10, 30}
	s := NewScheduler(params, NoFuzz{})

	st := State{Stage: StageRelearning, IntervalDays: 8, EaseFactor: 2000, StepIndex: 0}
	got, err := s.Next(st, GradeGood, testNow, time.UTC)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Stage != StageRelearning || got.StepIndex != 1 {
		t.Errorf("stage/step = %v/%d, want RELEARNING/1", got.Stage, got.StepIndex)
	}
	if got.IntervalDays != 8 {
		t.Errorf("interval = %d, want preserved 8", got.IntervalDays)
	}
	if !got.NextDueAt.Equal(testNow.Add(30 * time.Minute)) {
		t.Errorf("due = %v, want now+30m", got.NextDueAt)
	}
}

func TestEaseFactorAlwaysInBounds(t *testing.T) {
	s := newTestScheduler()
	stages := []State{
		{Stage: StageNew, EaseFactor: MinEaseFactor},
		{Stage: StageLearning, EaseFactor: MinEaseFactor, StepIndex: 0},
		{Stage: StageReview, IntervalDays: 5, EaseFactor: MinEaseFactor},
		{Stage: StageRelearning, IntervalDays: 5, EaseFactor: MinEaseFactor},
		{Stage: StageNew, EaseFactor: MaxEaseFactor},
		{Stage: StageLearning, EaseFactor: MaxEaseFactor, StepIndex: 1},
		{Stage: StageReview, IntervalDays: 5, EaseFactor: MaxEaseFactor},
		{Stage: StageRelearning, IntervalDays: 5, EaseFactor: MaxEaseFactor},
	}
	grades := []Grade{GradeAgain, GradeHard, GradeGood, GradeEasy}
	for _, st := range stages {
		for _, g := range grades {
			got, err := s.Next(st, g, testNow, time.UTC)
			if err != nil {
				t.Fatalf("Next(%v, %v): %v", st.Stage, g, err)
			}
			if got.EaseFactor < MinEaseFactor || got.EaseFactor > MaxEaseFactor {
				t.Errorf("Next(%v, %v): ease %d out of [%d, %d]", st.Stage, g, got.EaseFactor, MinEaseFactor, MaxEaseFactor)
			}
		}
	}
}

func TestFuzzedIntervalWithinTolerance(t *testing.T) {
	s := NewScheduler(DefaultParams(), NewRandFuzzSource(42))
	st := State{Stage: StageReview, IntervalDays: 100, EaseFactor: 2500}
	for i := 0; i < 200; i++ {
		got, err := s.Next(st, GradeGood, testNow, time.UTC)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		// 250 天 ±5%
		if got.IntervalDays < 238 || got.IntervalDays > 262 {
			t.Fatalf("interval = %d, outside fuzz tolerance [238, 262]", got.IntervalDays)
		}
	}
}

func TestInvalidGradeRejected(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: StageReview, IntervalDays: 10, EaseFactor: 2500}
	_, err := s.Next(st, Grade("perfect"), testNow, time.UTC)
	if !errors.Is(err, ErrInvalidGrade) {
		t.Errorf("err = %v, want ErrInvalidGrade", err)
	}
}

func TestUnknownStageRejected(t *testing.T) {
	s := newTestScheduler()
	st := State{Stage: Stage("MASTERED"), IntervalDays: 10, EaseFactor: 2500}
	_, err := s.Next(st, GradeGood, testNow, time.UTC)
	if !errors.Is(err, ErrUnknownStage) {
		t.Errorf("err = %v, want ErrUnknownStage", err)
	}
}
