package srs

import "testing"

func TestDeriveGradeIncorrectAlwaysAgain(t *testing.T) {
	tests := []struct {
		name           string
		responseTimeMs int64
		unitCount      int
	}{
		{"instant", 0, 2},
		{"fast", 1500, 3},
		{"slow", 120000, 1},
		{"zero units", 5000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveGrade(false, tt.responseTimeMs, tt.unitCount); got != GradeAgain {
				t.Errorf("DeriveGrade(false, %d, %d) = %v, want again", tt.responseTimeMs, tt.unitCount, got)
			}
		})
	}
}

func TestDeriveGradeCorrectByTiming(t *testing.T) {
	tests := []struct {
		name           string
		responseTimeMs int64
		unitCount      int
		want           Grade
	}{
		{"zero time is easy", 0, 1, GradeEasy},
		{"exactly 5s per unit", 5000, 1, GradeEasy},
		{"just over 5s per unit", 5001, 1, GradeGood},
		{"exactly 10s per unit", 10000, 1, GradeGood},
		{"just over 10s per unit", 10001, 1, GradeHard},
		{"two units fast", 8000, 2, GradeEasy},
		{"two units medium", 16000, 2, GradeGood},
		{"two units slow", 30000, 2, GradeHard},
		{"four char word", 18000, 4, GradeEasy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveGrade(true, tt.responseTimeMs, tt.unitCount); got != tt.want {
				t.Errorf("DeriveGrade(true, %d, %d) = %v, want %v", tt.responseTimeMs, tt.unitCount, got, tt.want)
			}
		})
	}
}

func TestDeriveGradeClampsUnitCount(t *testing.T) {
	// unitCount <= 0 归一为 1 后按单字计时
	if got := DeriveGrade(true, 6000, 0); got != GradeGood {
		t.Errorf("unitCount=0: got %v, want good", got)
	}
	if got := DeriveGrade(true, 6000, -3); got != GradeGood {
		t.Errorf("unitCount=-3: got %v, want good", got)
	}
}

func TestDeriveGradeClampsNegativeTime(t *testing.T) {
	if got := DeriveGrade(true, -100, 1); got != GradeEasy {
		t.Errorf("negative time: got %v, want easy", got)
	}
}

func TestGradeIsValid(t *testing.T) {
	for _, g := range []Grade{GradeAgain, GradeHard, GradeGood, GradeEasy} {
		if !g.IsValid() {
			t.Errorf("%v should be valid", g)
		}
	}
	for _, g := range []Grade{"", "ok", "AGAIN", "perfect"} {
		if g.IsValid() {
			t.Errorf("%q should be invalid", g)
		}
	}
}
