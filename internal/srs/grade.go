package srs

// Grade 单次复习的离散评级
type Grade string

const (
	GradeAgain Grade = "again"
	GradeHard  Grade = "hard"
	GradeGood  Grade = "good"
	GradeEasy  Grade = "easy"
)

// IsValid 校验评级是否在定义范围内
func (g Grade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	}
	return false
}

// 每字作答时间阈值（秒）
const (
	easySecondsPerUnit = 5.0
	goodSecondsPerUnit = 10.0
)

// DeriveGrade 根据正误和作答速度推导评级
// unitCount 是内容单元数（如汉字数），非法值归一为 1；
// 答错时一律返回 GradeAgain，不看速度。
func DeriveGrade(isCorrect bool, responseTimeMs int64, unitCount int) Grade {
	if !isCorrect {
		return GradeAgain
	}
	if unitCount <= 0 {
		unitCount = 1
	}
	if responseTimeMs < 0 {
		responseTimeMs = 0
	}

	secPerUnit := float64(responseTimeMs) / 1000.0 / float64(unitCount)
	switch {
	case secPerUnit <= easySecondsPerUnit:
		return GradeEasy
	case secPerUnit <= goodSecondsPerUnit:
		return GradeGood
	default:
		return GradeHard
	}
}
