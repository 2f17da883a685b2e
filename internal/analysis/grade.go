package analysis

import "github.com/scrylabs/scry/internal/core"

// GradingPolicy selects which grade ladder maps a score to a letter.
type GradingPolicy string

const (
	// GradingLenient awards SSS from 90 up.
	GradingLenient GradingPolicy = "lenient"
	// GradingStrict reserves SSS for 98 and above and shifts the other
	// bands up accordingly.
	GradingStrict GradingPolicy = "strict"
)

// GradeFor maps a score to a grade on the lenient ladder, the one the
// scoring engine itself uses.
func GradeFor(score int) core.Grade {
	switch {
	case score >= 90:
		return core.GradeSSS
	case score >= 80:
		return core.GradeSS
	case score >= 70:
		return core.GradeS
	case score >= 60:
		return core.GradeA
	case score >= 50:
		return core.GradeB
	case score >= 40:
		return core.GradeC
	case score >= 30:
		return core.GradeD
	default:
		return core.GradeF
	}
}

func strictGradeFor(score int) core.Grade {
	switch {
	case score >= 98:
		return core.GradeSSS
	case score >= 90:
		return core.GradeSS
	case score >= 80:
		return core.GradeS
	case score >= 70:
		return core.GradeA
	case score >= 60:
		return core.GradeB
	case score >= 50:
		return core.GradeC
	case score >= 40:
		return core.GradeD
	default:
		return core.GradeF
	}
}

// gradeForPolicy dispatches to the ladder the policy names, defaulting
// to lenient for unknown values.
func gradeForPolicy(score int, policy GradingPolicy) core.Grade {
	if policy == GradingStrict {
		return strictGradeFor(score)
	}
	return GradeFor(score)
}
