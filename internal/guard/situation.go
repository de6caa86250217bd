package guard

import "StrideCoach/internal/model"

// tightBelow is the margin under which a balanced budget counts as tight.
const tightBelow = 100

// SituationFromMargin tags the user's financial situation. Unknown margins count as balanced.
func SituationFromMargin(margin *float64) model.Situation {
	switch {
	case margin == nil:
		return model.SituationBalanced
	case *margin < 0:
		return model.SituationDeficit
	case *margin < tightBelow:
		return model.SituationTight
	default:
		return model.SituationBalanced
	}
}
