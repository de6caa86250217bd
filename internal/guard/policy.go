package guard

import (
	"context"
	"regexp"

	"StrideCoach/internal/model"
)

// maxAdviceLen is the length past which advice is flagged as too long to read on a phone.
const maxAdviceLen = 500

var (
	guaranteedReturns = regexp.MustCompile(`(?i)\b(guaranteed (returns?|income|profit)|risk[- ]free|get rich|double your money)\b`)
	speculative       = regexp.MustCompile(`(?i)\b(crypto(currenc(y|ies))?|bitcoin|nfts?|forex|day[- ]trading|stocks?|shares|invest(ing|ment)?|lottery|betting|casino|gambl(e|ing))\b`)
	highCostCredit    = regexp.MustCompile(`(?i)\b(payday loans?|credit card advance|buy now,? pay later|overdraft)\b`)
	pressure          = regexp.MustCompile(`(?i)\b(act now|don't miss out|last chance|immediately)\b`)
)

// PolicyChecker applies the local advice policy. It is the default Checker.
type PolicyChecker struct{}

// Check fails advice that is empty or promises returns, and in deficit also
// advice pointing at speculation or expensive credit. Softer problems are reported
// as issues without failing.
func (PolicyChecker) Check(ctx context.Context, text string, situation model.Situation) (model.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return model.ValidationResult{}, err
	}

	var blocking, soft []string
	if len(text) == 0 {
		blocking = append(blocking, "empty recommendation")
	}
	if m := guaranteedReturns.FindString(text); m != "" {
		blocking = append(blocking, "promises returns: "+m)
	}
	if situation == model.SituationDeficit {
		if m := speculative.FindString(text); m != "" {
			blocking = append(blocking, "speculative suggestion while in deficit: "+m)
		}
		if m := highCostCredit.FindString(text); m != "" {
			blocking = append(blocking, "high-cost credit while in deficit: "+m)
		}
	} else if m := highCostCredit.FindString(text); m != "" {
		soft = append(soft, "mentions high-cost credit: "+m)
	}
	if m := pressure.FindString(text); m != "" {
		soft = append(soft, "pressure wording: "+m)
	}
	if len(text) > maxAdviceLen {
		soft = append(soft, "recommendation too long")
	}

	if len(blocking) > 0 {
		return model.ValidationResult{Passed: false, Confidence: 0.2, Issues: append(blocking, soft...)}, nil
	}
	confidence := 0.95 - 0.1*float64(len(soft))
	if confidence < 0.5 {
		confidence = 0.5
	}
	return model.ValidationResult{Passed: true, Confidence: confidence, Issues: soft}, nil
}
