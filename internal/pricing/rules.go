// internal/pricing/rules.go
package pricing

import (
	"math"

	"jobboard-api/internal/common/config"
	"jobboard-api/internal/models"
)

// matchesCondition evaluates a rule condition against the draft and
// employer context. Zero-valued condition fields are wildcards; every
// non-zero field must match. PlatformCategories matches when the draft
// carries any of the listed categories.
func matchesCondition(cond config.RuleCondition, draft models.JobDraft, employer models.EmployerContext) bool {
	if cond.Category != "" && cond.Category != draft.Category {
		return false
	}
	if cond.JobType != "" && cond.JobType != draft.JobType {
		return false
	}
	if cond.EmployerTier != "" && cond.EmployerTier != employer.Tier {
		return false
	}
	if cond.Featured != nil && *cond.Featured != draft.Featured {
		return false
	}

	if len(cond.PlatformCategories) > 0 {
		if !anyOverlap(cond.PlatformCategories, draft.PlatformCategories) {
			return false
		}
	}

	return true
}

// applyEffect accumulates a rule effect into the running discount or
// increase total. Percentages are taken from the running price
// (base − discount + increase so far), so rule order affects the total.
func applyEffect(result *models.Pricing, effect config.RuleEffect, basePrice int) {
	amount := effect.Amount
	if effect.Percent != 0 {
		running := basePrice - result.Discount + result.PriceIncrease
		if running < 0 {
			running = 0
		}
		amount = int(math.Round(float64(running) * effect.Percent / 100))
	}

	switch effect.Type {
	case "discount":
		result.Discount += amount
	case "increase":
		result.PriceIncrease += amount
	}
}

func anyOverlap(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
