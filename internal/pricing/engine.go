// Package pricing computes the price breakdown of a job posting from the
// configured price table, discount/increase rules and campaign. The engine
// is a pure computation: persistence belongs to the caller.
package pricing

import (
	"fmt"
	"strconv"
	"time"

	"jobboard-api/internal/common/config"
	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/models"
)

// FreePostingRule is the synthetic marker recorded when an employer's
// free-posting flag short-circuits the rule evaluation.
const FreePostingRule = "free-posting"

type Engine struct {
	cfg    config.PricingConfig
	logger logger.Logger
	now    func() time.Time
}

func NewEngine(cfg config.PricingConfig, log logger.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "pricing"}),
		now:    time.Now,
	}
}

// Compute returns the price breakdown for a draft. Deterministic given
// identical inputs and configuration; the final price is never negative.
func (e *Engine) Compute(draft models.JobDraft, employer models.EmployerContext) (models.Pricing, error) {
	basePrice, err := e.basePrice(draft)
	if err != nil {
		return models.Pricing{}, err
	}

	result := models.Pricing{
		BasePrice:    basePrice,
		Currency:     e.cfg.Currency,
		AppliedRules: []string{},
	}

	if employer.FreePostingEnabled {
		result.Discount = basePrice
		result.FinalPrice = 0
		result.AppliedRules = []string{FreePostingRule}

		e.logger.Info("free posting applied", map[string]interface{}{
			"employerId": employer.ID,
			"basePrice":  basePrice,
		})
		return result, nil
	}

	for _, rule := range e.cfg.Rules {
		if !matchesCondition(rule.Condition, draft, employer) {
			continue
		}
		applyEffect(&result, rule.Effect, basePrice)
		result.AppliedRules = append(result.AppliedRules, rule.ID)
	}

	if c := e.cfg.Campaign; c != nil && e.campaignApplies(c, draft) {
		applyEffect(&result, c.Effect, basePrice)
		result.CampaignApplied = c.ID
	}

	final := basePrice - result.Discount + result.PriceIncrease
	if final < 0 {
		final = 0
	}
	result.FinalPrice = final

	e.logger.Debug("pricing computed", map[string]interface{}{
		"basePrice":    basePrice,
		"discount":     result.Discount,
		"increase":     result.PriceIncrease,
		"finalPrice":   final,
		"appliedRules": result.AppliedRules,
	})

	return result, nil
}

// basePrice resolves the price table entry for the draft's tier and
// duration. Missing entries are a configuration failure, never a default.
func (e *Engine) basePrice(draft models.JobDraft) (int, error) {
	durations, ok := e.cfg.BasePrices[draft.Tier]
	if !ok {
		return 0, errors.NewPricingConfigError(fmt.Sprintf("unknown posting tier %q", draft.Tier))
	}

	price, ok := durations[strconv.Itoa(draft.DurationDays)]
	if !ok {
		return 0, errors.NewPricingConfigError(
			fmt.Sprintf("no price for tier %q with duration %d days", draft.Tier, draft.DurationDays))
	}

	return price, nil
}

// campaignApplies checks the campaign's active flag, time window and
// category applicability against the draft.
func (e *Engine) campaignApplies(c *config.CampaignConfig, draft models.JobDraft) bool {
	if !c.Active {
		return false
	}

	now := e.now()
	if c.StartsAt != "" {
		start, err := time.Parse(time.RFC3339, c.StartsAt)
		if err != nil || now.Before(start) {
			return false
		}
	}
	if c.EndsAt != "" {
		end, err := time.Parse(time.RFC3339, c.EndsAt)
		if err != nil || now.After(end) {
			return false
		}
	}

	if len(c.Categories) == 0 {
		return true
	}
	for _, cat := range c.Categories {
		if cat == draft.Category {
			return true
		}
	}
	return false
}
