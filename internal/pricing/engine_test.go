package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-api/internal/common/config"
	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		Currency: "ALL",
		BasePrices: map[string]map[string]int{
			"standard": {"15": 2000, "30": 3000, "60": 5000},
			"featured": {"15": 3500, "30": 5000, "60": 8000},
			"premium":  {"30": 9000, "60": 15000},
		},
	}
}

func testEngine(t *testing.T, cfg config.PricingConfig) *Engine {
	return NewEngine(cfg, logger.NewTestLogger(t))
}

func testDraft() models.JobDraft {
	return models.JobDraft{
		Title:        "Senior Backend Developer",
		Description:  "We are hiring a senior backend developer for our Tirana office.",
		Category:     "Teknologji",
		JobType:      "full-time",
		Location:     models.Location{City: "Tiranë"},
		Tier:         "standard",
		DurationDays: 30,
	}
}

func testEmployer() models.EmployerContext {
	return models.EmployerContext{ID: "emp-1", Tier: "basic", Verified: true}
}

// ==========================
// Base Price Resolution
// ==========================

func TestCompute_BasePriceFromTable(t *testing.T) {
	engine := testEngine(t, testPricingConfig())

	result, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)

	assert.Equal(t, 3000, result.BasePrice)
	assert.Equal(t, 3000, result.FinalPrice)
	assert.Equal(t, 0, result.Discount)
	assert.Equal(t, 0, result.PriceIncrease)
	assert.Empty(t, result.AppliedRules)
	assert.Equal(t, "ALL", result.Currency)
}

func TestCompute_UnknownTierFails(t *testing.T) {
	engine := testEngine(t, testPricingConfig())
	draft := testDraft()
	draft.Tier = "platinum"

	_, err := engine.Compute(draft, testEmployer())
	require.Error(t, err)

	se, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodePricingConfigInvalid, se.Code)
}

func TestCompute_UnknownDurationFails(t *testing.T) {
	engine := testEngine(t, testPricingConfig())
	draft := testDraft()
	draft.DurationDays = 45

	_, err := engine.Compute(draft, testEmployer())
	require.Error(t, err)

	se, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodePricingConfigInvalid, se.Code)
}

// ==========================
// Free Posting Short-Circuit
// ==========================

func TestCompute_FreePostingShortCircuit(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Rules = []config.PricingRule{
		{
			ID:     "tech-surcharge",
			Name:   "Technology surcharge",
			Effect: config.RuleEffect{Type: "increase", Amount: 1000},
		},
	}
	cfg.Campaign = &config.CampaignConfig{
		ID:     "always-on",
		Active: true,
		Effect: config.RuleEffect{Type: "increase", Amount: 500},
	}
	engine := testEngine(t, cfg)

	employer := testEmployer()
	employer.FreePostingEnabled = true

	result, err := engine.Compute(testDraft(), employer)
	require.NoError(t, err)

	assert.Equal(t, 0, result.FinalPrice, "free posting overrides rules and campaign")
	assert.Equal(t, result.BasePrice, result.Discount)
	assert.Equal(t, []string{FreePostingRule}, result.AppliedRules)
	assert.Empty(t, result.CampaignApplied)
}

// ==========================
// Rule Evaluation
// ==========================

func TestCompute_RulesAccumulateInOrder(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Rules = []config.PricingRule{
		{
			ID:        "tech-discount",
			Name:      "Technology category discount",
			Condition: config.RuleCondition{Category: "Teknologji"},
			Effect:    config.RuleEffect{Type: "discount", Percent: 10},
		},
		{
			ID:        "full-time-increase",
			Name:      "Full-time listing surcharge",
			Condition: config.RuleCondition{JobType: "full-time"},
			Effect:    config.RuleEffect{Type: "increase", Amount: 500},
		},
		{
			ID:        "part-time-discount",
			Name:      "Part-time discount",
			Condition: config.RuleCondition{JobType: "part-time"},
			Effect:    config.RuleEffect{Type: "discount", Amount: 300},
		},
	}
	engine := testEngine(t, cfg)

	result, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)

	// 10% of 3000 = 300 discount, then +500 increase; part-time rule skipped.
	assert.Equal(t, 300, result.Discount)
	assert.Equal(t, 500, result.PriceIncrease)
	assert.Equal(t, 3200, result.FinalPrice)
	assert.Equal(t, []string{"tech-discount", "full-time-increase"}, result.AppliedRules)
}

func TestCompute_PercentAppliesToRunningTotal(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Rules = []config.PricingRule{
		{
			ID:     "flat-discount",
			Effect: config.RuleEffect{Type: "discount", Amount: 1000},
		},
		{
			ID:     "percent-discount",
			Effect: config.RuleEffect{Type: "discount", Percent: 50},
		},
	}
	engine := testEngine(t, cfg)

	result, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)

	// 3000 - 1000 = 2000 running; 50% of 2000 = 1000 more discount.
	assert.Equal(t, 2000, result.Discount)
	assert.Equal(t, 1000, result.FinalPrice)
}

func TestCompute_FinalPriceNeverNegative(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Rules = []config.PricingRule{
		{
			ID:     "huge-discount",
			Effect: config.RuleEffect{Type: "discount", Amount: 10000},
		},
	}
	engine := testEngine(t, cfg)

	result, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)

	assert.Equal(t, 0, result.FinalPrice)
	assert.Equal(t, 10000, result.Discount, "breakdown keeps the pre-clamp discount")
}

func TestCompute_PriceIdentityPreClamp(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Rules = []config.PricingRule{
		{ID: "d1", Effect: config.RuleEffect{Type: "discount", Amount: 700}},
		{ID: "i1", Effect: config.RuleEffect{Type: "increase", Amount: 200}},
	}
	engine := testEngine(t, cfg)

	result, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)

	assert.Equal(t, result.BasePrice-result.Discount+result.PriceIncrease, result.FinalPrice)
}

func TestCompute_EmployerTierCondition(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Rules = []config.PricingRule{
		{
			ID:        "premium-employer-discount",
			Condition: config.RuleCondition{EmployerTier: "premium"},
			Effect:    config.RuleEffect{Type: "discount", Percent: 20},
		},
	}
	engine := testEngine(t, cfg)

	basic, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)
	assert.Empty(t, basic.AppliedRules)

	premium := testEmployer()
	premium.Tier = "premium"
	discounted, err := engine.Compute(testDraft(), premium)
	require.NoError(t, err)
	assert.Equal(t, []string{"premium-employer-discount"}, discounted.AppliedRules)
	assert.Equal(t, 2400, discounted.FinalPrice)
}

func TestCompute_PlatformCategoryCondition(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Rules = []config.PricingRule{
		{
			ID:        "diaspora-platform-discount",
			Condition: config.RuleCondition{PlatformCategories: []string{"diaspora", "seasonal"}},
			Effect:    config.RuleEffect{Type: "discount", Amount: 400},
		},
	}
	engine := testEngine(t, cfg)

	plain, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)
	assert.Empty(t, plain.AppliedRules)

	draft := testDraft()
	draft.PlatformCategories = []string{"internships", "diaspora"}
	matched, err := engine.Compute(draft, testEmployer())
	require.NoError(t, err)
	assert.Equal(t, []string{"diaspora-platform-discount"}, matched.AppliedRules)
	assert.Equal(t, 2600, matched.FinalPrice)
}

// ==========================
// Campaigns
// ==========================

func TestCompute_CampaignAppliedLast(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Rules = []config.PricingRule{
		{ID: "d1", Effect: config.RuleEffect{Type: "discount", Amount: 1000}},
	}
	cfg.Campaign = &config.CampaignConfig{
		ID:     "spring-2026",
		Name:   "Spring promotion",
		Active: true,
		Effect: config.RuleEffect{Type: "discount", Percent: 50},
	}
	engine := testEngine(t, cfg)

	result, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)

	// Rule first: 3000 - 1000 = 2000. Campaign last: 50% of 2000 = 1000.
	assert.Equal(t, "spring-2026", result.CampaignApplied)
	assert.Equal(t, 2000, result.Discount)
	assert.Equal(t, 1000, result.FinalPrice)
	assert.Equal(t, []string{"d1"}, result.AppliedRules, "campaign is not listed among rules")
}

func TestCompute_InactiveCampaignSkipped(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Campaign = &config.CampaignConfig{
		ID:     "old-promo",
		Active: false,
		Effect: config.RuleEffect{Type: "discount", Amount: 500},
	}
	engine := testEngine(t, cfg)

	result, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)
	assert.Empty(t, result.CampaignApplied)
	assert.Equal(t, 3000, result.FinalPrice)
}

func TestCompute_CampaignTimeWindow(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Campaign = &config.CampaignConfig{
		ID:       "window-promo",
		Active:   true,
		StartsAt: "2026-06-01T00:00:00Z",
		EndsAt:   "2026-06-30T23:59:59Z",
		Effect:   config.RuleEffect{Type: "discount", Amount: 500},
	}
	engine := testEngine(t, cfg)

	engine.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	inside, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)
	assert.Equal(t, "window-promo", inside.CampaignApplied)
	assert.Equal(t, 2500, inside.FinalPrice)

	engine.now = func() time.Time { return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC) }
	after, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)
	assert.Empty(t, after.CampaignApplied)
	assert.Equal(t, 3000, after.FinalPrice)
}

func TestCompute_CampaignCategoryScoped(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Campaign = &config.CampaignConfig{
		ID:         "tech-promo",
		Active:     true,
		Categories: []string{"Teknologji"},
		Effect:     config.RuleEffect{Type: "discount", Percent: 25},
	}
	engine := testEngine(t, cfg)

	tech, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)
	assert.Equal(t, "tech-promo", tech.CampaignApplied)

	draft := testDraft()
	draft.Category = "Turizëm"
	other, err := engine.Compute(draft, testEmployer())
	require.NoError(t, err)
	assert.Empty(t, other.CampaignApplied)
}

// ==========================
// Determinism
// ==========================

func TestCompute_Deterministic(t *testing.T) {
	cfg := testPricingConfig()
	cfg.Rules = []config.PricingRule{
		{ID: "d1", Condition: config.RuleCondition{Category: "Teknologji"}, Effect: config.RuleEffect{Type: "discount", Percent: 15}},
		{ID: "i1", Effect: config.RuleEffect{Type: "increase", Amount: 250}},
	}
	engine := testEngine(t, cfg)

	first, err := engine.Compute(testDraft(), testEmployer())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := engine.Compute(testDraft(), testEmployer())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
