package jobstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-api/internal/models"
)

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"draft", "pending_payment", "active", "paused", "closed"}
	for _, s := range valid {
		got, err := ParseStatus(s)
		require.NoError(t, err, "ParseStatus(%q)", s)
		assert.Equal(t, models.Status(s), got)
	}
}

func TestParseStatus_InvalidValues(t *testing.T) {
	for _, s := range []string{"", "ACTIVE", "archived", "pending"} {
		_, err := ParseStatus(s)
		assert.Error(t, err, "ParseStatus(%q) should fail", s)
	}
}

func TestIsTransitionAllowed_ValidForward(t *testing.T) {
	cases := []struct {
		from, to models.Status
	}{
		{models.StatusDraft, models.StatusPendingPayment},
		{models.StatusDraft, models.StatusActive}, // free posting
		{models.StatusPendingPayment, models.StatusActive},
		{models.StatusActive, models.StatusPaused},
		{models.StatusPaused, models.StatusActive},
		{models.StatusActive, models.StatusClosed},
		{models.StatusPaused, models.StatusClosed},
		{models.StatusDraft, models.StatusClosed},
		{models.StatusPendingPayment, models.StatusClosed},
	}
	for _, c := range cases {
		assert.True(t, IsTransitionAllowed(c.from, c.to), "%s → %s should be allowed", c.from, c.to)
	}
}

func TestIsTransitionAllowed_Invalid(t *testing.T) {
	cases := []struct {
		from, to models.Status
	}{
		{models.StatusClosed, models.StatusActive},
		{models.StatusClosed, models.StatusDraft},
		{models.StatusActive, models.StatusDraft},
		{models.StatusActive, models.StatusPendingPayment},
		{models.StatusPaused, models.StatusPendingPayment},
		{models.StatusPendingPayment, models.StatusPaused},
	}
	for _, c := range cases {
		assert.False(t, IsTransitionAllowed(c.from, c.to), "%s → %s should be rejected", c.from, c.to)
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, models.StatusActive, InitialStatus(0), "free postings skip pending_payment")
	assert.Equal(t, models.StatusPendingPayment, InitialStatus(3000))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusClosed))
	for _, s := range []models.Status{
		models.StatusDraft, models.StatusPendingPayment, models.StatusActive, models.StatusPaused,
	} {
		assert.False(t, IsTerminal(s), "%s is not terminal", s)
	}
}
