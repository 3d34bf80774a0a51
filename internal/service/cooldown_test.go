package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jalsetu.io/jalsetu/internal/domain"
)

func TestCooldownRemaining(t *testing.T) {
	t.Parallel()

	submitted := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		docType     string
		now         time.Time
		wantBlocked bool
		wantLeft    time.Duration
	}{
		{
			name:        "noc one second before window end is rejected",
			docType:     domain.DocTypeNOC,
			now:         submitted.Add(NOCCooldown - time.Second),
			wantBlocked: true,
			wantLeft:    time.Second,
		},
		{
			name:    "noc exactly at window end is accepted",
			docType: domain.DocTypeNOC,
			now:     submitted.Add(NOCCooldown),
		},
		{
			name:        "noc ten days in is rejected",
			docType:     domain.DocTypeNOC,
			now:         submitted.Add(10 * 24 * time.Hour),
			wantBlocked: true,
			wantLeft:    5 * 24 * time.Hour,
		},
		{
			name:    "noc sixteen days later is accepted",
			docType: domain.DocTypeNOC,
			now:     submitted.Add(16 * 24 * time.Hour),
		},
		{
			name:        "exemption within the calendar month is rejected",
			docType:     domain.DocTypeExemption,
			now:         time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC),
			wantBlocked: true,
			wantLeft:    24 * time.Hour,
		},
		{
			name:    "exemption exactly one calendar month later is accepted",
			docType: domain.DocTypeExemption,
			now:     time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "water request has no cooldown",
			docType: domain.DocTypeWaterRequest,
			now:     submitted.Add(time.Minute),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			left, blocked := CooldownRemaining(tc.docType, submitted, tc.now)
			assert.Equal(t, tc.wantBlocked, blocked)
			assert.Equal(t, tc.wantLeft, left)
		})
	}
}

func TestNextAllowedSubmissionMonthBoundaries(t *testing.T) {
	t.Parallel()

	// AddDate normalises overflowing days, e.g. Jan 31 + 1 month = Mar 3
	// in a non-leap year. The behaviour is accepted as-is.
	last := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	got := NextAllowedSubmission(domain.DocTypeExemption, last)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), got)
}
