package service

import (
	"time"

	"jalsetu.io/jalsetu/internal/domain"
)

// NOCCooldown is the fixed resubmission window for NOC applications.
const NOCCooldown = 15 * 24 * time.Hour

// NextAllowedSubmission returns the earliest instant a profile may submit
// another document of the given type after a submission at last. Water
// requests have no cooldown. The exemption window is one calendar month,
// so the wall-clock length varies with the month of the last submission.
func NextAllowedSubmission(docType string, last time.Time) time.Time {
	switch docType {
	case domain.DocTypeNOC:
		return last.Add(NOCCooldown)
	case domain.DocTypeExemption:
		return last.AddDate(0, 1, 0)
	default:
		return last
	}
}

// CooldownRemaining reports whether the cooldown for docType is still
// active at now, and if so how long remains. A submission at exactly the
// next-allowed instant is accepted.
func CooldownRemaining(docType string, last, now time.Time) (time.Duration, bool) {
	allowed := NextAllowedSubmission(docType, last)
	if !now.Before(allowed) {
		return 0, false
	}
	return allowed.Sub(now), true
}
