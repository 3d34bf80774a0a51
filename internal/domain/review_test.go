package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exactlyOneActive asserts the tri-state invariant: one of pending,
// approved, denied holds, and the inactive outcome timestamps are nil.
func exactlyOneActive(t *testing.T, r ReviewState) {
	t.Helper()

	active := 0
	for _, b := range []bool{r.Pending, r.Approved, r.Denied} {
		if b {
			active++
		}
	}
	require.Equal(t, 1, active, "exactly one of pending/approved/denied must hold: %+v", r)

	if !r.Approved {
		assert.Nil(t, r.ApprovedAt)
		assert.Empty(t, r.ApprovedBy)
	}
	if !r.Denied {
		assert.Nil(t, r.DeniedAt)
		assert.Empty(t, r.DeniedBy)
	}
}

func TestReviewStateTransitions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("initial state is pending", func(t *testing.T) {
		r := NewReviewState()
		exactlyOneActive(t, r)
		assert.Equal(t, StatusPending, r.Status())
	})

	t.Run("approve from pending", func(t *testing.T) {
		r := NewReviewState()
		r.Approve(now, "talati-1")
		exactlyOneActive(t, r)
		assert.Equal(t, StatusApproved, r.Status())
		require.NotNil(t, r.ApprovedAt)
		assert.Equal(t, now, *r.ApprovedAt)
	})

	t.Run("deny clears a prior approval", func(t *testing.T) {
		r := NewReviewState()
		r.Approve(now, "talati-1")
		r.Deny(now.Add(time.Hour), "talati-2")
		exactlyOneActive(t, r)
		assert.Equal(t, StatusDenied, r.Status())
		assert.Nil(t, r.ApprovedAt)
		assert.Empty(t, r.ApprovedBy)
	})

	t.Run("approve after deny is reachable without pending", func(t *testing.T) {
		r := NewReviewState()
		r.Deny(now, "talati-1")
		r.Approve(now.Add(time.Hour), "talati-1")
		exactlyOneActive(t, r)
		assert.Equal(t, StatusApproved, r.Status())
		assert.Nil(t, r.DeniedAt)
	})

	t.Run("re-approving refreshes the timestamp", func(t *testing.T) {
		r := NewReviewState()
		r.Approve(now, "talati-1")
		later := now.Add(48 * time.Hour)
		r.Approve(later, "talati-1")
		exactlyOneActive(t, r)
		require.NotNil(t, r.ApprovedAt)
		assert.Equal(t, later, *r.ApprovedAt)
	})

	t.Run("invariant holds over arbitrary sequences", func(t *testing.T) {
		r := NewReviewState()
		steps := []string{"approve", "deny", "deny", "approve", "approve", "deny"}
		for i, step := range steps {
			at := now.Add(time.Duration(i) * time.Minute)
			if step == "approve" {
				r.Approve(at, "talati-1")
			} else {
				r.Deny(at, "talati-1")
			}
			exactlyOneActive(t, r)
			assert.False(t, r.Pending, "never transitions back to pending")
		}
	})
}

func TestComputeTotalRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rate float64
		area float64
		want float64
	}{
		{name: "standard rate", rate: 100, area: 5, want: 500},
		{name: "fractional area", rate: 40, area: 2.5, want: 100},
		{name: "zero area yields zero total", rate: 100, area: 0, want: 0},
		{name: "zero rate yields zero total", rate: 0, area: 12, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := RateAssessment{RatePerUnit: tc.rate, RequestedArea: tc.area}
			a.ComputeTotalRate()
			assert.Equal(t, tc.want, a.TotalRate)
		})
	}
}
