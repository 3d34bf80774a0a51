// Package domain defines the persisted entities of the JalSetu platform.
package domain

import "time"

// ReviewState is the shared tri-state approval field-set carried by every
// reviewable document (NOC, Namuna-7, Exemption, Form-12).
//
// Exactly one of Pending/Approved/Denied is true at any time. Approve and
// Deny clear the opposite outcome together with its timestamp, so a document
// can move APPROVED ↔ DENIED directly without passing back through PENDING.
// Re-applying the current outcome refreshes its timestamp.
type ReviewState struct {
	Pending    bool       `gorm:"not null;default:true;index" json:"pending"`
	Approved   bool       `gorm:"not null;default:false" json:"approved"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
	Denied     bool       `gorm:"not null;default:false" json:"denied"`
	DeniedAt   *time.Time `json:"deniedAt,omitempty"`
	DeniedBy   string     `json:"deniedBy,omitempty"`
}

// NewReviewState returns the initial pending state.
func NewReviewState() ReviewState {
	return ReviewState{Pending: true}
}

// Approve transitions to the approved outcome at the given instant.
func (r *ReviewState) Approve(now time.Time, reviewer string) {
	r.Pending = false
	r.Approved = true
	r.ApprovedAt = &now
	r.ApprovedBy = reviewer
	r.Denied = false
	r.DeniedAt = nil
	r.DeniedBy = ""
}

// Deny transitions to the denied outcome at the given instant.
func (r *ReviewState) Deny(now time.Time, reviewer string) {
	r.Pending = false
	r.Denied = true
	r.DeniedAt = &now
	r.DeniedBy = reviewer
	r.Approved = false
	r.ApprovedAt = nil
	r.ApprovedBy = ""
}

// Status renders the active outcome as a display string.
func (r ReviewState) Status() string {
	switch {
	case r.Approved:
		return StatusApproved
	case r.Denied:
		return StatusDenied
	default:
		return StatusPending
	}
}

// Review status display values.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDenied   = "DENIED"
)
