package domain

import "time"

// RateAssessment is the Form-12 document derived from an approved water
// request. One assessment exists per water request (unique index on
// WaterRequestID; re-submission recomputes in place). TotalRate is always
// RatePerUnit × RequestedArea and is never independently settable.
//
// PaymentStatus/PaidAmount are a denormalized snapshot written best-effort
// after a successful payment. The payment ledger is the source of truth.
type RateAssessment struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	Number         string     `gorm:"uniqueIndex;not null" json:"number"`
	WaterRequestID string     `gorm:"uniqueIndex;not null" json:"waterRequestId"`
	ProfileID      string     `gorm:"not null;index" json:"profileId"`
	UserID         string     `gorm:"not null;index" json:"userId"`
	RatePerUnit    float64    `gorm:"not null;default:0" json:"ratePerUnit"`
	RequestedArea  float64    `gorm:"not null;default:0" json:"requestedArea"`
	TotalRate      float64    `gorm:"not null;default:0" json:"totalRate"`
	SupplyDate     *time.Time `json:"supplyDate,omitempty"`
	PaymentStatus  string     `json:"paymentStatus,omitempty"`
	PaidAmount     float64    `gorm:"not null;default:0" json:"paidAmount"`
	ReviewState    `gorm:"embedded"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ComputeTotalRate recomputes TotalRate from the current rate and area.
// A missing or zero area yields a zero total, not an error.
func (a *RateAssessment) ComputeTotalRate() {
	a.TotalRate = a.RatePerUnit * a.RequestedArea
}
