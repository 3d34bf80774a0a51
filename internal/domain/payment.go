package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Payment is one payment attempt against a rate assessment, referenced by
// its business number rather than its internal id. Rows are append-only;
// only Status mutates. Multiple rows per assessment are expected (retries);
// the most recently created success row is authoritative for "is this paid".
type Payment struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	UserID       string         `gorm:"not null;index" json:"userId"`
	AssessmentNo string         `gorm:"not null;index" json:"assessmentNo"`
	OrderRef     string         `json:"orderRef"`
	PaymentRef   string         `json:"paymentRef"`
	Signature    string         `json:"-"`
	Amount       float64        `gorm:"not null;default:0" json:"amount"`
	Status       string         `gorm:"not null;default:pending;index" json:"status"`
	ProviderData datatypes.JSON `json:"providerData,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Counter is a named atomic sequence backing padded business numbers
// (NAM-0001, FORM12-0001). Incremented inside the creating transaction so
// two concurrent submissions never observe the same value.
type Counter struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}
