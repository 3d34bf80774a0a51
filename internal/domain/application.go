package domain

import "time"

// Application document types. The three documents share one shape and one
// review state machine; only their required fields and cooldowns differ.
const (
	DocTypeNOC          = "noc"       // No-Objection Certificate
	DocTypeWaterRequest = "namuna7"   // Namuna-7 canal water request
	DocTypeExemption    = "exemption" // alternative water source declaration
)

// DocTypes lists the valid application document types.
var DocTypes = []string{DocTypeNOC, DocTypeWaterRequest, DocTypeExemption}

// Application is a farmer-submitted workflow document (NOC, WaterRequest or
// Exemption). It references one profile and one-or-more farms and carries
// the shared tri-state review field-set, decided by a Talati.
type Application struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Number      string    `gorm:"uniqueIndex;not null" json:"number"`
	Type        string    `gorm:"not null;index:idx_application_type_profile" json:"type"`
	ProfileID   string    `gorm:"not null;index:idx_application_type_profile" json:"profileId"`
	UserID      string    `gorm:"not null;index" json:"userId"`
	Purpose     string    `json:"purpose,omitempty"`     // NOC
	WaterSource string    `json:"waterSource,omitempty"` // Exemption
	SubmittedAt time.Time `gorm:"not null;index" json:"submittedAt"`
	ReviewState `gorm:"embedded"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Farms   []ApplicationFarm `gorm:"foreignKey:ApplicationID" json:"farms,omitempty"`
	Profile *Profile          `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

// ApplicationFarm is one farm entry on an application, with the
// request-specific fields the farmer filled in for that parcel.
type ApplicationFarm struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	ApplicationID string  `gorm:"not null;index" json:"applicationId"`
	FarmID        string  `gorm:"not null" json:"farmId"`
	RequestedArea float64 `gorm:"not null;default:0" json:"requestedArea"`
	Crop          string  `json:"crop,omitempty"`
	Year          int     `json:"year,omitempty"`

	Farm *Farm `gorm:"foreignKey:FarmID" json:"farm,omitempty"`
}

// RequestedArea sums the requested area over all farm entries.
func (a *Application) RequestedArea() float64 {
	var total float64
	for _, f := range a.Farms {
		total += f.RequestedArea
	}
	return total
}
