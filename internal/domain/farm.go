package domain

import "time"

// Farm is a land parcel registered by a farmer. The survey number is unique
// within its village; the location chain must resolve to existing records
// whose parent links match.
type Farm struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"not null;index" json:"userId"`
	StateID       string    `gorm:"not null" json:"stateId"`
	DistrictID    string    `gorm:"not null" json:"districtId"`
	SubDistrictID string    `gorm:"not null" json:"subDistrictId"`
	VillageID     string    `gorm:"not null;uniqueIndex:idx_farm_village_survey" json:"villageId"`
	SurveyNumber  string    `gorm:"not null;uniqueIndex:idx_farm_village_survey" json:"surveyNumber"`
	AreaVigha     float64   `gorm:"not null;default:0" json:"areaVigha"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
