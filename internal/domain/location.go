package domain

import "time"

// Location hierarchy: State → District → SubDistrict → Village → Canal.
// Reference data, effectively append-only. Name uniqueness is enforced per
// parent by composite unique indexes, so duplicate creation fails the write.

// State is the top of the location hierarchy.
type State struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// District belongs to a State.
type District struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	StateID   string    `gorm:"not null;uniqueIndex:idx_district_state_name" json:"stateId"`
	Name      string    `gorm:"not null;uniqueIndex:idx_district_state_name" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubDistrict (taluka) belongs to a District.
type SubDistrict struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	DistrictID string    `gorm:"not null;uniqueIndex:idx_subdistrict_district_name" json:"districtId"`
	Name       string    `gorm:"not null;uniqueIndex:idx_subdistrict_district_name" json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Village belongs to a SubDistrict.
type Village struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	SubDistrictID string    `gorm:"not null;uniqueIndex:idx_village_subdistrict_name" json:"subDistrictId"`
	Name          string    `gorm:"not null;uniqueIndex:idx_village_subdistrict_name" json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Canal belongs to a Village.
type Canal struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	VillageID string    `gorm:"not null;uniqueIndex:idx_canal_village_name" json:"villageId"`
	Name      string    `gorm:"not null;uniqueIndex:idx_canal_village_name" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// LocationPath is the resolved human-readable chain for display objects.
type LocationPath struct {
	State       string `json:"state"`
	District    string `json:"district"`
	SubDistrict string `json:"subDistrict"`
	Village     string `json:"village"`
}
