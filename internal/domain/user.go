package domain

import "time"

// Platform roles. Talati is the first-line reviewer for application
// documents, Engineer reviews Form-12 assessments, Karkoon maintains them.
const (
	RoleFarmer   = "farmer"
	RoleTalati   = "talati"
	RoleEngineer = "engineer"
	RoleKarkoon  = "karkoon"
	RoleAdmin    = "admin"
)

// Roles lists every valid platform role.
var Roles = []string{RoleFarmer, RoleTalati, RoleEngineer, RoleKarkoon, RoleAdmin}

// User is a platform account.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:farmer;index" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile carries a farmer's personal and location details. It belongs to
// exactly one user and is created lazily on first update; it is never
// deleted, only updated.
type Profile struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"uniqueIndex;not null" json:"userId"`
	Phone         string    `json:"phone"`
	Aadhar        string    `json:"aadhar"`
	StateID       string    `json:"stateId"`
	DistrictID    string    `json:"districtId"`
	SubDistrictID string    `json:"subDistrictId"`
	VillageID     string    `json:"villageId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
