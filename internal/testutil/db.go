// Package testutil provides shared test fixtures.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jalsetu.io/jalsetu/internal/domain"
)

// OpenDB opens an isolated in-memory SQLite database with the full schema
// migrated. Each call returns a fresh database; the connection is closed on
// test cleanup.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedUser inserts a user with the given role and returns it.
func SeedUser(t *testing.T, db *gorm.DB, name, role string) domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedLocationChain inserts a full state→district→sub-district→village
// chain and returns the created records.
func SeedLocationChain(t *testing.T, db *gorm.DB, prefix string) (domain.State, domain.District, domain.SubDistrict, domain.Village) {
	t.Helper()

	state := domain.State{ID: uuid.NewString(), Name: prefix + " State"}
	district := domain.District{ID: uuid.NewString(), StateID: state.ID, Name: prefix + " District"}
	subDistrict := domain.SubDistrict{ID: uuid.NewString(), DistrictID: district.ID, Name: prefix + " Taluka"}
	village := domain.Village{ID: uuid.NewString(), SubDistrictID: subDistrict.ID, Name: prefix + " Village"}

	for _, rec := range []any{&state, &district, &subDistrict, &village} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed location: %v", err)
		}
	}
	return state, district, subDistrict, village
}

// SeedProfile inserts a profile for the user referencing the village chain.
func SeedProfile(t *testing.T, db *gorm.DB, user domain.User, village domain.Village) domain.Profile {
	t.Helper()

	var subDistrict domain.SubDistrict
	if err := db.First(&subDistrict, "id = ?", village.SubDistrictID).Error; err != nil {
		t.Fatalf("load sub-district: %v", err)
	}
	var district domain.District
	if err := db.First(&district, "id = ?", subDistrict.DistrictID).Error; err != nil {
		t.Fatalf("load district: %v", err)
	}

	profile := domain.Profile{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		Phone:         "9876543210",
		Aadhar:        "123412341234",
		StateID:       district.StateID,
		DistrictID:    district.ID,
		SubDistrictID: subDistrict.ID,
		VillageID:     village.ID,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

// SeedFarm inserts a farm for the user in the given village.
func SeedFarm(t *testing.T, db *gorm.DB, user domain.User, village domain.Village, surveyNo string, area float64) domain.Farm {
	t.Helper()

	var subDistrict domain.SubDistrict
	if err := db.First(&subDistrict, "id = ?", village.SubDistrictID).Error; err != nil {
		t.Fatalf("load sub-district: %v", err)
	}
	var district domain.District
	if err := db.First(&district, "id = ?", subDistrict.DistrictID).Error; err != nil {
		t.Fatalf("load district: %v", err)
	}

	farm := domain.Farm{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		StateID:       district.StateID,
		DistrictID:    district.ID,
		SubDistrictID: subDistrict.ID,
		VillageID:     village.ID,
		SurveyNumber:  surveyNo,
		AreaVigha:     area,
	}
	if err := db.Create(&farm).Error; err != nil {
		t.Fatalf("seed farm: %v", err)
	}
	return farm
}

// FixedClock returns a clock function pinned to the given instant.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
