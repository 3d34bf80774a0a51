package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
)

// LocationService validates location chains and resolves ids to
// human-readable names for display objects. References are soft — there is
// no database-level foreign key from farms or profiles into the hierarchy —
// so validation happens here at write time.
type LocationService struct {
	db *gorm.DB
}

// NewLocationService creates a new LocationService.
func NewLocationService(db *gorm.DB) *LocationService {
	return &LocationService{db: db}
}

// ValidateChain checks that every reference exists and that each level
// belongs to its named parent (village → sub-district → district → state).
func (s *LocationService) ValidateChain(ctx context.Context, stateID, districtID, subDistrictID, villageID string) error {
	var village domain.Village
	if err := s.db.WithContext(ctx).First(&village, "id = ?", villageID).Error; err != nil {
		return chainErr(err, "village not found")
	}
	if village.SubDistrictID != subDistrictID {
		return apperrors.BadRequest(apperrors.CodeBrokenLocation, "village does not belong to the given sub-district")
	}

	var subDistrict domain.SubDistrict
	if err := s.db.WithContext(ctx).First(&subDistrict, "id = ?", subDistrictID).Error; err != nil {
		return chainErr(err, "sub-district not found")
	}
	if subDistrict.DistrictID != districtID {
		return apperrors.BadRequest(apperrors.CodeBrokenLocation, "sub-district does not belong to the given district")
	}

	var district domain.District
	if err := s.db.WithContext(ctx).First(&district, "id = ?", districtID).Error; err != nil {
		return chainErr(err, "district not found")
	}
	if district.StateID != stateID {
		return apperrors.BadRequest(apperrors.CodeBrokenLocation, "district does not belong to the given state")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.State{}).Where("id = ?", stateID).Count(&count).Error; err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "location lookup failed", 500)
	}
	if count == 0 {
		return apperrors.NotFound(apperrors.CodeLocationNotFound, "state not found")
	}
	return nil
}

// ResolvePath resolves the chain into display names. Missing references
// resolve to empty strings rather than errors; the path is display-only.
func (s *LocationService) ResolvePath(ctx context.Context, stateID, districtID, subDistrictID, villageID string) domain.LocationPath {
	var path domain.LocationPath

	var state domain.State
	if err := s.db.WithContext(ctx).First(&state, "id = ?", stateID).Error; err == nil {
		path.State = state.Name
	}
	var district domain.District
	if err := s.db.WithContext(ctx).First(&district, "id = ?", districtID).Error; err == nil {
		path.District = district.Name
	}
	var subDistrict domain.SubDistrict
	if err := s.db.WithContext(ctx).First(&subDistrict, "id = ?", subDistrictID).Error; err == nil {
		path.SubDistrict = subDistrict.Name
	}
	var village domain.Village
	if err := s.db.WithContext(ctx).First(&village, "id = ?", villageID).Error; err == nil {
		path.Village = village.Name
	}
	return path
}

func chainErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(apperrors.CodeLocationNotFound, msg)
	}
	return apperrors.Wrap(err, apperrors.CodeInternal, "location lookup failed", 500)
}
