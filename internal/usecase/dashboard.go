package usecase

import (
	"context"

	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/domain"
)

// DocTypeCounts breaks one document type down by review outcome. Submitted
// always equals Pending + Approved + Denied.
type DocTypeCounts struct {
	Submitted int64 `json:"submitted"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Denied    int64 `json:"denied"`
}

// UserDashboard aggregates one farmer's activity.
type UserDashboard struct {
	Applications map[string]DocTypeCounts `json:"applications"`
	Assessments  DocTypeCounts            `json:"assessments"`
	TotalPaid    float64                  `json:"totalPaid"`
	TotalDue     float64                  `json:"totalDue"`
}

// AdminDashboard aggregates platform-wide activity for reviewer and admin
// views.
type AdminDashboard struct {
	Applications map[string]DocTypeCounts `json:"applications"`
	Assessments  DocTypeCounts            `json:"assessments"`
	UsersByRole  map[string]int64         `json:"usersByRole"`
	Locations    LocationCounts           `json:"locations"`
	TotalIncome  float64                  `json:"totalIncome"`
}

// LocationCounts reports the size of the location hierarchy.
type LocationCounts struct {
	States       int64 `json:"states"`
	Districts    int64 `json:"districts"`
	SubDistricts int64 `json:"subDistricts"`
	Villages     int64 `json:"villages"`
	Canals       int64 `json:"canals"`
}

// DashboardUseCase computes the aggregate read models.
type DashboardUseCase struct {
	db *gorm.DB
}

// NewDashboardUseCase creates a new DashboardUseCase.
func NewDashboardUseCase(db *gorm.DB) *DashboardUseCase {
	return &DashboardUseCase{db: db}
}

// UserSummary computes one user's counters. TotalPaid sums the success
// rows of the payment ledger; TotalDue is the approved assessment total
// minus what was paid, floored at zero.
func (uc *DashboardUseCase) UserSummary(ctx context.Context, userID string) (*UserDashboard, error) {
	out := &UserDashboard{Applications: make(map[string]DocTypeCounts, 3)}

	for _, docType := range []string{domain.DocTypeNOC, domain.DocTypeWaterRequest, domain.DocTypeExemption} {
		counts, err := uc.applicationCounts(ctx, docType, userID)
		if err != nil {
			return nil, err
		}
		out.Applications[docType] = counts
	}

	assessments, err := uc.assessmentCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	out.Assessments = assessments

	err = uc.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("user_id = ? AND status = ?", userID, domain.PaymentSuccess).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&out.TotalPaid).Error
	if err != nil {
		return nil, internalErr(err)
	}

	var approvedTotal float64
	err = uc.db.WithContext(ctx).Model(&domain.RateAssessment{}).
		Where("user_id = ? AND approved = ?", userID, true).
		Select("COALESCE(SUM(total_rate), 0)").
		Scan(&approvedTotal).Error
	if err != nil {
		return nil, internalErr(err)
	}
	if due := approvedTotal - out.TotalPaid; due > 0 {
		out.TotalDue = due
	}

	return out, nil
}

// AdminSummary computes the platform-wide counters.
func (uc *DashboardUseCase) AdminSummary(ctx context.Context) (*AdminDashboard, error) {
	out := &AdminDashboard{
		Applications: make(map[string]DocTypeCounts, 3),
		UsersByRole:  make(map[string]int64),
	}

	for _, docType := range []string{domain.DocTypeNOC, domain.DocTypeWaterRequest, domain.DocTypeExemption} {
		counts, err := uc.applicationCounts(ctx, docType, "")
		if err != nil {
			return nil, err
		}
		out.Applications[docType] = counts
	}

	assessments, err := uc.assessmentCounts(ctx, "")
	if err != nil {
		return nil, err
	}
	out.Assessments = assessments

	type roleCount struct {
		Role  string
		Count int64
	}
	var roles []roleCount
	err = uc.db.WithContext(ctx).Model(&domain.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&roles).Error
	if err != nil {
		return nil, internalErr(err)
	}
	for _, r := range roles {
		out.UsersByRole[r.Role] = r.Count
	}

	for model, dst := range map[any]*int64{
		&domain.State{}:       &out.Locations.States,
		&domain.District{}:    &out.Locations.Districts,
		&domain.SubDistrict{}: &out.Locations.SubDistricts,
		&domain.Village{}:     &out.Locations.Villages,
		&domain.Canal{}:       &out.Locations.Canals,
	} {
		if err := uc.db.WithContext(ctx).Model(model).Count(dst).Error; err != nil {
			return nil, internalErr(err)
		}
	}

	err = uc.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("status = ?", domain.PaymentSuccess).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&out.TotalIncome).Error
	if err != nil {
		return nil, internalErr(err)
	}

	return out, nil
}

func (uc *DashboardUseCase) applicationCounts(ctx context.Context, docType, userID string) (DocTypeCounts, error) {
	scope := func() *gorm.DB {
		q := uc.db.WithContext(ctx).Model(&domain.Application{}).Where("type = ?", docType)
		if userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		return q
	}
	return reviewCounts(scope)
}

func (uc *DashboardUseCase) assessmentCounts(ctx context.Context, userID string) (DocTypeCounts, error) {
	scope := func() *gorm.DB {
		q := uc.db.WithContext(ctx).Model(&domain.RateAssessment{})
		if userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		return q
	}
	return reviewCounts(scope)
}

// reviewCounts derives the outcome breakdown from the tri-state flags. The
// submitted total is counted directly rather than summed, so the identity
// submitted = pending + approved + denied doubles as a consistency check in
// tests.
func reviewCounts(scope func() *gorm.DB) (DocTypeCounts, error) {
	var c DocTypeCounts
	if err := scope().Count(&c.Submitted).Error; err != nil {
		return c, internalErr(err)
	}
	if err := scope().Where("pending = ?", true).Count(&c.Pending).Error; err != nil {
		return c, internalErr(err)
	}
	if err := scope().Where("approved = ?", true).Count(&c.Approved).Error; err != nil {
		return c, internalErr(err)
	}
	if err := scope().Where("denied = ?", true).Count(&c.Denied).Error; err != nil {
		return c, internalErr(err)
	}
	return c, nil
}
