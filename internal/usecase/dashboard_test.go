package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jalsetu.io/jalsetu/internal/domain"
	"jalsetu.io/jalsetu/internal/testutil"
)

// seedNOC inserts a pending NOC row directly, bypassing the submission
// cooldown which is out of scope for aggregate tests.
func seedNOC(t *testing.T, f fixture, suffix string) domain.Application {
	t.Helper()

	app := domain.Application{
		ID:          "noc-" + suffix,
		Number:      fmt.Sprintf("NOC-0000000000-%s", suffix),
		Type:        domain.DocTypeNOC,
		ProfileID:   f.profile.ID,
		UserID:      f.farmer.ID,
		Purpose:     "borewell installation",
		ReviewState: domain.NewReviewState(),
	}
	require.NoError(t, f.db.Create(&app).Error)
	return app
}

func TestUserDashboardCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appUC := NewApplicationUseCase(f.db, nil)

	// Three NOCs: one approved, one denied, one left pending.
	a := seedNOC(t, f, "AAAA")
	b := seedNOC(t, f, "BBBB")
	seedNOC(t, f, "CCCC")

	_, err := appUC.Approve(ctx, domain.DocTypeNOC, a.ID, "talati-1")
	require.NoError(t, err)
	_, err = appUC.Deny(ctx, domain.DocTypeNOC, b.ID, "talati-1")
	require.NoError(t, err)

	dash, err := NewDashboardUseCase(f.db).UserSummary(ctx, f.farmer.ID)
	require.NoError(t, err)

	noc := dash.Applications[domain.DocTypeNOC]
	assert.EqualValues(t, 3, noc.Submitted)
	assert.EqualValues(t, 1, noc.Pending)
	assert.EqualValues(t, 1, noc.Approved)
	assert.EqualValues(t, 1, noc.Denied)
	assert.Equal(t, noc.Submitted, noc.Pending+noc.Approved+noc.Denied)

	assert.Zero(t, dash.Applications[domain.DocTypeWaterRequest].Submitted)
	assert.Zero(t, dash.Applications[domain.DocTypeExemption].Submitted)
}

func TestUserDashboardPaidAndDue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assessment := approvedAssessment(t, f, 100) // total 250

	payUC := NewPaymentUseCase(f.db, nil, testProviderSecret)
	_, err := payUC.Record(ctx, RecordPaymentInput{
		UserID: f.farmer.ID, AssessmentNo: assessment.Number,
		Amount: 100, Status: domain.PaymentSuccess,
	})
	require.NoError(t, err)
	// Failed attempts never count towards paid.
	_, err = payUC.Record(ctx, RecordPaymentInput{
		UserID: f.farmer.ID, AssessmentNo: assessment.Number,
		Amount: 150, Status: domain.PaymentFailed,
	})
	require.NoError(t, err)

	dash, err := NewDashboardUseCase(f.db).UserSummary(ctx, f.farmer.ID)
	require.NoError(t, err)

	assert.Equal(t, 100.0, dash.TotalPaid)
	assert.Equal(t, 150.0, dash.TotalDue)
	assert.EqualValues(t, 1, dash.Assessments.Approved)
}

func TestUserDashboardScopesToUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedNOC(t, f, "AAAA")

	dash, err := NewDashboardUseCase(f.db).UserSummary(ctx, "someone-else")
	require.NoError(t, err)
	assert.Zero(t, dash.Applications[domain.DocTypeNOC].Submitted)
	assert.Zero(t, dash.TotalPaid)
}

func TestAdminDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testutil.SeedUser(t, f.db, "talati", domain.RoleTalati)
	testutil.SeedUser(t, f.db, "engineer", domain.RoleEngineer)

	assessment := approvedAssessment(t, f, 100)
	payUC := NewPaymentUseCase(f.db, nil, testProviderSecret)
	_, err := payUC.Record(ctx, RecordPaymentInput{
		UserID: f.farmer.ID, AssessmentNo: assessment.Number,
		Amount: 250, Status: domain.PaymentSuccess,
	})
	require.NoError(t, err)

	dash, err := NewDashboardUseCase(f.db).AdminSummary(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 1, dash.Applications[domain.DocTypeWaterRequest].Submitted)
	assert.EqualValues(t, 1, dash.Assessments.Approved)
	assert.EqualValues(t, 1, dash.UsersByRole[domain.RoleFarmer])
	assert.EqualValues(t, 1, dash.UsersByRole[domain.RoleTalati])
	assert.EqualValues(t, 1, dash.UsersByRole[domain.RoleEngineer])
	assert.EqualValues(t, 1, dash.Locations.States)
	assert.EqualValues(t, 1, dash.Locations.Villages)
	assert.Equal(t, 250.0, dash.TotalIncome)
}
