package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
	"jalsetu.io/jalsetu/internal/testutil"
)

func submitWaterRequest(t *testing.T, f fixture, entries ...FarmEntryInput) *domain.Application {
	t.Helper()

	if len(entries) == 0 {
		entries = []FarmEntryInput{{FarmID: f.farm.ID, RequestedArea: 2.5, Crop: "wheat", Year: 2026}}
	}
	uc := NewApplicationUseCase(f.db, nil)
	app, err := uc.Submit(context.Background(), SubmitApplicationInput{
		Type:      domain.DocTypeWaterRequest,
		ProfileID: f.profile.ID,
		Farms:     entries,
	})
	require.NoError(t, err)
	return app
}

func TestUpsertCreatesAssessment(t *testing.T) {
	f := newFixture(t)
	request := submitWaterRequest(t, f,
		FarmEntryInput{FarmID: f.farm.ID, RequestedArea: 2.5, Crop: "wheat", Year: 2026},
	)

	uc := NewAssessmentUseCase(f.db)
	assessment, created, err := uc.Upsert(context.Background(), request.ID, 100)
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "FORM12-0001", assessment.Number)
	assert.Equal(t, request.ID, assessment.WaterRequestID)
	assert.Equal(t, f.farmer.ID, assessment.UserID)
	assert.Equal(t, 2.5, assessment.RequestedArea)
	assert.Equal(t, 250.0, assessment.TotalRate)
	assert.Equal(t, domain.StatusPending, assessment.Status())
}

func TestUpsertSumsAllFarmEntries(t *testing.T) {
	f := newFixture(t)
	second := testutil.SeedFarm(t, f.db, f.farmer, f.village, "102/1", 4.0)
	request := submitWaterRequest(t, f,
		FarmEntryInput{FarmID: f.farm.ID, RequestedArea: 2.5, Crop: "wheat", Year: 2026},
		FarmEntryInput{FarmID: second.ID, RequestedArea: 1.5, Crop: "cotton", Year: 2026},
	)

	uc := NewAssessmentUseCase(f.db)
	assessment, _, err := uc.Upsert(context.Background(), request.ID, 80)
	require.NoError(t, err)

	assert.Equal(t, 4.0, assessment.RequestedArea)
	assert.Equal(t, 320.0, assessment.TotalRate)
}

func TestUpsertIsOnePerRequest(t *testing.T) {
	f := newFixture(t)
	request := submitWaterRequest(t, f)

	uc := NewAssessmentUseCase(f.db)
	first, created, err := uc.Upsert(context.Background(), request.ID, 100)
	require.NoError(t, err)
	require.True(t, created)

	// A second submission with a new rate overwrites in place: same row,
	// same number, recomputed total.
	second, created, err := uc.Upsert(context.Background(), request.ID, 120)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)
	assert.Equal(t, 300.0, second.TotalRate)

	var count int64
	require.NoError(t, f.db.Model(&domain.RateAssessment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertZeroAreaYieldsZeroTotal(t *testing.T) {
	f := newFixture(t)
	request := submitWaterRequest(t, f,
		FarmEntryInput{FarmID: f.farm.ID, RequestedArea: 0, Crop: "wheat", Year: 2026},
	)

	uc := NewAssessmentUseCase(f.db)
	assessment, _, err := uc.Upsert(context.Background(), request.ID, 100)
	require.NoError(t, err)
	assert.Zero(t, assessment.TotalRate)
}

func TestUpsertByRequestNumber(t *testing.T) {
	f := newFixture(t)
	request := submitWaterRequest(t, f)

	uc := NewAssessmentUseCase(f.db)
	assessment, _, err := uc.Upsert(context.Background(), request.Number, 100)
	require.NoError(t, err)
	assert.Equal(t, request.ID, assessment.WaterRequestID)
}

func TestUpsertMissingRequest(t *testing.T) {
	f := newFixture(t)

	uc := NewAssessmentUseCase(f.db)
	_, _, err := uc.Upsert(context.Background(), "NAM-9999", 100)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeApplicationNotFound, appErr.Code)
}

func TestUpsertRejectsNonWaterRequestDocuments(t *testing.T) {
	f := newFixture(t)
	appUC := NewApplicationUseCase(f.db, nil)
	noc, err := appUC.Submit(context.Background(), nocInput(f))
	require.NoError(t, err)

	uc := NewAssessmentUseCase(f.db)
	_, _, err = uc.Upsert(context.Background(), noc.ID, 100)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeApplicationNotFound, appErr.Code)
}

func TestAssessmentDecisions(t *testing.T) {
	f := newFixture(t)
	request := submitWaterRequest(t, f)

	at := time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC)
	uc := NewAssessmentUseCase(f.db).WithClock(testutil.FixedClock(at))
	assessment, _, err := uc.Upsert(context.Background(), request.ID, 100)
	require.NoError(t, err)

	approved, err := uc.Approve(context.Background(), assessment.Number, "engineer-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status())
	assert.Equal(t, "engineer-1", approved.ApprovedBy)

	denied, err := uc.Deny(context.Background(), assessment.ID, "engineer-2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDenied, denied.Status())
	assert.Nil(t, denied.ApprovedAt)
}

func TestUpdateSupplyDate(t *testing.T) {
	f := newFixture(t)
	request := submitWaterRequest(t, f)

	uc := NewAssessmentUseCase(f.db)
	assessment, _, err := uc.Upsert(context.Background(), request.ID, 100)
	require.NoError(t, err)

	supply := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	updated, err := uc.UpdateSupplyDate(context.Background(), assessment.ID, supply)
	require.NoError(t, err)
	require.NotNil(t, updated.SupplyDate)
	assert.True(t, updated.SupplyDate.Equal(supply))

	var stored domain.RateAssessment
	require.NoError(t, f.db.First(&stored, "id = ?", assessment.ID).Error)
	require.NotNil(t, stored.SupplyDate)
	assert.True(t, stored.SupplyDate.Equal(supply))
}

func TestAssessmentGetMissing(t *testing.T) {
	f := newFixture(t)

	uc := NewAssessmentUseCase(f.db)
	_, err := uc.Get(context.Background(), "FORM12-9999")
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForm12NotFound, appErr.Code)
	assert.Equal(t, 404, appErr.HTTPStatus)
}
