package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
)

type farmRequest struct {
	StateID       string  `json:"stateId" binding:"required"`
	DistrictID    string  `json:"districtId" binding:"required"`
	SubDistrictID string  `json:"subDistrictId" binding:"required"`
	VillageID     string  `json:"villageId" binding:"required"`
	SurveyNumber  string  `json:"surveyNumber" binding:"required"`
	AreaVigha     float64 `json:"areaVigha" binding:"required,gt=0"`
}

type farmResponse struct {
	domain.Farm
	Location domain.LocationPath `json:"location"`
}

// CreateFarm handles POST /farms.
func (s *Server) CreateFarm(c *gin.Context) {
	var req farmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := s.locations.ValidateChain(ctx, req.StateID, req.DistrictID, req.SubDistrictID, req.VillageID); err != nil {
		fail(c, err)
		return
	}

	farm := domain.Farm{
		ID:            uuid.NewString(),
		UserID:        currentUserID(c),
		StateID:       req.StateID,
		DistrictID:    req.DistrictID,
		SubDistrictID: req.SubDistrictID,
		VillageID:     req.VillageID,
		SurveyNumber:  req.SurveyNumber,
		AreaVigha:     req.AreaVigha,
	}
	if err := s.db.WithContext(ctx).Create(&farm).Error; err != nil {
		if isUniqueViolation(err) {
			fail(c, apperrors.Conflict(apperrors.CodeDuplicateSurveyNo, "survey number already registered in this village"))
			return
		}
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}

	c.JSON(http.StatusCreated, farmResponse{
		Farm:     farm,
		Location: s.locations.ResolvePath(ctx, farm.StateID, farm.DistrictID, farm.SubDistrictID, farm.VillageID),
	})
}

// ListMyFarms handles GET /farms.
func (s *Server) ListMyFarms(c *gin.Context) {
	ctx := c.Request.Context()

	var farms []domain.Farm
	err := s.db.WithContext(ctx).
		Where("user_id = ?", currentUserID(c)).
		Order("created_at DESC").
		Find(&farms).Error
	if err != nil {
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}

	out := make([]farmResponse, 0, len(farms))
	for _, f := range farms {
		out = append(out, farmResponse{
			Farm:     f,
			Location: s.locations.ResolvePath(ctx, f.StateID, f.DistrictID, f.SubDistrictID, f.VillageID),
		})
	}
	c.JSON(http.StatusOK, out)
}

// UpdateFarm handles PUT /farms/:id. Only the owner may modify a farm.
func (s *Server) UpdateFarm(c *gin.Context) {
	var req farmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	ctx := c.Request.Context()
	farm, ok := s.ownedFarm(c)
	if !ok {
		return
	}

	if err := s.locations.ValidateChain(ctx, req.StateID, req.DistrictID, req.SubDistrictID, req.VillageID); err != nil {
		fail(c, err)
		return
	}

	farm.StateID = req.StateID
	farm.DistrictID = req.DistrictID
	farm.SubDistrictID = req.SubDistrictID
	farm.VillageID = req.VillageID
	farm.SurveyNumber = req.SurveyNumber
	farm.AreaVigha = req.AreaVigha

	if err := s.db.WithContext(ctx).Save(&farm).Error; err != nil {
		if isUniqueViolation(err) {
			fail(c, apperrors.Conflict(apperrors.CodeDuplicateSurveyNo, "survey number already registered in this village"))
			return
		}
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}

	c.JSON(http.StatusOK, farmResponse{
		Farm:     farm,
		Location: s.locations.ResolvePath(ctx, farm.StateID, farm.DistrictID, farm.SubDistrictID, farm.VillageID),
	})
}

// DeleteFarm handles DELETE /farms/:id.
func (s *Server) DeleteFarm(c *gin.Context) {
	farm, ok := s.ownedFarm(c)
	if !ok {
		return
	}

	if err := s.db.WithContext(c.Request.Context()).Delete(&farm).Error; err != nil {
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedFarm loads the farm in :id and checks it belongs to the caller. A
// farm owned by someone else reads as not-found, not forbidden.
func (s *Server) ownedFarm(c *gin.Context) (domain.Farm, bool) {
	var farm domain.Farm
	err := s.db.WithContext(c.Request.Context()).
		First(&farm, "id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, apperrors.NotFound(apperrors.CodeFarmNotFound, "farm not found"))
		} else {
			fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		}
		return domain.Farm{}, false
	}
	return farm, true
}
