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

type profileRequest struct {
	Phone         string `json:"phone"`
	Aadhar        string `json:"aadhar"`
	StateID       string `json:"stateId" binding:"required"`
	DistrictID    string `json:"districtId" binding:"required"`
	SubDistrictID string `json:"subDistrictId" binding:"required"`
	VillageID     string `json:"villageId" binding:"required"`
}

type profileResponse struct {
	domain.Profile
	Location domain.LocationPath `json:"location"`
}

// GetMyProfile handles GET /profile.
func (s *Server) GetMyProfile(c *gin.Context) {
	s.renderProfile(c, currentUserID(c))
}

// GetProfileByUser handles GET /profiles/:userID for officials.
func (s *Server) GetProfileByUser(c *gin.Context) {
	s.renderProfile(c, c.Param("userID"))
}

func (s *Server) renderProfile(c *gin.Context, userID string) {
	ctx := c.Request.Context()

	var profile domain.Profile
	err := s.db.WithContext(ctx).Preload("User").First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, apperrors.NotFound(apperrors.CodeProfileNotFound, "profile not found"))
			return
		}
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Profile:  profile,
		Location: s.locations.ResolvePath(ctx, profile.StateID, profile.DistrictID, profile.SubDistrictID, profile.VillageID),
	})
}

// UpdateMyProfile handles PUT /profile. The profile is created on first
// update and modified in place afterwards.
func (s *Server) UpdateMyProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	if err := s.locations.ValidateChain(ctx, req.StateID, req.DistrictID, req.SubDistrictID, req.VillageID); err != nil {
		fail(c, err)
		return
	}

	var profile domain.Profile
	err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = domain.Profile{ID: uuid.NewString(), UserID: userID}
	case err != nil:
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}

	profile.Phone = req.Phone
	profile.Aadhar = req.Aadhar
	profile.StateID = req.StateID
	profile.DistrictID = req.DistrictID
	profile.SubDistrictID = req.SubDistrictID
	profile.VillageID = req.VillageID

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Profile:  profile,
		Location: s.locations.ResolvePath(ctx, profile.StateID, profile.DistrictID, profile.SubDistrictID, profile.VillageID),
	})
}
