package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
)

// Location reference data. Creation is admin-only; duplicate names within
// the same parent fail on the composite unique index.

type locationRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID string `json:"parentId"`
}

func (s *Server) createLocation(c *gin.Context, rec any, parentRequired bool) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		fail(c, apperrors.ErrMissingFields("name"))
		return
	}
	if parentRequired && req.ParentID == "" {
		fail(c, apperrors.ErrMissingFields("parentId"))
		return
	}

	switch v := rec.(type) {
	case *domain.State:
		v.ID = uuid.NewString()
		v.Name = req.Name
	case *domain.District:
		v.ID = uuid.NewString()
		v.StateID = req.ParentID
		v.Name = req.Name
	case *domain.SubDistrict:
		v.ID = uuid.NewString()
		v.DistrictID = req.ParentID
		v.Name = req.Name
	case *domain.Village:
		v.ID = uuid.NewString()
		v.SubDistrictID = req.ParentID
		v.Name = req.Name
	case *domain.Canal:
		v.ID = uuid.NewString()
		v.VillageID = req.ParentID
		v.Name = req.Name
	}

	if err := s.db.WithContext(c.Request.Context()).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			fail(c, apperrors.Conflict(apperrors.CodeDuplicateLocation, "a location with this name already exists under the same parent"))
			return
		}
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) listLocations(c *gin.Context, dst any, parentColumn string) {
	q := s.db.WithContext(c.Request.Context()).Order("name ASC")
	if parentColumn != "" {
		if parentID := c.Query("parentId"); parentID != "" {
			q = q.Where(parentColumn+" = ?", parentID)
		}
	}
	if err := q.Find(dst).Error; err != nil {
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}
	c.JSON(http.StatusOK, dst)
}

// CreateState handles POST /locations/states.
func (s *Server) CreateState(c *gin.Context) { s.createLocation(c, &domain.State{}, false) }

// ListStates handles GET /locations/states.
func (s *Server) ListStates(c *gin.Context) { s.listLocations(c, &[]domain.State{}, "") }

// CreateDistrict handles POST /locations/districts.
func (s *Server) CreateDistrict(c *gin.Context) { s.createLocation(c, &domain.District{}, true) }

// ListDistricts handles GET /locations/districts?parentId=<stateID>.
func (s *Server) ListDistricts(c *gin.Context) {
	s.listLocations(c, &[]domain.District{}, "state_id")
}

// CreateSubDistrict handles POST /locations/subdistricts.
func (s *Server) CreateSubDistrict(c *gin.Context) {
	s.createLocation(c, &domain.SubDistrict{}, true)
}

// ListSubDistricts handles GET /locations/subdistricts?parentId=<districtID>.
func (s *Server) ListSubDistricts(c *gin.Context) {
	s.listLocations(c, &[]domain.SubDistrict{}, "district_id")
}

// CreateVillage handles POST /locations/villages.
func (s *Server) CreateVillage(c *gin.Context) { s.createLocation(c, &domain.Village{}, true) }

// ListVillages handles GET /locations/villages?parentId=<subDistrictID>.
func (s *Server) ListVillages(c *gin.Context) {
	s.listLocations(c, &[]domain.Village{}, "sub_district_id")
}

// CreateCanal handles POST /locations/canals.
func (s *Server) CreateCanal(c *gin.Context) { s.createLocation(c, &domain.Canal{}, true) }

// ListCanals handles GET /locations/canals?parentId=<villageID>.
func (s *Server) ListCanals(c *gin.Context) {
	s.listLocations(c, &[]domain.Canal{}, "village_id")
}
