package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jalsetu.io/jalsetu/internal/api/middleware"
	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
	"jalsetu.io/jalsetu/internal/usecase"
)

// docTypeParam resolves the :type path segment to a document type.
func docTypeParam(c *gin.Context) (string, bool) {
	t := c.Param("type")
	for _, dt := range domain.DocTypes {
		if dt == t {
			return t, true
		}
	}
	fail(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "unknown application type"))
	return "", false
}

// SubmitApplication handles POST /applications/:type.
func (s *Server) SubmitApplication(c *gin.Context) {
	docType, ok := docTypeParam(c)
	if !ok {
		return
	}

	var in usecase.SubmitApplicationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	in.Type = docType

	app, err := s.applications.Submit(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListApplications handles GET /applications/:type for reviewers.
func (s *Server) ListApplications(c *gin.Context) {
	docType, ok := docTypeParam(c)
	if !ok {
		return
	}

	apps, err := s.applications.ListAll(c.Request.Context(), docType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// ListMyApplications handles GET /applications/:type/mine.
func (s *Server) ListMyApplications(c *gin.Context) {
	docType, ok := docTypeParam(c)
	if !ok {
		return
	}

	apps, err := s.applications.ListByOwner(c.Request.Context(), docType, currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// GetApplicationByNumber handles GET /applications/:type/number/:number.
func (s *Server) GetApplicationByNumber(c *gin.Context) {
	docType, ok := docTypeParam(c)
	if !ok {
		return
	}

	app, err := s.applications.GetByNumber(c.Request.Context(), docType, c.Param("number"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// ApproveApplication handles POST /applications/:type/:id/approve.
func (s *Server) ApproveApplication(c *gin.Context) {
	s.decideApplication(c, true)
}

// DenyApplication handles POST /applications/:type/:id/deny.
func (s *Server) DenyApplication(c *gin.Context) {
	s.decideApplication(c, false)
}

func (s *Server) decideApplication(c *gin.Context, approve bool) {
	docType, ok := docTypeParam(c)
	if !ok {
		return
	}

	reviewer := middleware.GetUserName(c.Request.Context())
	if reviewer == "" {
		reviewer = currentUserID(c)
	}

	var (
		app *domain.Application
		err error
	)
	if approve {
		app, err = s.applications.Approve(c.Request.Context(), docType, c.Param("id"), reviewer)
	} else {
		app, err = s.applications.Deny(c.Request.Context(), docType, c.Param("id"), reviewer)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
