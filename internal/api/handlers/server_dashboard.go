package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMyDashboard handles GET /dashboard/me.
func (s *Server) GetMyDashboard(c *gin.Context) {
	dash, err := s.dashboards.UserSummary(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// GetAdminDashboard handles GET /dashboard/admin.
func (s *Server) GetAdminDashboard(c *gin.Context) {
	dash, err := s.dashboards.AdminSummary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
