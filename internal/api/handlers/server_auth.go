package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/api/middleware"
	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
	"jalsetu.io/jalsetu/internal/pkg/logger"
)

const passwordHashCost = 12

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// Register handles POST /auth/register.
func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = domain.RoleFarmer
	}
	if !validRole(role) {
		fail(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "unknown role"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "hash password", 500))
		return
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			fail(c, apperrors.Conflict(apperrors.CodeEmailExists, "email already registered"))
			return
		}
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}

	token, expiresAt, err := middleware.GenerateToken(s.jwtCfg, user.ID, user.Name, user.Role)
	if err != nil {
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "generate token", 500))
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		User:      &user,
	})
}

// Login handles POST /auth/login.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	var user domain.User
	err := s.db.WithContext(c.Request.Context()).
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if err != nil {
		logger.Warn("login failed: invalid credentials")
		fail(c, apperrors.Unauthorized(apperrors.CodeAuthFailed, "invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("login failed: invalid credentials")
		fail(c, apperrors.Unauthorized(apperrors.CodeAuthFailed, "invalid credentials"))
		return
	}

	token, expiresAt, err := middleware.GenerateToken(s.jwtCfg, user.ID, user.Name, user.Role)
	if err != nil {
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "generate token", 500))
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		User:      &user,
	})
}

// Me handles GET /auth/me.
func (s *Server) Me(c *gin.Context) {
	var user domain.User
	err := s.db.WithContext(c.Request.Context()).
		First(&user, "id = ?", currentUserID(c)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, apperrors.NotFound(apperrors.CodeUserNotFound, "user not found"))
			return
		}
		logger.Error("load current user failed", zap.Error(err))
		fail(c, apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500))
		return
	}
	c.JSON(http.StatusOK, user)
}

func validRole(role string) bool {
	for _, r := range domain.Roles {
		if r == role {
			return true
		}
	}
	return false
}
