package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/timezone"
	"github.com/BruksfildServices01/studio-scheduler/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	emailDomainOK func(email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:            db,
		config:        cfg,
		emailDomainOK: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	StudioName     string `json:"studio_name" binding:"required"`
	StudioSlug     string `json:"studio_slug" binding:"required"`
	StudioPhone    string `json:"studio_phone"`
	StudioAddress  string `json:"studio_address"`
	StudioTimezone string `json:"studio_timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.StudioSlug))

	email, ok := validators.NormalizeEmail(req.Email)
	if !ok {
		httperr.BadRequest(c, "invalid_email", "e-mail address is malformed")
		return
	}

	tz := strings.TrimSpace(req.StudioTimezone)
	if tz == "" {
		tz = h.config.Booking.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "studio_timezone is not a known IANA zone")
		return
	}

	if !h.emailDomainOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "the e-mail domain does not look valid")
		return
	}

	var count int64
	h.db.Model(&models.Studio{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "slug_already_exists", "studio slug is taken")
		return
	}

	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_already_exists", "e-mail is already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "could not hash password")
		return
	}

	studio := models.Studio{
		Name:     req.StudioName,
		Slug:     slug,
		Email:    email,
		Phone:    req.StudioPhone,
		Address:  req.StudioAddress,
		Timezone: tz,
		IsActive: true,
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&studio).Error; err != nil {
			return err
		}
		user.StudioID = studio.ID
		return tx.Omit("Studio").Create(&user).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_register", "could not create studio")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not issue token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   userJSON(&user),
		"studio": studioJSON(&studio),
		"token":  token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Studio").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "invalid e-mail or password")
			return
		}
		httperr.Internal(c, "internal_error", "unexpected error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "invalid e-mail or password")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   userJSON(&user),
		"studio": studioJSON(&user.Studio),
		"token":  token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"studioId": user.StudioID,
		"role":     user.Role,
		"exp":      now.Add(h.config.JWT.TokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWT.Secret))
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"role":      u.Role,
		"studio_id": u.StudioID,
	}
}

func studioJSON(s *models.Studio) gin.H {
	return gin.H{
		"id":       s.ID,
		"name":     s.Name,
		"slug":     s.Slug,
		"phone":    s.Phone,
		"address":  s.Address,
		"timezone": s.Timezone,
	}
}
