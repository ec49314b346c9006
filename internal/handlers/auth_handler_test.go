package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/testutil"
)

func authRouter(t *testing.T) (*gin.Engine, *AuthHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "auth-secret", TokenTTL: time.Hour},
		Booking: config.BookingConfig{DefaultTimezone: "Europe/Berlin"},
	}

	h := NewAuthHandler(db, cfg)
	h.emailDomainOK = func(string) bool { return true }

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/me", middleware.AuthMiddleware(cfg), NewMeHandler(db).GetMe)
	return r, h
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registration() gin.H {
	return gin.H{
		"studio_name": "Clay Works",
		"studio_slug": "Clay-Co",
		"name":        "Maria",
		"email":       "Maria@Example.com",
		"password":    "secret1",
	}
}

func TestRegisterLoginMe(t *testing.T) {
	r, _ := authRouter(t)

	w := postJSON(r, "/register", registration())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reg struct {
		Token  string         `json:"token"`
		Studio map[string]any `json:"studio"`
		User   map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "clay-co", reg.Studio["slug"])
	assert.Equal(t, "Europe/Berlin", reg.Studio["timezone"])
	assert.Equal(t, "maria@example.com", reg.User["email"])

	w = postJSON(r, "/login", gin.H{"email": "maria@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/login", gin.H{"email": "maria@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Clay Works"`)
}

func TestRegister_Rejections(t *testing.T) {
	r, h := authRouter(t)

	require.Equal(t, http.StatusCreated, postJSON(r, "/register", registration()).Code)

	dupSlug := registration()
	dupSlug["email"] = "other@example.com"
	assert.Equal(t, http.StatusConflict, postJSON(r, "/register", dupSlug).Code)

	dupEmail := registration()
	dupEmail["studio_slug"] = "another"
	assert.Equal(t, http.StatusConflict, postJSON(r, "/register", dupEmail).Code)

	badTZ := registration()
	badTZ["studio_slug"] = "tz"
	badTZ["email"] = "tz@example.com"
	badTZ["studio_timezone"] = "Mars/Olympus"
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/register", badTZ).Code)

	short := registration()
	short["password"] = "123"
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/register", short).Code)

	h.emailDomainOK = func(string) bool { return false }
	badDomain := registration()
	badDomain["studio_slug"] = "domain"
	badDomain["email"] = "x@nowhere.invalid"
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/register", badDomain).Code)

	var studios int64
	require.NoError(t, h.db.Model(&models.Studio{}).Count(&studios).Error)
	assert.Equal(t, int64(1), studios)
}
