package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MarcosAvg/nexa/internal/middleware"
	"github.com/MarcosAvg/nexa/internal/models"
)

var handlerDBCounter int64

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handler%d?mode=memory&cache=shared", atomic.AddInt64(&handlerDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))
	return db
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupHandlerDB(t)
	authMiddleware := middleware.NewAuthMiddleware(db)
	authHandler := NewAuthHandler(db, authMiddleware)

	router := gin.New()
	router.POST("/api/auth/login", authHandler.Login)
	router.GET("/api/auth/me", authMiddleware.AuthRequired(), authHandler.GetMe)
	router.GET("/api/admin-only", authMiddleware.AuthRequired(), authMiddleware.AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	router.GET("/api/operator-only", authMiddleware.AuthRequired(), authMiddleware.OperatorRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router, db
}

func createProfile(t *testing.T, db *gorm.DB, email, password string, role models.Role) models.Profile {
	t.Helper()
	profile := models.Profile{Email: email, Password: password, FullName: "Prueba", Role: role}
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

func postLogin(router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	router, db := setupAuthRouter(t)
	createProfile(t, db, "admin@nexa.local", "Admin123!", models.RoleAdmin)

	w := postLogin(router, "admin@nexa.local", "Admin123!")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token   string `json:"token"`
		Profile struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin@nexa.local", resp.Profile.Email)
	assert.Equal(t, "admin", resp.Profile.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, db := setupAuthRouter(t)
	createProfile(t, db, "op@nexa.local", "Operador1", models.RoleOperator)

	w := postLogin(router, "op@nexa.local", "incorrecta")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_BlocksEmailAfterRepeatedFailures(t *testing.T) {
	router, db := setupAuthRouter(t)
	createProfile(t, db, "op@nexa.local", "Operador1", models.RoleOperator)

	for i := 0; i < 3; i++ {
		w := postLogin(router, "op@nexa.local", "incorrecta")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := postLogin(router, "op@nexa.local", "Operador1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAuthRequired_RejectsMissingAndBogusTokens(t *testing.T) {
	router, _ := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer no-es-un-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGating(t *testing.T) {
	router, db := setupAuthRouter(t)
	authMiddleware := middleware.NewAuthMiddleware(db)

	admin := createProfile(t, db, "admin@nexa.local", "Admin123!", models.RoleAdmin)
	operator := createProfile(t, db, "op@nexa.local", "Operador1", models.RoleOperator)
	viewer := createProfile(t, db, "viewer@nexa.local", "Lector123", models.RoleViewer)

	get := func(path string, profile models.Profile) int {
		token, err := authMiddleware.GenerateToken(profile)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/api/admin-only", admin))
	assert.Equal(t, http.StatusForbidden, get("/api/admin-only", operator))
	assert.Equal(t, http.StatusForbidden, get("/api/admin-only", viewer))

	assert.Equal(t, http.StatusOK, get("/api/operator-only", admin))
	assert.Equal(t, http.StatusOK, get("/api/operator-only", operator))
	assert.Equal(t, http.StatusForbidden, get("/api/operator-only", viewer))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, validatePasswordStrength("Segura123"))
	assert.Error(t, validatePasswordStrength("corta1A"))
	assert.Error(t, validatePasswordStrength("sinmayusculas1"))
	assert.Error(t, validatePasswordStrength("SINMINUSCULAS1"))
	assert.Error(t, validatePasswordStrength("SinNumeros"))
}
