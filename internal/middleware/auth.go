package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
)

type AuthMiddleware struct {
	db *gorm.DB
}

func NewAuthMiddleware(db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{db: db}
}

func (m *AuthMiddleware) GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "clave-jwt-de-desarrollo-cambiar-en-produccion"
	}
	return []byte(secret)
}

func (m *AuthMiddleware) GenerateToken(profile models.Profile) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    profile.ID,
		"email": profile.Email,
		"role":  string(profile.Role),
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(m.GetJWTSecret())
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (m *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Se requiere el encabezado Authorization"})
			return
		}

		tokenStr := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("método de firma inválido")
			}
			return m.GetJWTSecret(), nil
		})

		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido: " + err.Error()})
			return
		}

		if !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims del token inválidos"})
			return
		}

		profileID, ok := claims["id"].(string)
		if !ok || profileID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims del token inválidos"})
			return
		}

		var profile models.Profile
		if err := m.db.First(&profile, "id = ?", profileID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Usuario no encontrado"})
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Error de base de datos"})
			}
			return
		}

		c.Set("profile", profile)
		c.Set("profileID", profile.ID)
		c.Set("role", profile.Role)

		c.Next()
	}
}

// RoleRequired gates a route group to the given roles. Role gating is
// additive on top of AuthRequired.
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Se requiere autenticación"})
			return
		}

		role := value.(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permisos insuficientes para esta operación"})
	}
}

func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return m.RoleRequired(models.RoleAdmin)
}

// OperatorRequired allows admins and operators; viewers stay read-only.
func (m *AuthMiddleware) OperatorRequired() gin.HandlerFunc {
	return m.RoleRequired(models.RoleAdmin, models.RoleOperator)
}

// CurrentProfileID resolves the acting profile from the gin context, for
// audit attribution.
func CurrentProfileID(c *gin.Context) *string {
	if id, exists := c.Get("profileID"); exists {
		if s, ok := id.(string); ok && s != "" {
			return &s
		}
	}
	return nil
}
