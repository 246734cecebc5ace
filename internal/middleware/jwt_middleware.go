package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// JWTMiddleware guards admin endpoints behind bearer-token authentication.
type JWTMiddleware struct {
	rateLimiter *InvalidAuthRateLimiter
}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{rateLimiter: NewInvalidAuthRateLimiter()}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.reject(c, "Token no proporcionado")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(c, "Token no proporcionado")
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			m.reject(c, "Token inválido o expirado")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("correo", claims.Correo)
		c.Next()
	}
}

func (m *JWTMiddleware) reject(c *gin.Context, message string) {
	if !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "Demasiados intentos de autenticación inválidos")
		c.Abort()
		return
	}
	utils.Error(c, 401, message)
	c.Abort()
}
