package security

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Avanquish/DoughNation-sub000/pkg/roles"
)

// JWTMiddleware validates the bearer token and stores the caller's identity
// claims on the context.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return secretKey(), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Set("userID", claims["userID"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// Authorize ensures the caller acts as the required role. Bakery and charity
// are siblings; only admin crosses the gate.
func Authorize(required roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasRole(c, required) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func HasRole(c *gin.Context, required roles.Role) bool {
	raw, exists := c.Get("role")
	if !exists {
		return false
	}

	role, ok := raw.(string)
	if !ok {
		return false
	}

	return roles.Role(role).Satisfies(required)
}

func IsAdmin(c *gin.Context) bool {
	return HasRole(c, roles.Admin)
}
