package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserAuth validates the bearer token and injects userId, role, name
// and email into the request context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status, msg := parseBearer(c.GetHeader("Authorization"), secret)
		if claims == nil {
			log.Println("[AUTH] [ERROR]", msg)
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		userID, ok := userIDFromClaims(claims)
		if !ok {
			log.Println("[AUTH] [ERROR] userId claim missing or invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		setIdentity(c, userID, claims)
		c.Next()
	}
}

// RoleGuard behaves like UserAuth and additionally requires one of the
// allowed roles.
func RoleGuard(secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status, msg := parseBearer(c.GetHeader("Authorization"), secret)
		if claims == nil {
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		userID, ok := userIDFromClaims(claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		role, _ := claims["role"].(string)
		match := false
		for _, r := range allowedRoles {
			if role == r {
				match = true
				break
			}
		}
		if !match {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		setIdentity(c, userID, claims)
		c.Next()
	}
}

// OptionalAuth injects the identity when a valid token is supplied and
// lets anonymous requests through untouched.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}

		claims, _, _ := parseBearer(c.GetHeader("Authorization"), secret)
		if claims != nil {
			if userID, ok := userIDFromClaims(claims); ok {
				setIdentity(c, userID, claims)
			}
		}
		c.Next()
	}
}

func parseBearer(header, secret string) (jwt.MapClaims, int, string) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, http.StatusUnauthorized, "missing token"
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, http.StatusUnauthorized, "invalid token"
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, http.StatusUnauthorized, "unauthorized"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, http.StatusUnauthorized, "unauthorized"
	}
	return claims, 0, ""
}

func userIDFromClaims(claims jwt.MapClaims) (primitive.ObjectID, bool) {
	value, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return userID, true
}

func setIdentity(c *gin.Context, userID primitive.ObjectID, claims jwt.MapClaims) {
	c.Set("userId", userID)
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
	if name, ok := claims["name"].(string); ok {
		c.Set("name", name)
	}
	if email, ok := claims["email"].(string); ok {
		c.Set("email", email)
	}
}
