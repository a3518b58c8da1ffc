package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"formflow/internal/config"
	"formflow/internal/domain"
)

const (
	ContextKeyPrincipal = "principal"
)

// PrincipalClaims are the JWT claims a caller token carries.
type PrincipalClaims struct {
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware returns Gin middleware that validates HS256 bearer tokens and
// injects the caller principal.
func AuthMiddleware(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		principal, err := ParsePrincipal(token, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Next()
	}
}

// ParsePrincipal verifies a token and converts its claims to a principal.
func ParsePrincipal(token string, cfg config.JWTConfig) (domain.Principal, error) {
	claims := &PrincipalClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return domain.Principal{ID: claims.Subject, DisplayName: claims.Name, Roles: claims.Roles}, nil
}

// GetPrincipal extracts the caller principal from the Gin context.
func GetPrincipal(c *gin.Context) (domain.Principal, error) {
	val, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	principal, ok := val.(domain.Principal)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return principal, nil
}
