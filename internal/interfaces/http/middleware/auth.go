package middleware

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "hgigs.backend/internal/domain/errors"
	"hgigs.backend/internal/interfaces/http/response"
	"hgigs.backend/pkg/jwt"
	"hgigs.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// CallerAddressKey is the context key for the authenticated wallet address
	CallerAddressKey = "callerAddress"
)

// AuthMiddleware resolves the caller's wallet address from a bearer token
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Warn(c.Request.Context(), "Authorization header is missing", zap.String("path", c.Request.URL.Path))
			abortUnauthenticated(c, "Authorization header is required")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			logger.Warn(c.Request.Context(), "Invalid authorization format", zap.String("path", c.Request.URL.Path))
			abortUnauthenticated(c, "Invalid authorization format. Use: Bearer <token>")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.Warn(c.Request.Context(), "Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				abortUnauthenticated(c, "Token has expired")
				return
			}
			abortUnauthenticated(c, "Invalid token")
			return
		}

		c.Set(CallerAddressKey, claims.Address)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	response.Error(c, domainerrors.Unauthenticated(message))
	c.Abort()
}

// GetCallerAddress gets the authenticated wallet address from context
func GetCallerAddress(c *gin.Context) (common.Address, bool) {
	v, exists := c.Get(CallerAddressKey)
	if !exists {
		return common.Address{}, false
	}
	addr, ok := v.(common.Address)
	return addr, ok
}
