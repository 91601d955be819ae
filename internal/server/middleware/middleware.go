package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
	"github.com/skverma/milknet/internal/service/auth"
)

// identityKey is the gin context key the auth middleware stores the
// resolved caller under.
const identityKey = "milknet.identity"

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-Id"

// RequestID tags each request with a UUID, reusing the inbound header
// when the client supplies one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// Authenticate verifies the bearer token and resolves the caller into
// a full identity from the dairy or device store.
func Authenticate(tokens *auth.TokenManager, dairies mongodb.DairyStore, devices mongodb.DeviceStore, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.VerifyAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		identity, err := resolve(c, claims, dairies, devices)
		if err != nil {
			logger.Warn("token subject no longer resolvable",
				zap.String("subject", claims.Subject),
				zap.String("type", claims.Type),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func resolve(c *gin.Context, claims auth.Claims, dairies mongodb.DairyStore, devices mongodb.DeviceStore) (models.Identity, error) {
	ctx := c.Request.Context()

	if claims.Type == auth.AccountTypeDairy {
		dairy, err := dairies.FindByCode(ctx, claims.Subject)
		if err != nil {
			return models.Identity{}, err
		}
		return models.Identity{
			ID:        dairy.DairyCode,
			Role:      dairy.Role,
			Type:      auth.AccountTypeDairy,
			Email:     dairy.Email,
			DairyCode: dairy.DairyCode,
		}, nil
	}

	device, err := devices.FindByDeviceID(ctx, claims.Subject)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{
		ID:        device.DeviceID,
		Role:      device.Role,
		Type:      auth.AccountTypeDevice,
		Email:     device.Email,
		DairyCode: device.DairyCode,
		DeviceID:  device.DeviceID,
	}, nil
}

// RequireRoles rejects callers whose role is not in the allowed set.
// It must run after Authenticate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		identity, ok := Caller(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, ok := allowed[identity.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// Caller returns the identity stored by Authenticate.
func Caller(c *gin.Context) (models.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}
