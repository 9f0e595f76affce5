package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/councilos/councilos/internal/logging"
)

var middlewareTracer = otel.Tracer("auth-middleware")

// RequireAuth is a Gin middleware that validates JWT tokens on protected
// endpoints. Validated claims are attached to the Gin context under
// "user_id", "username", "user_roles" and "claims".
func RequireAuth(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := middlewareTracer.Start(c.Request.Context(), "auth.require_auth")
		defer span.End()

		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			span.SetAttributes(attribute.Bool("auth.token_present", false))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid authorization header"})
			c.Abort()
			return
		}
		span.SetAttributes(attribute.Bool("auth.token_present", true))

		claims, err := jwtManager.ValidateToken(ctx, token)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("auth.token_valid", false))
			logging.L.Warnw("invalid token", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		span.SetAttributes(
			attribute.Bool("auth.token_valid", true),
			attribute.String("user.id", claims.UserID),
			attribute.String("user.username", claims.Username),
		)

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("user_roles", claims.Roles)
		c.Set("claims", claims)

		c.Next()
	}
}

// OptionalAuth validates a JWT token if one is present but lets anonymous
// requests through.
func OptionalAuth(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := middlewareTracer.Start(c.Request.Context(), "auth.optional_auth")
		defer span.End()

		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			span.SetAttributes(attribute.Bool("auth.authenticated", false))
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateToken(ctx, token)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("auth.authenticated", false))
			logging.L.Warnw("invalid optional token", "error", err)
			c.Next()
			return
		}

		span.SetAttributes(
			attribute.Bool("auth.authenticated", true),
			attribute.String("user.id", claims.UserID),
		)

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("user_roles", claims.Roles)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequireRole checks that the authenticated user carries the given role.
// Must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := middlewareTracer.Start(c.Request.Context(), "auth.require_role")
		defer span.End()

		span.SetAttributes(attribute.String("required.role", role))

		rolesValue, exists := c.Get("user_roles")
		if !exists {
			span.SetAttributes(attribute.Bool("auth.role_authorized", false))
			c.JSON(http.StatusForbidden, gin.H{"error": "User roles not found"})
			c.Abort()
			return
		}

		roles, ok := rolesValue.([]string)
		if !ok {
			span.SetAttributes(attribute.Bool("auth.role_authorized", false))
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid user roles"})
			c.Abort()
			return
		}

		hasRole := false
		for _, userRole := range roles {
			if userRole == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			userID, _ := c.Get("user_id")
			span.SetAttributes(attribute.Bool("auth.role_authorized", false))
			logging.L.Warnw("insufficient permissions", "user_id", userID, "required_role", role)
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		span.SetAttributes(attribute.Bool("auth.role_authorized", true))
		c.Next()
	}
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
