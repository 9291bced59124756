package middleware

import (
	"context"
	"strconv"
	"strings"

	"quillport/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenIssuer and TokenAudience are embedded in every issued JWT and
	// validated on the way back in.
	TokenIssuer   = "quillport-api"
	TokenAudience = "quillport-client"

	principalLocal = "principal"
)

// AuthRequired returns middleware that rejects requests without a valid
// bearer token. On success the authenticated principal {id, role} is
// stored in locals and the request context.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := parseBearer(c, secret)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Bạn cần đăng nhập để thực hiện hành động này."))
		}

		setPrincipal(c, principal)
		return c.Next()
	}
}

// OptionalAuth attaches a principal when a valid bearer token is present
// and lets the request through either way.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if principal, ok := parseBearer(c, secret); ok {
			setPrincipal(c, principal)
		}
		return c.Next()
	}
}

// PrincipalFrom extracts the authenticated principal stored by
// AuthRequired/OptionalAuth. The bool is false for anonymous requests.
func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(principalLocal).(models.Principal)
	return p, ok
}

func setPrincipal(c *fiber.Ctx, p models.Principal) {
	c.Locals(principalLocal, p)
	// Sync the user ID into the request context for the structured logger.
	ctx := context.WithValue(c.UserContext(), UserIDKey, p.ID)
	c.SetUserContext(ctx)
}

func parseBearer(c *fiber.Ctx, secret string) (models.Principal, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return models.Principal{}, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.Principal{}, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.Principal{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Principal{}, false
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != TokenIssuer {
		return models.Principal{}, false
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != TokenAudience {
		return models.Principal{}, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return models.Principal{}, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return models.Principal{}, false
	}

	role := models.RoleUser
	if roleClaim, roleOk := claims["role"].(string); roleOk && models.Role(roleClaim).Valid() {
		role = models.Role(roleClaim)
	}

	return models.Principal{ID: uint(userID), Role: role}, true
}
