package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/haus-gg/haus-api/internal/utils"
)

// Locals keys populated by the JWT middleware.
const (
	LocalWallet    = "wallet"
	LocalAvatarRef = "avatar_ref"
	LocalRole      = "role"
)

// JWTProtected returns a middleware that validates JWT bearer tokens issued
// by the identity service. The wallet claim is mandatory; avatar and role
// claims are optional.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		wallet := stringClaim(claims, "wallet", "sub")
		if wallet == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "token missing wallet claim")
		}

		c.Locals(LocalWallet, wallet)
		if avatar := stringClaim(claims, "avatar_ref", "avatar"); avatar != "" {
			c.Locals(LocalAvatarRef, avatar)
		}
		if role := stringClaim(claims, "role"); role != "" {
			c.Locals(LocalRole, strings.ToLower(role))
		}

		return c.Next()
	}
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if s, ok := value.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}
