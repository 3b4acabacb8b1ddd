package middleware

import (
	"log"
	"strings"

	"shopkeep/internal/policy"
	"shopkeep/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// actorFromClaims rebuilds the policy actor from validated JWT claims.
func actorFromClaims(claims jwt.MapClaims) policy.Actor {
	actor := policy.Actor{Roles: policy.NewRoleSet()}
	if id, ok := claims["user_id"].(string); ok {
		actor.UserID = id
	}
	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range rawRoles {
			if name, ok := r.(string); ok {
				actor.Roles[name] = struct{}{}
			}
		}
	}
	return actor
}

// AuthRequired is a Fiber middleware that rejects requests without a
// valid JWT token and stores the authenticated actor on the context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(actorKey, actorFromClaims(claims))
		return c.Next()
	}
}

// AuthOptional stores the actor when a valid token is supplied and
// lets the request through anonymously otherwise. Listing endpoints
// use it: an anonymous caller sees only approved products, a
// moderator's token widens the view.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := authService.ValidateToken(parts[1]); err == nil {
				c.Locals(actorKey, actorFromClaims(claims))
			}
		}
		return c.Next()
	}
}

// ActorFromContext returns the actor stored by the auth middleware,
// or the anonymous actor when none is present.
func ActorFromContext(c *fiber.Ctx) policy.Actor {
	if actor, ok := c.Locals(actorKey).(policy.Actor); ok {
		return actor
	}
	return policy.Actor{Roles: policy.NewRoleSet()}
}
