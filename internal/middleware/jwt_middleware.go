package middleware

import (
	"log"
	"strings"

	"darna/internal/i18n"
	"darna/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Keys of the caller identity stored in the Fiber context.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// Guards bundles the route guards built on one AuthService.
type Guards struct {
	User  fiber.Handler // registered accounts
	Owner fiber.Handler // registered accounts and guests
	Admin fiber.Handler // administrators
}

// NewGuards creates the route guards.
func NewGuards(authService *services.AuthService) Guards {
	return Guards{
		User:  AuthRequired(authService),
		Owner: OwnerRequired(authService),
		Admin: AdminRequired(authService),
	}
}

// AuthRequired is a Fiber middleware to check for a valid JWT token of a registered user.
// Guest tokens are refused.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return authenticate(authService, func(id services.Identity) bool { return !id.IsGuest() })
}

// OwnerRequired accepts user and guest tokens, for routes scoped to a cart owner.
func OwnerRequired(authService *services.AuthService) fiber.Handler {
	return authenticate(authService, nil)
}

// AdminRequired accepts only tokens carrying the admin role.
func AdminRequired(authService *services.AuthService) fiber.Handler {
	return authenticate(authService, func(id services.Identity) bool { return id.IsAdmin() })
}

func authenticate(authService *services.AuthService, allow func(services.Identity) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := i18n.Lang(c.Get(fiber.HeaderAcceptLanguage))

		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": i18n.T(lang, i18n.MsgUnauthorized),
				"error":   "Authorization header format must be 'Bearer <token>'",
			})
		}

		id, err := authService.Identify(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": i18n.T(lang, i18n.MsgUnauthorized),
				"error":   err.Error(),
			})
		}

		if allow != nil && !allow(id) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": i18n.T(lang, i18n.MsgForbidden),
			})
		}

		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalUsername, id.Username)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

// bearerToken reads "Authorization: Bearer <token>". EventSource clients cannot set
// headers, so an access_token query parameter is accepted too.
func bearerToken(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if token := c.Query("access_token"); token != "" {
		return token, true
	}
	return "", false
}

// CurrentIdentity returns the identity stored by the guards.
func CurrentIdentity(c *fiber.Ctx) services.Identity {
	id := services.Identity{}
	id.UserID, _ = c.Locals(LocalUserID).(string)
	id.Username, _ = c.Locals(LocalUsername).(string)
	id.Role, _ = c.Locals(LocalRole).(string)
	return id
}

// CurrentOwner returns the cart owner of the request.
func CurrentOwner(c *fiber.Ctx) services.Owner {
	id := CurrentIdentity(c)
	return services.Owner{ID: id.UserID, Guest: id.IsGuest()}
}
