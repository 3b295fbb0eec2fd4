package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// identityKey is the fiber locals key the middleware stores the caller
// identity under.
const identityKey = "auth.identity"

const bearerPrefix = "Bearer "

// Middleware returns a fiber handler that requires a valid bearer token
// and attaches the resolved Identity to the request locals. Requests
// without a valid token get 401 with a JSON detail body.
func Middleware(svc *Service, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return unauthorized(c, "not authenticated")
		}

		username, err := ParseToken(secret, strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		user, err := svc.LookupUser(username)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(identityKey, &Identity{User: *user, Role: ResolveRole(user)})

		return c.Next()
	}
}

// CurrentIdentity returns the identity the auth middleware attached to
// the request, or nil on unauthenticated routes.
func CurrentIdentity(c *fiber.Ctx) *Identity {
	ident, _ := c.Locals(identityKey).(*Identity)
	return ident
}

// RequirePermission guards a route with a base-id/action check.
func RequirePermission(svc *Service, baseID uint, action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident := CurrentIdentity(c)
		if ident == nil {
			return unauthorized(c, "not authenticated")
		}

		if !svc.HasPermission(&ident.User, baseID, action) {
			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireAnyPermissionID guards a route with a direct catalog-id check,
// passing when the caller holds at least one of the given ids.
func RequireAnyPermissionID(svc *Service, permIDs ...uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident := CurrentIdentity(c)
		if ident == nil {
			return unauthorized(c, "not authenticated")
		}

		if !svc.HasAnyPermissionID(&ident.User, permIDs...) {
			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireSuperuser guards admin-only routes.
func RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident := CurrentIdentity(c)
		if ident == nil {
			return unauthorized(c, "not authenticated")
		}

		if !ident.IsSuperuser() {
			return forbidden(c)
		}

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": detail})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "permissão negada"})
}
