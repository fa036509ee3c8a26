package middleware

import (
	"learnhub/apperror"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

const (
	RoleStudent = models.RoleStudent
	RoleTeacher = models.RoleTeacher
	RoleAdmin   = models.RoleAdmin
)

// RequireRole returns a middleware that lets the request through only for the listed roles.
// It must run after JWTMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userId").(uint); !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		role, _ := c.Locals("role").(string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}

// CurrentRole returns the role from the token, or "" on public routes.
func CurrentRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

// ActingUser resolves the user a request acts for. Zero means the caller. Students may only
// act for themselves; teachers and admins may name anyone.
func ActingUser(c *fiber.Ctx, requested uint) (uint, error) {
	self := CurrentUserID(c)
	if requested == 0 {
		if self == 0 {
			return 0, apperror.Unauthorized("Unauthorized: User ID not found")
		}
		return self, nil
	}
	if requested != self && CurrentRole(c) != RoleAdmin && CurrentRole(c) != RoleTeacher {
		return 0, apperror.Forbidden("You can only act on your own account")
	}
	return requested, nil
}
