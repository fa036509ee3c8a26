package userRoutes

import (
	userController "learnhub/controllers/userControllers"
	"learnhub/middleware"
	userValidator "learnhub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, h *userController.Handler) {
	userGroup := app.Group("/api/user")

	userGroup.Post("/sign-up", userValidator.SignUp(), h.SignUp)
	userGroup.Post("/sign-in", userValidator.SignIn(), h.SignIn)
	userGroup.Get("/teachers", h.GetTeachers)
	userGroup.Put("/update/:id", middleware.JWTMiddleware, userValidator.UpdateProfile(), h.UpdateUser)
	userGroup.Delete("/delete-user/:id", middleware.JWTMiddleware, middleware.RequireRole(middleware.RoleAdmin), h.DeleteUser)
	userGroup.Get("/get-all", middleware.JWTMiddleware, middleware.RequireRole(middleware.RoleAdmin), h.GetAllUsers)
	userGroup.Get("/get-details/:id", middleware.JWTMiddleware, h.GetUserDetails)
	userGroup.Get("/:id", middleware.JWTMiddleware, h.GetUserDetails)
}
