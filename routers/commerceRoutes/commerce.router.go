package commerceRoutes

import (
	controllers "learnhub/controllers/commerceController"
	"learnhub/middleware"
	validators "learnhub/validators/commerceValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupCommerceRoutes mounts enrollment, favorite, payment and stats endpoints.
func SetupCommerceRoutes(app *fiber.App, h *controllers.Handler) {
	staffOnly := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleTeacher)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	enrollGroup := app.Group("/api/user-course", middleware.JWTMiddleware)
	enrollGroup.Post("/create", validators.Enroll(), h.Enroll)
	enrollGroup.Put("/update-status/:id", staffOnly, validators.UpdateStatus(), h.UpdateEnrollmentStatus)
	enrollGroup.Get("/user/:userId", h.GetCoursesByUser)
	enrollGroup.Get("/course/:courseId", staffOnly, h.GetUsersByCourse)
	enrollGroup.Delete("/delete/:id", adminOnly, h.DeleteEnrollment)

	favoriteGroup := app.Group("/api/favorites", middleware.JWTMiddleware)
	favoriteGroup.Post("/toggle", validators.ToggleFavorite(), h.ToggleFavorite)
	favoriteGroup.Get("/:userId", h.GetFavorites)

	// Guards stay per route: a group middleware on /api/payment would also match /api/payment-course.
	paymentGroup := app.Group("/api/payment")
	paymentGroup.Get("/get-all", middleware.JWTMiddleware, adminOnly, h.GetPayments)
	paymentGroup.Get("/detail/:id", middleware.JWTMiddleware, adminOnly, h.GetPayment)
	paymentGroup.Delete("/delete/:id", middleware.JWTMiddleware, adminOnly, h.DeletePayment)

	app.Get("/api/payment-course/payment-return", validators.PaymentReturn(), h.PaymentReturn)

	app.Get("/api/stats/overview", middleware.JWTMiddleware, adminOnly, h.GetRevenueStats)
}
