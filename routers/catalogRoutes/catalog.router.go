package catalogRoutes

import (
	controllers "learnhub/controllers/catalogController"
	"learnhub/middleware"
	validators "learnhub/validators/catalogValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupCatalogRoutes mounts category, course, section, lecture and pricing endpoints.
func SetupCatalogRoutes(app *fiber.App, h *controllers.Handler) {
	staffOnly := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleTeacher)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	categoryGroup := app.Group("/api/category")
	categoryGroup.Get("/", h.GetCategories)
	categoryGroup.Get("/tree", h.GetCategoryTree)
	categoryGroup.Get("/:id", h.GetCategory)
	categoryGroup.Post("/", middleware.JWTMiddleware, adminOnly, validators.CreateCategory(), h.CreateCategory)
	categoryGroup.Put("/:id", middleware.JWTMiddleware, adminOnly, validators.UpdateCategory(), h.UpdateCategory)
	categoryGroup.Delete("/:id", middleware.JWTMiddleware, adminOnly, h.DeleteCategory)

	courseGroup := app.Group("/api/course")
	courseGroup.Get("/", h.GetCourses)
	courseGroup.Get("/search", h.SearchCourses)
	courseGroup.Get("/teacher/:teacherId", h.GetCoursesByTeacher)
	courseGroup.Get("/:id/related", h.GetRelatedCourses)
	courseGroup.Get("/:id", h.GetCourse)
	courseGroup.Post("/", middleware.JWTMiddleware, staffOnly, validators.CreateCourse(), h.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, staffOnly, validators.UpdateCourse(), h.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, staffOnly, h.DeleteCourse)

	sectionGroup := app.Group("/api/section")
	sectionGroup.Get("/course/:courseId", h.GetSectionsByCourse)
	sectionGroup.Get("/:id", h.GetSection)
	sectionGroup.Post("/", middleware.JWTMiddleware, staffOnly, validators.CreateSection(), h.CreateSection)
	sectionGroup.Put("/course/:courseId/reorder", middleware.JWTMiddleware, staffOnly, validators.Reorder(), h.ReorderSections)
	sectionGroup.Put("/:id", middleware.JWTMiddleware, staffOnly, validators.UpdateSection(), h.UpdateSection)
	sectionGroup.Delete("/:id", middleware.JWTMiddleware, staffOnly, h.DeleteSection)

	lectureGroup := app.Group("/api/lecture")
	lectureGroup.Get("/section/:sectionId", h.GetLecturesBySection)
	lectureGroup.Get("/:id/stream", h.StreamLecture)
	lectureGroup.Get("/:id", h.GetLecture)
	lectureGroup.Post("/", middleware.JWTMiddleware, staffOnly, validators.CreateLecture(), h.CreateLecture)
	lectureGroup.Put("/section/:sectionId/reorder", middleware.JWTMiddleware, staffOnly, validators.Reorder(), h.ReorderLectures)
	lectureGroup.Put("/:id", middleware.JWTMiddleware, staffOnly, validators.UpdateLecture(), h.UpdateLecture)
	lectureGroup.Delete("/:id", middleware.JWTMiddleware, staffOnly, h.DeleteLecture)

	pricingGroup := app.Group("/api/course-pricing")
	pricingGroup.Get("/admin/all", middleware.JWTMiddleware, adminOnly, h.GetAllPricing)
	pricingGroup.Put("/update", middleware.JWTMiddleware, adminOnly, validators.UpsertPricing(), h.UpsertPricing)
	pricingGroup.Get("/course/:courseId", h.GetCoursePricing)
	pricingGroup.Post("/track/view/:courseId", h.TrackView)
	pricingGroup.Post("/track/purchase/:courseId", middleware.JWTMiddleware, adminOnly, h.TrackPurchase)
}
