package server

import (
	catalogController "learnhub/controllers/catalogController"
	commerceController "learnhub/controllers/commerceController"
	communityController "learnhub/controllers/communityController"
	learningController "learnhub/controllers/learningController"
	userController "learnhub/controllers/userControllers"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/routers/catalogRoutes"
	"learnhub/routers/commerceRoutes"
	"learnhub/routers/communityRoutes"
	"learnhub/routers/learningRoutes"
	"learnhub/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// AppOptions tweaks the HTTP app. Tests turn off the access log.
type AppOptions struct {
	AccessLog bool
}

// NewApp builds the fiber app with every route mounted.
func NewApp(s *Services, in *Integrations, log *logger.Logger, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "learnhub",
		ErrorHandler: middleware.FiberErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization,Range",
	}))
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	userRoutes.SetupUserRoutes(app, &userController.Handler{Accounts: s.Accounts})
	catalogRoutes.SetupCatalogRoutes(app, &catalogController.Handler{
		Categories: s.Categories,
		Courses:    s.Courses,
		Content:    s.Content,
		Pricing:    s.Pricing,
		Video:      in.Video,
	})
	learningRoutes.SetupLearningRoutes(app, &learningController.Handler{
		Progress: s.Progress,
		Quizzes:  s.Quizzes,
	})
	communityRoutes.SetupCommunityRoutes(app, &communityController.Handler{
		Forum:    s.Forum,
		Comments: s.Comments,
		Reviews:  s.Reviews,
	})
	commerceRoutes.SetupCommerceRoutes(app, &commerceController.Handler{
		Enrollments: s.Enrollments,
		Favorites:   s.Favorites,
		Payments:    s.Payments,
	})

	return app
}
