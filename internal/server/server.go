package server

import (
	"context"
	"time"

	"github.com/arzan03/CourseHub/internal/db"
	"github.com/arzan03/CourseHub/internal/handlers"
	"github.com/arzan03/CourseHub/internal/middleware"
	"github.com/arzan03/CourseHub/internal/services"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Deps is everything the HTTP layer needs
type Deps struct {
	Store     db.Store
	Tokens    *services.TokenIssuer
	Auth      *services.AuthService
	Admins    *services.AdminService
	Users     *services.UserService
	Logger    zerolog.Logger
	Timeout   time.Duration
	BodyLimit int
}

// New builds the Fiber app with every route registered
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "CourseHub",
		BodyLimit:    deps.BodyLimit,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: handlers.ErrorHandler(deps.Logger),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(deps.Logger))
	app.Use(cors.New())

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Timeout, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Admins, deps.Timeout, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Timeout, deps.Logger)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "ok"})
	})
	app.Get("/healthz", healthCheck(deps.Store, deps.Logger))

	// Admin routes
	admin := app.Group("/admin")
	admin.Post("/signup", authHandler.AdminSignup)
	admin.Post("/login", authHandler.AdminLogin)

	adminAuth := admin.Group("", middleware.Auth(deps.Tokens), middleware.RequireRole(services.RoleAdmin))
	adminAuth.Get("/profile", adminHandler.Profile)
	adminAuth.Put("/profile", adminHandler.UpdateProfile)
	adminAuth.Post("/profile/image", adminHandler.UploadProfileImage)
	adminAuth.Post("/courses", adminHandler.CreateCourse)
	adminAuth.Get("/courses", adminHandler.ListCourses)
	adminAuth.Put("/courses/:id", adminHandler.UpdateCourse)
	adminAuth.Delete("/courses/:id", adminHandler.DeleteCourse)
	adminAuth.Post("/courses/:id/image", adminHandler.UploadCourseImage)

	// User routes
	users := app.Group("/users")
	users.Post("/signup", authHandler.UserSignup)
	users.Post("/login", authHandler.UserLogin)

	userAuth := users.Group("", middleware.Auth(deps.Tokens), middleware.RequireUser())
	userAuth.Get("/profile", userHandler.Profile)
	userAuth.Put("/profile", userHandler.UpdateProfile)
	userAuth.Post("/profile/image", userHandler.UploadProfileImage)
	userAuth.Get("/courses", userHandler.BrowseCourses)
	userAuth.Get("/courses/:id", userHandler.GetCourse)
	userAuth.Post("/courses/:id", userHandler.Purchase)
	userAuth.Get("/purchasedCourses", userHandler.PurchasedCourses)
	userAuth.Get("/cart", userHandler.Cart)
	userAuth.Post("/cart/:id", userHandler.AddToCart)
	userAuth.Delete("/cart/:id", userHandler.RemoveFromCart)

	return app
}

func healthCheck(store db.Store, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "database unavailable"})
		}
		return c.JSON(fiber.Map{"message": "ok"})
	}
}
