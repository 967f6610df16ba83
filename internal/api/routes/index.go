package routes

import (
	"github.com/SahilDudhatWork/Synthia.AI/internal/api/routes/v1"
	"github.com/SahilDudhatWork/Synthia.AI/internal/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// public paths reachable without a token: checkout and password creation run
// before the user can sign in.
var publicPaths = []string{
	"/api/health",
	"/api/checkout-session",
	"/api/create-user-password",
}

func Register(app *fiber.App, db *gorm.DB, svc v1.Services) {
	// v1 is served at /api, the paths the web client calls
	api := app.Group("/api")
	api.Use(auth.Middleware(svc.JWTSecret, publicPaths...))

	v1.RegisterRoutes(api, db, svc)
}
