package main

import (
	"context"

	"github.com/SahilDudhatWork/Synthia.AI/internal/api"
	"github.com/SahilDudhatWork/Synthia.AI/internal/api/routes"
	"github.com/SahilDudhatWork/Synthia.AI/internal/api/routes/v1"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/agents"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/uploads"
	"github.com/SahilDudhatWork/Synthia.AI/internal/config"
	"github.com/SahilDudhatWork/Synthia.AI/internal/libraries"
	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"
)

func main() {
	// Load environment variables
	config.Load()
	cfg := config.AppConfig

	// Connect to database
	if err := config.ConnectDB(); err != nil {
		logger.Log.Fatal("Failed to connect to database: ", err)
	}
	defer config.CloseDB()

	// Run migrations
	if err := config.MigrateAllModels(config.DB, cfg.Migrate); err != nil {
		logger.Log.Fatal("Failed to migrate database: ", err)
	}

	ctx := context.Background()
	gcp, err := libraries.NewClients(ctx, libraries.GCPConfig{
		EncodedCredentials: cfg.GCPCredentials,
		ProjectID:          cfg.GCPProjectID,
		VertexRegion:       cfg.VertexRegion,
	})
	if err != nil {
		logger.Log.Fatalf("failed to init gcp clients: %v", err)
	}
	defer gcp.Close()

	agent, err := agents.NewAgentFromConfig(ctx, cfg)
	if err != nil {
		logger.Log.Fatal(err)
	}

	store := libraries.NewGCSStore(gcp.GCS, cfg.GCSBucket, cfg.GCSPublicBaseURL)
	svc := v1.Services{
		Agent:     agent,
		Images:    uploads.NewPipeline(store, repo.NewImageRepository(config.DB)),
		Generator: libraries.NewImagenGenerator(gcp.Vertex, gcp.ProjectID, gcp.VertexRegion, cfg.ImagenModelID),
		JWTSecret: cfg.AuthJWTSecret,
	}

	if admin, err := libraries.NewIdentityAdmin(cfg.IdentityAdminURL, cfg.IdentityServiceKey); err == nil {
		svc.Passwords = admin
	} else {
		logger.Log.WithError(err).Warn("password creation disabled")
	}
	if checkout, err := libraries.NewCheckoutSessions(cfg.StripeSecretKey); err == nil {
		svc.Checkout = checkout
	} else {
		logger.Log.WithError(err).Warn("checkout session lookup disabled")
	}
	if cfg.AuthJWTSecret == "" {
		logger.Log.Warn("AUTH_JWT_SECRET not set, requests are not authenticated")
	}

	// Create and configure Fiber app
	app := api.NewServer()

	// Register routes
	routes.Register(app, config.DB, svc)

	// Start server
	if err := api.StartServer(app, cfg.Port); err != nil {
		logger.Log.Fatal("Failed to start server: ", err)
	}
}
