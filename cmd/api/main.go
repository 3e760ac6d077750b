package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"asesoria/internal/database"
	"asesoria/internal/middleware"
	"asesoria/internal/modules/assignment"
	"asesoria/internal/modules/auth"
	"asesoria/internal/modules/billing"
	"asesoria/internal/modules/cart"
	"asesoria/internal/modules/catalog"
	"asesoria/internal/modules/notification"
	jwtsvc "asesoria/internal/pkg/jwt"
	"asesoria/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "asesoria.db"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	webhookSecret := os.Getenv("BILLING_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Fatal("BILLING_WEBHOOK_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	advisorRepo := repository.NewAdvisorRepository(db)
	relationshipRepo := repository.NewRelationshipRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	cartRepo := repository.NewCartRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	notificationRepo := notification.NewNotificationRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	hub := notification.NewHub()
	defer hub.Close()
	notificationService := notification.NewService(notificationRepo, hub)
	notificationHandler := notification.NewHandler(notificationService, hub)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogStore := catalog.NewStore(serviceRepo)
	catalogHandler := catalog.NewHandler(catalogStore)

	var syncer cart.Syncer = cart.NoopSyncer{}
	if syncURL := os.Getenv("CART_SYNC_URL"); syncURL != "" {
		syncer = cart.NewHTTPSyncer(syncURL)
	}
	cartManager := cart.NewManager(cartRepo, syncer)
	cartHandler := cart.NewHandler(cartManager)

	assignmentService := assignment.NewService(userRepo, advisorRepo, relationshipRepo, notificationService, log.Printf)
	assignmentHandler := assignment.NewHandler(assignmentService)

	billingService := billing.NewService(billingRepo, notificationService, webhookSecret, log.Printf)
	billingHandler := billing.NewHandler(billingService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.RouteGate(middleware.GateConfig{
		AuthPaths:      []string{"/login", "/register"},
		ProtectedPaths: []string{"/dashboard", "/advisor", "/admin", "/checkout"},
		AdvisorPaths:   []string{"/advisor"},
	}))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		billingHandler.RegisterRoutes(v1)

		// cart works for both anonymous and signed-in users
		cartGroup := v1.Group("/")
		cartGroup.Use(middleware.OptionalAuth(j))
		{
			cartHandler.RegisterRoutes(cartGroup)
		}

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			assignmentHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			advisor := protected.Group("/advisor")
			advisor.Use(middleware.AdvisorOnly())
			{
				assignmentHandler.RegisterAdvisorRoutes(advisor)
			}
		}
	}

	if err := catalogStore.Load(context.Background()); err != nil {
		log.Printf("catalog_load_failed err=%v", err)
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
