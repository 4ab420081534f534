package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/campaignflow/campaign-api/configs"
	"github.com/campaignflow/campaign-api/internal/api/handlers"
	"github.com/campaignflow/campaign-api/internal/api/middleware"
	job "github.com/campaignflow/campaign-api/internal/jobs"
	"github.com/campaignflow/campaign-api/internal/queue"
	"github.com/campaignflow/campaign-api/internal/repository"
	"github.com/campaignflow/campaign-api/internal/service"
	"github.com/campaignflow/campaign-api/internal/workflow"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()
	inspector := asynq.NewInspector(redisConn)

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    20 * 1024 * 1024, // 20 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	postRepo := repository.NewPostRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	attemptRepo := repository.NewPublishAttemptRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	scheduler := queue.NewPublishScheduler(client, inspector)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, integrationRepo)
	r2Service := service.NewR2Service(*cfg)
	twitterService := service.NewTwitterService(*cfg, integrationRepo)
	engine := workflow.NewEngine(postRepo, integrationRepo, notificationRepo, attemptRepo, scheduler, twitterService)
	campaignService := service.NewCampaignService(db, campaignRepo, membershipRepo, userRepo, notificationRepo)
	postService := service.NewPostService(postRepo, campaignRepo, membershipRepo, subscriptionRepo, engine, *r2Service)
	settingsService := service.NewSettingsService(settingsRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	subscriptionService := service.NewSubscriptionService(*cfg, userRepo, subscriptionRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	webhook := handlers.NewWebhookHandler(subscriptionService)
	app.Post("/webhooks/subscription", webhook.HandleSubscriptionEvent)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.RemoveUser)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings/info", settings.GetSettingsInfo)
	api.Post("/settings/update", settings.UpdateSettings)

	campaign := handlers.NewCampaignHandler(campaignService)
	api.Post("/campaigns/create", campaign.CreateCampaign)
	api.Get("/campaigns", campaign.ListCampaigns)
	api.Get("/campaigns/:id", campaign.CampaignInfo)
	api.Post("/campaigns/update", campaign.UpdateCampaign)
	api.Post("/campaigns/remove", campaign.RemoveCampaign)
	api.Get("/campaigns/:id/members", campaign.ListMembers)
	api.Post("/campaigns/members/add", campaign.AddMember)
	api.Post("/campaigns/members/remove", campaign.RemoveMember)

	post := handlers.NewPostHandler(postService)
	api.Post("/posts/create", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.PostInfo)
	api.Post("/posts/update", post.UpdatePost)
	api.Post("/posts/schedule", post.SchedulePost)
	api.Post("/posts/cancel", post.CancelSchedule)
	api.Post("/posts/publish", post.PublishPost)
	api.Post("/posts/remove", post.RemovePost)

	integration := handlers.NewIntegrationHandler(twitterService)
	api.Get("/auth/twitter", integration.ConnectTwitter)
	api.Get("/auth/twitter/callback", integration.TwitterCallbackHandler)
	api.Get("/integrations", integration.ListIntegrations)
	api.Post("/integrations/remove", integration.RemoveIntegration)

	notification := handlers.NewNotificationHandler(notificationService)
	api.Get("/notifications", notification.ListNotifications)
	api.Post("/notifications/read", notification.MarkRead)

	// cron jobs
	sweepJob := job.NewSweepJob(engine)
	metricsJob := job.NewMetricsJob(postRepo, integrationRepo, twitterService)
	tokenRefreshJob := job.NewTokenRefreshJob(integrationRepo, twitterService)

	worker := queue.NewWorker(engine)

	c := cron.New()
	c.AddFunc("@hourly", sweepJob.Run)
	c.AddFunc("@every 00h30m00s", metricsJob.RefreshMetrics)
	c.AddFunc("@every 00h10m00s", tokenRefreshJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, worker.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
