package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"card-pull-system/handlers"
	"card-pull-system/middleware"
	"card-pull-system/models"
	"card-pull-system/services"
	"card-pull-system/utils"
	"card-pull-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // 32MB — card artwork uploads only
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.PullRecord{},
		&models.EngagementEvent{},
		&models.UserProgress{},
		&models.XPLedgerEntry{},
		&models.UserAchievement{},
		&models.Pack{},
		&models.Card{},
		&models.PackClaim{},
		&models.FreePull{},
		&models.BalanceMirror{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Token gate minimum for the daily pull, overridable per deployment
	minBalance := float64(services.MinBalanceForPull)
	if raw := os.Getenv("MIN_BALANCE_FOR_PULL"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Fatal("invalid MIN_BALANCE_FOR_PULL:", err)
		}
		minBalance = parsed
	}

	ledgerService := services.NewLedgerService(db)
	progressionService := services.NewProgressionService(db)
	achievementService := services.NewAchievementService(db)
	packService := services.NewPackService(db)
	comboTracker := services.NewComboTracker(nil)
	pullService := services.NewPullService(db, ledgerService, progressionService,
		achievementService, packService, comboTracker, minBalance)

	// --- Auth service client for SSE query-string auth ---
	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	cardServiceToken := os.Getenv("CARD_SERVICE_TOKEN")
	if cardServiceToken == "" {
		log.Fatal("CARD_SERVICE_TOKEN environment variable not set")
	}
	authClient := services.NewAuthServiceClient(authServiceURL, cardServiceToken)

	// --- Balance mirror polling (the engine's TokenBalance collaborator) ---
	balanceSyncClient := workers.NewBalanceSyncClient(db)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go workers.PollBalances(ctx, balanceSyncClient, 10*time.Second)

	packService.StartPublishScheduler()

	// ✅ Setup routes — enforced Gateway auth + user context on secured paths
	handlers.SetupPullRoutes(app, pullService, progressionService, achievementService, authClient)
	handlers.SetupPackRoutes(app, packService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Balance polling running (every 10s)")
	log.Println("✅ Pack publish scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)
	log.Printf("✅ Daily pull token gate: %.0f", minBalance)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
