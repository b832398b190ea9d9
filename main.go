package main

import (
	"time"

	"edutrek/assessment"
	"edutrek/cache"
	"edutrek/config"
	chatbotControllers "edutrek/controllers/chatbot"
	courseControllers "edutrek/controllers/course"
	quizControllers "edutrek/controllers/quiz"
	"edutrek/database"
	"edutrek/logger"
	adminRoutes "edutrek/routers/adminRoutes"
	authRoutes "edutrek/routers/authRoutes"
	certificateRoutes "edutrek/routers/certificateRoutes"
	chatbotRoutes "edutrek/routers/chatbotRoutes"
	courseRoutes "edutrek/routers/courseRoutes"
	paymentRoutes "edutrek/routers/paymentRoutes"
	quizRoutes "edutrek/routers/quizRoutes"
	"edutrek/services/chatbot"
	"edutrek/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	logger.Init(config.AppConfig.Env)
	defer logger.Sync()

	database.ConnectDb()

	// Cache: redis when configured, in-process otherwise.
	var store cache.Store
	var memStore *cache.MemoryStore
	if config.AppConfig.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(config.AppConfig.RedisAddr, "edutrek")
		if err != nil {
			logger.Fatal("redis connection failed", "addr", config.AppConfig.RedisAddr, "error", err)
		}
		store = redisStore
	} else {
		memStore = cache.NewMemoryStore()
		store = memStore
		logger.Info("no REDIS_ADDR set, using in-process cache")
	}

	// Proctored attempt controller with its 1-second tick loop.
	sessions := assessment.NewController(courseControllers.AutoSubmitExpired, courseControllers.ChargeAbandoned)
	sessions.Run()
	defer sessions.Stop()

	bot := chatbot.NewService()

	courseControllers.UseSessionController(sessions)
	courseControllers.UseCacheStore(store)
	chatbotControllers.UseService(bot)
	quizControllers.Use(store, bot)

	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	var purger utils.Purger
	if memStore != nil {
		purger = memStore
	}
	sweeper := utils.StartSweeper(sessions, purger, sessionTTL)
	defer sweeper.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	chatbotRoutes.SetupChatbotRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	logger.Info("server starting", "port", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
