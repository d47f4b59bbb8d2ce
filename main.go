package main

import (
	"log"
	"time"

	"coursebox/config"
	authController "coursebox/controllers/auth"
	courseController "coursebox/controllers/course"
	"coursebox/database"
	"coursebox/logger"
	"coursebox/media"
	authRoutes "coursebox/routers/authRoutes"
	courseRoutes "coursebox/routers/courseRoutes"
	"coursebox/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	appLog, err := logger.New(config.AppConfig.AppEnv)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	gateway := media.NewCloudinaryClient(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
		media.WithBaseURL(config.AppConfig.CloudinaryURL),
	)

	db := database.Database.Db
	notifier := utils.NewPublishNotifier(db, appLog, config.AppConfig.SendGridKey, config.AppConfig.EmailSender)

	sweeper := utils.NewUploadSweeper(db, gateway, appLog,
		time.Duration(config.AppConfig.SweepGraceMins)*time.Minute)
	scheduler, err := sweeper.Start(config.AppConfig.SweepSchedule)
	if err != nil {
		log.Fatalf("Failed to schedule upload sweeper: %v", err)
	}
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // course attachments
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app, authController.NewController(db, appLog))
	courseRoutes.SetupCourseRoutes(app, courseController.NewController(db, gateway, appLog, notifier))

	appLog.Info("server starting", "port", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
